package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/npratt/pomodoro/internal/config"
	"github.com/npratt/pomodoro/internal/testutil"
	"github.com/npratt/pomodoro/internal/timer"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func enabledSound() config.SoundConfig {
	return config.SoundConfig{Enabled: true, Timeout: time.Second, BellFallback: true}
}

func TestRingSoundIsWAV(t *testing.T) {
	if len(ringSound) < 44 {
		t.Fatalf("ring sound too short: %d bytes", len(ringSound))
	}
	if string(ringSound[0:4]) != "RIFF" || string(ringSound[8:12]) != "WAVE" {
		t.Errorf("ring sound is not a RIFF/WAVE file: %q", ringSound[0:12])
	}
}

func TestPlayer_PlaysWithDetectedPlayer(t *testing.T) {
	runner := testutil.NewMockRunner()
	runner.SetPath("aplay", "/usr/bin/aplay")
	runner.Responses["aplay"] = nil

	dir := t.TempDir()
	var bellBuf bytes.Buffer
	p := NewPlayer(enabledSound(), runner,
		WithLogger(discardLogger()),
		WithSoundDir(dir),
		WithBellWriter(&bellBuf),
	)

	p.Notify(timer.PhaseFocus)
	p.Wait()

	calls := runner.GetCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 player call, got %d", len(calls))
	}
	if calls[0].Name != "aplay" || len(calls[0].Args) != 1 {
		t.Fatalf("unexpected call: %s %v", calls[0].Name, calls[0].Args)
	}

	data, err := os.ReadFile(calls[0].Args[0])
	if err != nil {
		t.Fatalf("sound file not written: %v", err)
	}
	if !bytes.Equal(data, ringSound) {
		t.Error("extracted sound file does not match bundled sound")
	}
	if bellBuf.Len() != 0 {
		t.Errorf("bell should not ring on success, got %q", bellBuf.String())
	}
}

func TestPlayer_ConfiguredCommandWithArgs(t *testing.T) {
	runner := testutil.NewMockRunner()
	runner.SetPath("paplay", "/usr/bin/paplay")
	runner.Responses["paplay --volume=40000"] = nil

	cfg := enabledSound()
	cfg.Player = "paplay --volume=40000"
	p := NewPlayer(cfg, runner, WithLogger(discardLogger()), WithSoundDir(t.TempDir()))

	p.Notify(timer.PhaseRest)
	p.Wait()

	calls := runner.GetCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if len(calls[0].Args) != 2 || calls[0].Args[0] != "--volume=40000" {
		t.Errorf("configured args not passed through: %v", calls[0].Args)
	}
}

func TestPlayer_Disabled(t *testing.T) {
	runner := testutil.NewMockRunner()
	runner.SetPath("aplay", "/usr/bin/aplay")

	cfg := enabledSound()
	cfg.Enabled = false
	p := NewPlayer(cfg, runner, WithLogger(discardLogger()))

	p.Notify(timer.PhaseFocus)
	p.Wait()

	if len(runner.GetCalls()) != 0 {
		t.Error("disabled player should not run any command")
	}
}

func TestPlayer_NoPlayerRingsBell(t *testing.T) {
	runner := testutil.NewMockRunner()

	var bellBuf bytes.Buffer
	var gotErr error
	p := NewPlayer(enabledSound(), runner,
		WithLogger(discardLogger()),
		WithBellWriter(&bellBuf),
		WithOnError(func(err error) { gotErr = err }),
	)

	p.Notify(timer.PhaseFocus)
	p.Wait()

	if bellBuf.String() != "\a" {
		t.Errorf("bell output = %q, want BEL", bellBuf.String())
	}
	if !errors.Is(gotErr, ErrNoPlayer) {
		t.Errorf("onError got %v, want ErrNoPlayer", gotErr)
	}
}

func TestPlayer_PlaybackFailure(t *testing.T) {
	runner := testutil.NewMockRunner()
	runner.SetPath("afplay", "/usr/bin/afplay")
	playErr := errors.New("exit status 1")
	runner.Errors["afplay"] = playErr

	cfg := enabledSound()
	cfg.Player = "afplay"
	cfg.BellFallback = false

	var bellBuf bytes.Buffer
	var gotErr error
	p := NewPlayer(cfg, runner,
		WithLogger(discardLogger()),
		WithSoundDir(t.TempDir()),
		WithBellWriter(&bellBuf),
		WithOnError(func(err error) { gotErr = err }),
	)

	p.Notify(timer.PhaseRest)
	p.Wait()

	if !errors.Is(gotErr, playErr) {
		t.Errorf("onError got %v, want wrapped %v", gotErr, playErr)
	}
	if bellBuf.Len() != 0 {
		t.Error("bell rang although bell_fallback is off")
	}
}

func TestPlayer_NotifyDoesNotBlock(t *testing.T) {
	runner := testutil.NewMockRunner()
	runner.SetPath("aplay", "/usr/bin/aplay")

	release := make(chan struct{})
	runner.DynamicResponse = func(ctx context.Context, name string, args []string) ([]byte, error, bool) {
		<-release
		return nil, nil, true
	}

	p := NewPlayer(enabledSound(), runner, WithLogger(discardLogger()), WithSoundDir(t.TempDir()))

	returned := make(chan struct{})
	go func() {
		p.Notify(timer.PhaseFocus)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on playback")
	}

	close(release)
	p.Wait()
}

func TestResolvePlayer(t *testing.T) {
	tests := []struct {
		name       string
		available  []string
		configured string
		want       []string
		wantErr    bool
	}{
		{"first default wins", []string{"aplay", "paplay"}, "", []string{"paplay"}, false},
		{"falls through defaults", []string{"afplay"}, "", []string{"afplay"}, false},
		{"configured command", []string{"mpv"}, "mpv --no-video", []string{"mpv", "--no-video"}, false},
		{"configured but missing", []string{"aplay"}, "mpv", nil, true},
		{"nothing available", nil, "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := testutil.NewMockRunner()
			for _, name := range tt.available {
				runner.SetPath(name, "/usr/bin/"+name)
			}

			got, err := ResolvePlayer(runner, tt.configured)
			if tt.wantErr {
				if !errors.Is(err, ErrNoPlayer) {
					t.Errorf("err = %v, want ErrNoPlayer", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
