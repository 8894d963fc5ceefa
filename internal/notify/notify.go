// Package notify plays the audible cue when a pomodoro phase expires.
package notify

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/npratt/pomodoro/internal/config"
	"github.com/npratt/pomodoro/internal/exec"
	"github.com/npratt/pomodoro/internal/timer"
)

// ErrNoPlayer indicates no audio player command could be found.
var ErrNoPlayer = errors.New("no audio player found")

// bell is the ASCII BEL control character.
const bell = "\a"

//go:embed ring.wav
var ringSound []byte

// Player plays the ring sound through an external audio player command.
// Playback is fire-and-forget: Notify returns immediately and failures are
// only logged.
type Player struct {
	cfg      config.SoundConfig
	runner   exec.CommandRunner
	logger   *slog.Logger
	bellOut  io.Writer
	soundDir string

	resolveOnce sync.Once
	command     []string
	resolveErr  error

	writeOnce sync.Once
	soundPath string
	writeErr  error

	mu      sync.Mutex
	wg      sync.WaitGroup
	onError func(error)
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger used for playback failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithBellWriter sets where the terminal bell is written when no player works.
func WithBellWriter(w io.Writer) Option {
	return func(p *Player) {
		p.bellOut = w
	}
}

// WithSoundDir sets the directory the bundled sound file is extracted to.
func WithSoundDir(dir string) Option {
	return func(p *Player) {
		p.soundDir = dir
	}
}

// WithOnError registers a callback for playback failures, after logging.
func WithOnError(fn func(error)) Option {
	return func(p *Player) {
		p.onError = fn
	}
}

// NewPlayer creates a Player from the sound configuration.
func NewPlayer(cfg config.SoundConfig, runner exec.CommandRunner, opts ...Option) *Player {
	p := &Player{
		cfg:      cfg,
		runner:   runner,
		logger:   slog.Default(),
		bellOut:  os.Stderr,
		soundDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cfg.Timeout <= 0 {
		p.cfg.Timeout = 10 * time.Second
	}
	return p
}

// Notify starts playing the ring sound in the background.
func (p *Player) Notify(expired timer.Phase) {
	if !p.cfg.Enabled {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.play(); err != nil {
			p.logger.Warn("ring sound failed", "phase", expired, "error", err)
			if p.cfg.BellFallback {
				p.ringBell()
			}
			if p.onError != nil {
				p.onError(err)
			}
			return
		}
		p.logger.Debug("ring sound played", "phase", expired)
	}()
}

// Wait blocks until all in-flight playbacks finish.
func (p *Player) Wait() {
	p.wg.Wait()
}

// Command returns the resolved player command, or an error if none is available.
func (p *Player) Command() ([]string, error) {
	p.resolveOnce.Do(func() {
		p.command, p.resolveErr = ResolvePlayer(p.runner, p.cfg.Player)
	})
	return p.command, p.resolveErr
}

func (p *Player) play() error {
	command, err := p.Command()
	if err != nil {
		return err
	}
	path, err := p.soundFile()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
	defer cancel()

	args := append(append([]string{}, command[1:]...), path)
	if out, err := p.runner.Run(ctx, command[0], args...); err != nil {
		return fmt.Errorf("%s: %w: %s", command[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// soundFile extracts the bundled sound once and returns its path.
func (p *Player) soundFile() (string, error) {
	p.writeOnce.Do(func() {
		if err := os.MkdirAll(p.soundDir, 0755); err != nil {
			p.writeErr = fmt.Errorf("create sound directory: %w", err)
			return
		}
		path := filepath.Join(p.soundDir, "pomodoro-ring.wav")
		if err := os.WriteFile(path, ringSound, 0644); err != nil {
			p.writeErr = fmt.Errorf("write ring sound: %w", err)
			return
		}
		p.soundPath = path
	})
	return p.soundPath, p.writeErr
}

func (p *Player) ringBell() {
	if p.bellOut == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.bellOut, bell)
}

// ResolvePlayer returns the player command line to use. A configured command
// is split on whitespace and its executable must be on PATH; otherwise the
// first of config.DefaultPlayers found on PATH is used.
func ResolvePlayer(runner exec.CommandRunner, configured string) ([]string, error) {
	if fields := strings.Fields(configured); len(fields) > 0 {
		if _, err := runner.LookPath(fields[0]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrNoPlayer, fields[0], err)
		}
		return fields, nil
	}

	for _, candidate := range config.DefaultPlayers {
		if _, err := runner.LookPath(candidate); err == nil {
			return []string{candidate}, nil
		}
	}
	return nil, fmt.Errorf("%w: tried %s", ErrNoPlayer, strings.Join(config.DefaultPlayers, ", "))
}
