package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/npratt/pomodoro/internal/events"
)

// followPoll is how often tailFollow checks for new lines and for the log
// file to appear.
var followPoll = 200 * time.Millisecond

// tailLast prints the last n events from the log file.
func tailLast(w io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			_, _ = fmt.Fprintln(w, "No events yet (log file does not exist)")
			return nil
		}
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	if len(lines) == 0 {
		_, _ = fmt.Fprintln(w, "No events yet")
		return nil
	}

	start := 0
	if n > 0 && len(lines) > n {
		start = len(lines) - n
	}

	for _, line := range lines[start:] {
		printEventLine(w, line)
	}
	return nil
}

// waitForFile waits for a file to be created and returns the opened file.
func waitForFile(ctx context.Context, path string) (*os.File, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(followPoll):
			file, err := os.Open(path)
			if err == nil {
				return file, nil
			}
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("open file: %w", err)
			}
		}
	}
}

// tailFollow prints events appended to the log until ctx is canceled. When
// a new session archives the log and starts a fresh one, it switches to the
// new file and reads it from the start.
func tailFollow(ctx context.Context, w io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("open log file: %w", err)
		}
		_, _ = fmt.Fprintln(w, "Waiting for log file to be created...")
		file, err = waitForFile(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	} else if _, err := file.Seek(0, io.SeekEnd); err != nil {
		_ = file.Close()
		return fmt.Errorf("seek to end: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, _ = fmt.Fprintln(w, "Following events (Ctrl+C to stop)...")
	reader := bufio.NewReader(file)
	var partial string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return fmt.Errorf("read log: %w", err)
			}
			// Keep an unterminated line until the rest of it arrives.
			partial += line

			if replaced, ok := logReplaced(file, path); ok {
				_ = file.Close()
				file = replaced
				reader.Reset(file)
				partial = ""
				continue
			}

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(followPoll):
			}
			continue
		}
		printEventLine(w, strings.TrimSpace(partial+line))
		partial = ""
	}
}

// logReplaced opens the file now at path when it is no longer the one held
// open. A missing path means the swap is still in progress.
func logReplaced(held *os.File, path string) (*os.File, bool) {
	current, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	heldInfo, err := held.Stat()
	if err == nil && os.SameFile(current, heldInfo) {
		return nil, false
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	return file, true
}

// printEventLine prints one log line in a human-readable form. Lines that
// are not events are printed as-is.
func printEventLine(w io.Writer, line string) {
	if line == "" {
		return
	}
	rec, err := events.ParseRecord([]byte(line))
	if err != nil {
		_, _ = fmt.Fprintln(w, line)
		return
	}
	_, _ = fmt.Fprintln(w, events.FormatRecord(rec))
}
