package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// archiveTimeFormat names archived session logs by when their last event
// was written. It sorts lexically in time order.
const archiveTimeFormat = "2006-01-02T15-04-05"

// LogSink records one session's events as JSON lines. Starting it archives
// the previous session's log, so the file at path only ever holds the
// current session. Nothing reads the log back to restore timer state.
type LogSink struct {
	path   string
	logger *slog.Logger
	keep   int

	mu      sync.Mutex
	file    *os.File
	written int
	done    chan struct{}
}

// LogSinkOption configures a LogSink.
type LogSinkOption func(*LogSink)

// WithKeepArchives limits how many archived session logs are kept next to
// the live one. Zero or less keeps them all.
func WithKeepArchives(n int) LogSinkOption {
	return func(s *LogSink) {
		s.keep = n
	}
}

// NewLogSink creates a sink for the log at path. A nil logger falls back to
// slog.Default.
func NewLogSink(path string, logger *slog.Logger, opts ...LogSinkOption) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	s := &LogSink{
		path:   path,
		logger: logger,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start archives the previous session, opens a fresh log and writes events
// until ctx is canceled or events is closed.
func (s *LogSink) Start(ctx context.Context, events <-chan Event) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	archived, err := archiveSession(s.path)
	if err != nil {
		return err
	}
	if archived != "" {
		s.logger.Debug("archived previous session log", "archive", archived)
		s.pruneArchives()
	}

	file, err := openLog(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.file = file
	s.mu.Unlock()

	go s.run(ctx, events)
	return nil
}

// ArchivePattern is the glob matching every archived session of the log at path.
func ArchivePattern(path string) string {
	return path + ".*.bak"
}

// archiveSession renames a non-empty log at path to
// <path>.<last write time>.bak and returns the new name. Sessions that
// ended in the same second get a numeric suffix.
func archiveSession(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() == 0 {
		return "", nil
	}

	stamp := info.ModTime().Format(archiveTimeFormat)
	archive := fmt.Sprintf("%s.%s.bak", path, stamp)
	for n := 1; ; n++ {
		if _, err := os.Stat(archive); os.IsNotExist(err) {
			break
		}
		archive = fmt.Sprintf("%s.%s-%d.bak", path, stamp, n)
	}

	if err := os.Rename(path, archive); err != nil {
		return "", fmt.Errorf("archive log file: %w", err)
	}
	return archive, nil
}

// pruneArchives removes the oldest archived sessions beyond the keep limit.
func (s *LogSink) pruneArchives() {
	if s.keep <= 0 {
		return
	}
	matches, err := filepath.Glob(ArchivePattern(s.path))
	if err != nil || len(matches) <= s.keep {
		return
	}

	type archive struct {
		path string
		mod  time.Time
	}
	archives := make([]archive, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		archives = append(archives, archive{path: m, mod: info.ModTime()})
	}
	sort.Slice(archives, func(i, j int) bool {
		if archives[i].mod.Equal(archives[j].mod) {
			return archives[i].path < archives[j].path
		}
		return archives[i].mod.Before(archives[j].mod)
	})

	for len(archives) > s.keep {
		if err := os.Remove(archives[0].path); err != nil {
			s.logger.Warn("failed to remove old session log", "archive", archives[0].path, "error", err)
		}
		archives = archives[1:]
	}
}

func openLog(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

func (s *LogSink) run(ctx context.Context, events <-chan Event) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.write(event)
		}
	}
}

func (s *LogSink) write(event Event) {
	line, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to encode event", "type", event.Type(), "error", err)
		return
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return
	}
	if err := s.reopenIfMoved(); err != nil {
		s.logger.Warn("failed to reopen event log", "path", s.path, "error", err)
	}
	if _, err := s.file.Write(line); err != nil {
		s.logger.Warn("failed to write event", "type", event.Type(), "error", err)
		return
	}
	s.written++
}

// reopenIfMoved points the sink back at path when the file it holds has
// been renamed or removed, so events keep landing where readers look.
// Callers hold s.mu.
func (s *LogSink) reopenIfMoved() error {
	current, err := os.Stat(s.path)
	switch {
	case err == nil:
		held, err := s.file.Stat()
		if err == nil && os.SameFile(current, held) {
			return nil
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("stat log file: %w", err)
	default:
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}

	file, err := openLog(s.path)
	if err != nil {
		return err
	}
	_ = s.file.Close()
	s.file = file
	s.logger.Info("event log moved, reopened", "path", s.path)
	return nil
}

// Written returns the number of events written so far.
func (s *LogSink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Stop waits for the event stream to end and closes the log file.
func (s *LogSink) Stop() error {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
