package worldlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultMaxBytes is the per-file rotation threshold: 75 MiB.
const DefaultMaxBytes int64 = 75 * 1024 * 1024

const globalStreamKey = "global"

// Logger owns one append-only text stream per actor (plus one global
// stream for events with no single owning actor) and rotates each
// stream's backing file once it would exceed maxBytes.
type Logger struct {
	dir      string
	maxBytes int64

	mu      sync.Mutex
	streams map[string]*stream
	closed  bool
}

// NewLogger creates the log directory (if needed) and returns a Logger
// that writes under it. maxBytes <= 0 selects DefaultMaxBytes.
func NewLogger(dir string, maxBytes int64) (*Logger, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("worldlog: create log dir: %w", err)
	}
	return &Logger{
		dir:      dir,
		maxBytes: maxBytes,
		streams:  make(map[string]*stream),
	}, nil
}

// Event appends a line to the global stream. It satisfies the Logger
// interface effects.Dispatcher dispatches through.
func (l *Logger) Event(eventType string, fields map[string]string) {
	l.emit(globalStreamKey, eventType, fields)
}

// ActorEvent appends a line to actorId's own stream.
func (l *Logger) ActorEvent(actorId string, eventType string, fields map[string]string) {
	l.emit(streamKeyForActor(actorId), eventType, fields)
}

// ForActor returns a bound logger that always writes to actorId's
// stream; ActorHost holds one of these for the lifetime of its loop.
func (l *Logger) ForActor(actorId string) *PerActorLogger {
	return &PerActorLogger{parent: l, actorId: actorId}
}

// Close stops every stream's drain goroutine and closes its file,
// blocking until each has flushed its buffered lines.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	streams := make([]*stream, 0, len(l.streams))
	for _, s := range l.streams {
		streams = append(streams, s)
	}
	l.mu.Unlock()

	var firstErr error
	for _, s := range streams {
		if err := s.stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (l *Logger) emit(streamKey, eventType string, fields map[string]string) {
	line := formatLine(eventType, fields)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	s, ok := l.streams[streamKey]
	if !ok {
		s = newStream(filepath.Join(l.dir, streamKey+".log"), l.maxBytes)
		l.streams[streamKey] = s
	}
	l.mu.Unlock()

	s.send(line)
}

func streamKeyForActor(actorId string) string {
	return "actor-" + actorId
}

// formatLine renders HH:mm:ss.fff|TYPE key=value key=value ... with
// keys sorted for deterministic output.
func formatLine(eventType string, fields map[string]string) string {
	var b strings.Builder
	b.WriteString(time.Now().Format("15:04:05.000"))
	b.WriteByte('|')
	b.WriteString(eventType)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(fields[k])
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// stream is one rotating, append-only file fed by a buffered channel
// and drained by a single goroutine, so concurrent callers across many
// actor goroutines never block on file I/O or contend on a write lock.
type stream struct {
	basePath string
	maxBytes int64

	lines chan string
	done  chan struct{}

	file  *os.File
	size  int64
	index int
}

func newStream(basePath string, maxBytes int64) *stream {
	s := &stream{
		basePath: basePath,
		maxBytes: maxBytes,
		lines:    make(chan string, 256),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *stream) send(line string) {
	defer func() {
		// A send on a closed channel only happens if Close raced a
		// late emit; drop the line rather than panic the caller.
		recover()
	}()
	s.lines <- line
}

func (s *stream) stop() error {
	close(s.lines)
	<-s.done
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

func (s *stream) run() {
	defer close(s.done)
	for line := range s.lines {
		if err := s.write(line); err != nil {
			// Nowhere to report a file-write failure from inside the
			// drain goroutine; drop the line and keep serving the rest.
			continue
		}
	}
}

func (s *stream) write(line string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if s.size > 0 && s.size+int64(len(line)) > s.maxBytes {
		if err := s.rotate(); err != nil {
			return err
		}
	}
	n, err := s.file.WriteString(line)
	s.size += int64(n)
	return err
}

func (s *stream) ensureOpen() error {
	if s.file != nil {
		return nil
	}
	f, err := os.OpenFile(s.basePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	s.file = f
	s.size = info.Size()
	return nil
}

func (s *stream) rotate() error {
	if err := s.file.Close(); err != nil {
		return err
	}
	s.index++
	rotated := fmt.Sprintf("%s.%d", s.basePath, s.index)
	if err := os.Rename(s.basePath, rotated); err != nil {
		return err
	}
	f, err := os.OpenFile(s.basePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	s.file = f
	s.size = 0
	return nil
}

// PerActorLogger binds a Logger to one actor id, satisfying the same
// Event(eventType, fields) contract as the global logger.
type PerActorLogger struct {
	parent  *Logger
	actorId string
}

// Event appends a line to this actor's own stream.
func (p *PerActorLogger) Event(eventType string, fields map[string]string) {
	p.parent.ActorEvent(p.actorId, eventType, fields)
}
