package reqlog

import (
	"io"
	"sync"

	"go.uber.org/zap"
)

// Sink receives finished access lines for durable output. Implementations
// own delivery, ordering, and any buffering; the library only guarantees
// that each finalized record produces exactly one WriteLine call.
type Sink interface {
	WriteLine(line string) error
}

// WriterSink writes each line plus a trailing newline to an io.Writer.
// Writes are serialized, so a single sink may be shared by every in-flight
// request.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a Sink backed by w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// WriteLine implements Sink.
func (s *WriterSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

// ZapSink emits each access line as an info-level zap message, for stacks
// that funnel all output through a single zap logger.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink returns a Sink backed by logger.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// WriteLine implements Sink.
func (s *ZapSink) WriteLine(line string) error {
	s.logger.Info(line)
	return nil
}
