package reqlog

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/jkindrix/reqlog/internal/clock"
)

// recordKey is the context key under which the middleware stores a Record.
type recordKey struct{}

// Logger wires Records into an HTTP middleware chain: one Record per
// request, finalized with the captured status code when the handler
// returns, and emitted to the configured Sink.
type Logger struct {
	sink   Sink
	clk    clock.Clock
	errLog *zap.Logger
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithLoggerClock sets the clock injected into every Record.
func WithLoggerClock(c clock.Clock) LoggerOption {
	return func(l *Logger) {
		l.clk = c
	}
}

// WithErrorLog sets the zap logger used to report sink write failures.
// Failures are never surfaced to the client. Defaults to a no-op logger.
func WithErrorLog(logger *zap.Logger) LoggerOption {
	return func(l *Logger) {
		l.errLog = logger
	}
}

// NewLogger creates a Logger emitting to sink.
func NewLogger(sink Sink, opts ...LoggerOption) *Logger {
	l := &Logger{
		sink:   sink,
		clk:    clock.New(),
		errLog: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Middleware returns an http.Handler middleware that logs one line per
// completed exchange. The in-flight Record is reachable from the request
// context via FromContext, SetAction, and SetUser.
//
// If the handler panics the record is dropped: no partial line is emitted,
// and the panic propagates to the surrounding recovery middleware.
func (l *Logger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec := NewRecord(req, WithClock(l.clk))
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, req.WithContext(NewContext(req.Context(), rec)))

		line, err := rec.Finalize(rw.statusCode)
		if err != nil {
			l.errLog.Error("finalize request record", zap.Error(err))
			return
		}
		if err := l.sink.WriteLine(line); err != nil {
			l.errLog.Error("write access line", zap.Error(err))
		}
	})
}

// NewContext returns a context carrying rec.
func NewContext(ctx context.Context, rec *Record) context.Context {
	return context.WithValue(ctx, recordKey{}, rec)
}

// FromContext returns the in-flight Record, or nil when the middleware is
// not installed.
func FromContext(ctx context.Context) *Record {
	rec, _ := ctx.Value(recordKey{}).(*Record)
	return rec
}

// SetAction sets the action on the context's Record. It is a no-op when no
// record is present, so handlers stay testable without the middleware.
func SetAction(ctx context.Context, action string) error {
	if rec := FromContext(ctx); rec != nil {
		return rec.SetAction(action)
	}
	return nil
}

// SetUser sets the user on the context's Record. It is a no-op when no
// record is present.
func SetUser(ctx context.Context, user string) error {
	if rec := FromContext(ctx); rec != nil {
		return rec.SetUser(user)
	}
	return nil
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}
