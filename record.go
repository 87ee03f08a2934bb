package reqlog

import (
	"errors"
	"net/http"
	"time"

	"github.com/jkindrix/reqlog/internal/clock"
)

// ErrFinalized is returned when a record is mutated or finalized after it
// has already been finalized.
var ErrFinalized = errors.New("reqlog: record already finalized")

// Fields holds the request-side snapshot for a Record. Header-derived
// values are raw bytes: they may contain spaces, quotes, or invalid UTF-8
// and are stored verbatim until render time.
type Fields struct {
	// RemoteAddr is the socket address of the peer, as "ip:port".
	RemoteAddr string
	// ForwardedFor is the raw forwarding header value; nil means the
	// header was absent.
	ForwardedFor []byte
	Host         []byte
	Method       string
	URI          string
	Version      string
	Agent        []byte
	Referer      []byte
}

// Record accumulates the fields of one HTTP exchange and renders them as a
// single access-log line on Finalize.
//
// A Record belongs to exactly one in-flight request and is not safe for
// concurrent use; the caller must sequence SetAction, SetUser, and
// Finalize.
type Record struct {
	clk       clock.Clock
	createdAt time.Time

	fields Fields

	action    string
	hasAction bool
	user      string
	hasUser   bool

	status    int
	elapsed   time.Duration
	finalized bool
	line      string
}

// RecordOption configures a Record at construction time.
type RecordOption func(*Record)

// WithClock sets the clock used for the start timestamp and elapsed-time
// measurement. Defaults to the real system clock.
func WithClock(c clock.Clock) RecordOption {
	return func(r *Record) {
		r.clk = c
	}
}

// NewRecord captures the request-side snapshot from req and starts the
// latency timer. Header bytes are stored verbatim; no validation or
// escaping happens until Finalize.
func NewRecord(req *http.Request, opts ...RecordOption) *Record {
	uri := req.RequestURI
	if uri == "" && req.URL != nil {
		uri = req.URL.RequestURI()
	}
	f := Fields{
		RemoteAddr: req.RemoteAddr,
		Host:       []byte(req.Host),
		Method:     req.Method,
		URI:        uri,
		Version:    req.Proto,
		Agent:      []byte(req.Header.Get("User-Agent")),
		Referer:    []byte(req.Header.Get("Referer")),
	}
	if vals := req.Header.Values("X-Forwarded-For"); len(vals) > 0 {
		f.ForwardedFor = []byte(vals[0])
	}
	return NewRecordFromFields(f, opts...)
}

// NewRecordFromFields builds a Record from an explicit snapshot, for
// callers not going through net/http.
func NewRecordFromFields(f Fields, opts ...RecordOption) *Record {
	r := &Record{
		clk:    clock.New(),
		fields: f,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.createdAt = r.clk.Now()
	return r
}

// SetAction sets the classifier token rendered ahead of the status code.
// Last write wins. Returns ErrFinalized once the record is finalized.
func (r *Record) SetAction(action string) error {
	if r.finalized {
		return ErrFinalized
	}
	r.action = action
	r.hasAction = true
	return nil
}

// SetUser sets the user identity for the exchange. The value is escaped at
// render time, so any string is acceptable. Last write wins. Returns
// ErrFinalized once the record is finalized.
func (r *Record) SetUser(user string) error {
	if r.finalized {
		return ErrFinalized
	}
	r.user = user
	r.hasUser = true
	return nil
}

// Finalize captures the response status, measures the elapsed time, and
// renders the access line. It may be called at most once; subsequent calls
// return ErrFinalized and never produce a second line.
//
// The elapsed value is formatted with time.Duration's String rules (largest
// unit with magnitude at least one, e.g. 82.556µs). A clock that runs
// backwards is clamped to a zero duration.
func (r *Record) Finalize(status int) (string, error) {
	if r.finalized {
		return "", ErrFinalized
	}
	r.status = status
	r.elapsed = r.clk.Since(r.createdAt)
	if r.elapsed < 0 {
		r.elapsed = 0
	}
	r.finalized = true
	r.line = assemble(r)
	return r.line, nil
}

// Finalized reports whether Finalize has run.
func (r *Record) Finalized() bool {
	return r.finalized
}

// Line returns the rendered access line, or the empty string before
// Finalize. Repeated calls return the identical rendering.
func (r *Record) Line() string {
	return r.line
}

// CreatedAt returns the start timestamp captured at construction.
func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}
