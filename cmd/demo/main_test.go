package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenSink_Stderr(t *testing.T) {
	sink, closeSink, err := openSink("stderr")
	if err != nil {
		t.Fatalf("openSink(stderr) error = %v", err)
	}
	defer closeSink()

	if sink == nil {
		t.Fatal("expected non-nil sink")
	}
}

func TestOpenSink_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log")

	sink, closeSink, err := openSink(path)
	if err != nil {
		t.Fatalf("openSink(%q) error = %v", path, err)
	}

	if err := sink.WriteLine("request: [200] none 1.2.3.4:5 h GET / HTTP/1.1 a r 1ms"); err != nil {
		t.Fatalf("WriteLine() error = %v", err)
	}
	closeSink()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasSuffix(string(data), "1ms\n") {
		t.Errorf("file contents = %q, want trailing newline after line", data)
	}
}

func TestOpenSink_BadPath(t *testing.T) {
	if _, _, err := openSink(filepath.Join(t.TempDir(), "missing", "access.log")); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

func TestHandleGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/some/path", nil)
	rr := httptest.NewRecorder()

	handleGet(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if got := rr.Body.String(); got != "get from path /some/path\n" {
		t.Errorf("body = %q", got)
	}
}

func TestHandleMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rr := httptest.NewRecorder()

	handleMethodNotAllowed(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}
