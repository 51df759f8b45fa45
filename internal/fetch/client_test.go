package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFetch_WritesFile(t *testing.T) {
	const body = "%PDF-1.4 fake score"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := NewClient(3, 0)

	local, err := client.Fetch(context.Background(), srv.URL+"/scores/lead-sheet.pdf", dir)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := filepath.Base(local); got != "lead-sheet.pdf" {
		t.Errorf("Fetch() wrote %q, want lead-sheet.pdf", got)
	}

	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != body {
		t.Errorf("downloaded content = %q, want %q", data, body)
	}
}

func TestFetch_CollisionGetsSuffix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "new version")
	}))
	defer srv.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "lead-sheet.pdf")
	if err := os.WriteFile(existing, []byte("old version"), 0644); err != nil {
		t.Fatal(err)
	}

	client := NewClient(1, 0)
	local, err := client.Fetch(context.Background(), srv.URL+"/scores/lead-sheet.pdf", dir)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := filepath.Base(local); got != "lead-sheet_1.pdf" {
		t.Errorf("Fetch() wrote %q, want lead-sheet_1.pdf", got)
	}

	data, _ := os.ReadFile(existing)
	if string(data) != "old version" {
		t.Errorf("existing file was overwritten: %q", data)
	}
}

func TestFetch_SanitizesName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data")
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := NewClient(1, 0)

	local, err := client.Fetch(context.Background(), srv.URL+"/sheets/solo%3A%20part.pdf", dir)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := filepath.Base(local); got != "solo_ part.pdf" {
		t.Errorf("Fetch() wrote %q, want %q", got, "solo_ part.pdf")
	}
}

func TestFetch_RetriesUntilSuccess(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "finally")
	}))
	defer srv.Close()

	client := NewClient(5, 0)
	local, err := client.Fetch(context.Background(), srv.URL+"/take.mp3", t.TempDir())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}

	data, _ := os.ReadFile(local)
	if string(data) != "finally" {
		t.Errorf("downloaded content = %q, want %q", data, "finally")
	}
}

func TestFetch_GivesUpAfterMaxRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(2, 0)
	_, err := client.Fetch(context.Background(), srv.URL+"/take.mp3", t.TempDir())
	if err == nil {
		t.Fatal("Fetch() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("Fetch() error = %v, want HTTP 500 mention", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "unreachable")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(3, 0)
	_, err := client.Fetch(ctx, srv.URL+"/take.mp3", t.TempDir())
	if err == nil {
		t.Fatal("Fetch() succeeded with cancelled context, want error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}

func TestFetch_ReportsProgress(t *testing.T) {
	const body = "0123456789"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	var lastWritten, lastTotal int64
	client := NewClient(1, 0)
	client.OnProgress = func(written, total int64) {
		lastWritten, lastTotal = written, total
	}

	if _, err := client.Fetch(context.Background(), srv.URL+"/take.mp3", t.TempDir()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if lastWritten != int64(len(body)) {
		t.Errorf("last progress written = %d, want %d", lastWritten, len(body))
	}
	if lastTotal != int64(len(body)) {
		t.Errorf("last progress total = %d, want %d", lastTotal, len(body))
	}
}

func TestFileSize(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Length", "12345")
	}))
	defer srv.Close()

	client := NewClient(1, 0)
	size, err := client.FileSize(context.Background(), srv.URL+"/take.mp3")
	if err != nil {
		t.Fatalf("FileSize() error = %v", err)
	}
	if size != 12345 {
		t.Errorf("FileSize() = %d, want 12345", size)
	}
	if gotAgent != "partmate" {
		t.Errorf("User-Agent = %q, want partmate", gotAgent)
	}
}

func TestFileSize_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(1, 0)
	if _, err := client.FileSize(context.Background(), url+"/take.mp3"); err == nil {
		t.Error("FileSize() succeeded against closed server, want error")
	}
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://example.com/scores/imagine.pdf", "imagine.pdf"},
		{"https://example.com/sheets/solo%3A%20part.pdf", "solo_ part.pdf"},
		{"https://example.com/dl?file=x.pdf", "dl"},
		{"https://example.com/", "download"},
		{"https://example.com", "download"},
		{"://not-a-url", "download"},
	}

	for _, tt := range tests {
		if got := filenameFromURL(tt.rawURL); got != tt.want {
			t.Errorf("filenameFromURL(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}
}
