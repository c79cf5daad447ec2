package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDispatchesAudioFiles(t *testing.T) {
	dir := t.TempDir()
	got := make(chan string, 4)

	w, err := New(dir, func(_ context.Context, path string) error {
		got <- path
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()
	w.Settle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "memo.webm")
	if err := os.WriteFile(want, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-got:
		if path != want {
			t.Errorf("handler got %q, want %q", path, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called for the audio file")
	}

	select {
	case path := <-got:
		t.Errorf("unexpected extra dispatch: %q", path)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	w, err := New(t.TempDir(), func(context.Context, string) error { return nil }, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New("/nonexistent/drop", nil, nil); err == nil {
		t.Error("New() should fail for a missing directory")
	}
}
