package holder

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/chaz8081/voicesum/internal/audio"
)

func TestHolderEmptyByDefault(t *testing.T) {
	h := New()
	if clip, ok := h.Get(); ok || clip != nil {
		t.Errorf("Get() = %v, %v; want nil, false", clip, ok)
	}
}

func TestHolderSetReplaces(t *testing.T) {
	h := New()
	first := &audio.Clip{Name: "a.wav"}
	second := &audio.Clip{Name: "b.wav"}

	h.Set(first)
	h.Set(second)

	got, ok := h.Get()
	if !ok || got != second {
		t.Errorf("Get() = %v, want the most recent clip", got)
	}

	h.Clear()
	if _, ok := h.Get(); ok {
		t.Error("Get() after Clear() should report empty")
	}
}

func TestHolderConcurrentAccess(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Set(&audio.Clip{Name: "x.wav"})
		}()
		go func() {
			defer wg.Done()
			h.Get()
		}()
	}
	wg.Wait()
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		wantType string
	}{
		{"webm", "memo.webm", "audio/webm"},
		{"wav upper case", "MEMO.WAV", "audio/wav"},
		{"mp3", "talk.mp3", "audio/mpeg"},
		{"m4a", "call.m4a", "audio/mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
				t.Fatal(err)
			}

			h := New()
			clip, err := h.LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if clip.Name != tt.file {
				t.Errorf("Name = %q, want %q", clip.Name, tt.file)
			}
			if clip.ContentType != tt.wantType {
				t.Errorf("ContentType = %q, want %q", clip.ContentType, tt.wantType)
			}
			if got, ok := h.Get(); !ok || got != clip {
				t.Error("LoadFile() did not fill the holder")
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	h := New()
	if _, err := h.LoadFile("/nonexistent/memo.webm"); err == nil {
		t.Fatal("LoadFile() should fail for a missing file")
	}
	if _, ok := h.Get(); ok {
		t.Error("failed LoadFile() must not fill the holder")
	}
}

func TestLoadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New().LoadFile(path); err == nil {
		t.Error("LoadFile() should reject an empty file")
	}
}

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/tmp/a.wav", true},
		{"/tmp/a.WEBM", true},
		{"/tmp/a.flac", true},
		{"/tmp/notes.txt", false},
		{"/tmp/noext", false},
		{"/tmp/.DS_Store", false},
	}
	for _, tt := range tests {
		if got := IsAudioFile(tt.path); got != tt.want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
