// Package holder provides the file-selection slot that the transcribe
// action reads from. It is filled either by a finished recording or by
// a file the user chose.
package holder

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chaz8081/voicesum/internal/audio"
)

// audioExts lists the extensions accepted as audio files.
var audioExts = map[string]string{
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".flac": "audio/flac",
	".aac":  "audio/aac",
}

// Holder holds at most one clip. Safe for concurrent use.
type Holder struct {
	mu   sync.Mutex
	clip *audio.Clip
}

// New returns an empty holder.
func New() *Holder {
	return &Holder{}
}

// Set replaces the held clip.
func (h *Holder) Set(clip *audio.Clip) {
	h.mu.Lock()
	h.clip = clip
	h.mu.Unlock()
}

// Get returns the held clip, if any.
func (h *Holder) Get() (*audio.Clip, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clip, h.clip != nil
}

// Clear empties the holder.
func (h *Holder) Clear() {
	h.Set(nil)
}

// LoadFile reads the file at path into the holder.
func (h *Holder) LoadFile(path string) (*audio.Clip, error) {
	clip, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	h.Set(clip)
	return clip, nil
}

// ReadFile loads a user-chosen audio file as a clip. The MIME type comes
// from the extension, falling back to content sniffing.
func ReadFile(path string) (*audio.Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("holder: reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("holder: %s is empty", path)
	}
	return &audio.Clip{
		Name:        filepath.Base(path),
		ContentType: contentType(path, data),
		Data:        data,
	}, nil
}

// IsAudioFile reports whether path has a known audio extension.
func IsAudioFile(path string) bool {
	_, ok := audioExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

func contentType(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioExts[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
