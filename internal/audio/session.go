package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a capture session.
type Status int

const (
	StatusInactive Status = iota
	StatusRecording
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusRecording:
		return "recording"
	case StatusStopped:
		return "stopped"
	default:
		return "inactive"
	}
}

// Session tracks one microphone recording from start to stop.
// Fragments are appended in arrival order by the capture callback.
type Session struct {
	ID        string
	StartedAt time.Time

	sampleRate uint32
	channels   uint32

	mu        sync.Mutex
	stream    Stream
	status    Status
	stopping  bool
	fragments [][]float32
}

func newSession(sampleRate, channels uint32) *Session {
	return &Session{
		ID:         uuid.NewString(),
		StartedAt:  time.Now(),
		sampleRate: sampleRate,
		channels:   channels,
		status:     StatusRecording,
	}
}

// Status returns the current session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Fragments returns the number of fragments received so far.
func (s *Session) Fragments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fragments)
}

// begin attaches the open capture stream.
func (s *Session) begin(stream Stream) {
	s.mu.Lock()
	s.stream = stream
	s.mu.Unlock()
}

// abandon marks a session whose device never opened.
func (s *Session) abandon() {
	s.mu.Lock()
	s.status = StatusInactive
	s.fragments = nil
	s.mu.Unlock()
}

// onData is the capture callback. Frames arriving after the session
// stopped are dropped.
func (s *Session) onData(pSample []byte, frameCount uint32) {
	samples := bytesToFloat32(pSample, frameCount*s.channels)

	s.mu.Lock()
	if s.status == StatusRecording {
		s.fragments = append(s.fragments, samples)
	}
	s.mu.Unlock()
}

// finish closes the capture stream, marks the session stopped and
// returns all fragments concatenated in arrival order.
func (s *Session) finish() ([]float32, error) {
	s.mu.Lock()
	if s.status != StatusRecording || s.stopping {
		s.mu.Unlock()
		return nil, fmt.Errorf("audio: session %s is not recording", s.ID)
	}
	s.stopping = true
	stream := s.stream
	s.stream = nil
	s.mu.Unlock()

	// The capture callback takes s.mu, so the stream must be closed
	// without holding it.
	var closeErr error
	if stream != nil {
		closeErr = stream.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusStopped

	total := 0
	for _, f := range s.fragments {
		total += len(f)
	}
	samples := make([]float32, 0, total)
	for _, f := range s.fragments {
		samples = append(samples, f...)
	}
	s.fragments = nil

	if closeErr != nil {
		return samples, fmt.Errorf("closing capture device: %w", closeErr)
	}
	return samples, nil
}
