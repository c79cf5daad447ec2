package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/chaz8081/voicesum/internal/audio"
	"github.com/chaz8081/voicesum/internal/holder"
	"github.com/chaz8081/voicesum/internal/transcribe"
)

// ErrNoAudio is returned when the transcribe action runs with an empty holder.
var ErrNoAudio = errors.New("no audio selected or recorded")

// errSuperseded marks a submission cancelled by a newer one.
var errSuperseded = errors.New("submission superseded")

// Transcriber sends a clip to the transcription endpoint.
type Transcriber interface {
	Transcribe(ctx context.Context, clip *audio.Clip) (*transcribe.Result, error)
}

// Submitter implements the transcribe action. A new submission cancels
// the one in flight; only the latest may write to the view.
type Submitter struct {
	client Transcriber
	holder *holder.Holder
	view   View
	log    *slog.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelCauseFunc
}

// NewSubmitter creates a submitter.
func NewSubmitter(client Transcriber, h *holder.Holder, view View, log *slog.Logger) *Submitter {
	if log == nil {
		log = slog.Default()
	}
	return &Submitter{
		client: client,
		holder: h,
		view:   view,
		log:    log,
	}
}

// SubmitForTranscription sends the held clip and writes the result into
// the view. Errors are alerted and returned; display fields are only
// touched on success. It blocks until the response arrives.
func (s *Submitter) SubmitForTranscription(ctx context.Context) error {
	clip, ok := s.holder.Get()
	if !ok {
		s.view.Alert("Select or record an audio file first")
		return ErrNoAudio
	}

	ctx, seq := s.begin(ctx)
	defer s.end(seq)

	s.log.Info("submitting audio", "name", clip.Name, "type", clip.ContentType, "bytes", clip.Size())

	res, err := s.client.Transcribe(ctx, clip)
	if !s.current(seq) {
		s.log.Debug("discarding superseded response", "name", clip.Name)
		return errSuperseded
	}

	if err != nil {
		var se *transcribe.ServerError
		switch {
		case errors.Is(err, transcribe.ErrTooLarge):
			s.log.Warn("audio too large to submit", "name", clip.Name, "bytes", clip.Size())
			s.view.Alert("Audio file is too large to upload: " + clip.Name)
		case errors.As(err, &se):
			s.log.Error("server rejected audio", "status", se.StatusCode, "error", se.Message)
			s.view.Alert("Error: " + se.Message)
		default:
			s.log.Error("transcription request failed", "error", err)
			s.view.Alert("Connection error: " + err.Error())
		}
		return err
	}

	s.log.Info("transcription received", "transcript_chars", len(res.Transcript), "summary_chars", len(res.Summary))
	s.view.ShowResult(res.Transcript, res.Summary)
	return nil
}

// begin registers a new submission and cancels the previous one.
func (s *Submitter) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancelCause(parent)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel(errSuperseded)
	}
	s.seq++
	s.cancel = cancel
	return ctx, s.seq
}

func (s *Submitter) end(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seq && s.cancel != nil {
		s.cancel(nil)
		s.cancel = nil
	}
}

func (s *Submitter) current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq == seq
}
