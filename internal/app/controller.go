// Package app wires the two user actions: toggling a recording and
// submitting the held audio for transcription.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chaz8081/voicesum/internal/audio"
	"github.com/chaz8081/voicesum/internal/holder"
)

// View is the user-facing surface both actions write to.
type View interface {
	// SetRecording switches the record affordance and the recording indicator.
	SetRecording(recording bool)
	// ShowResult replaces the transcript and summary display fields.
	ShowResult(transcript, summary string)
	// Alert shows a message to the user.
	Alert(msg string)
}

// Recorder starts and stops capture sessions.
type Recorder interface {
	Start() (*audio.Session, error)
	Stop(s *audio.Session) (*audio.Clip, error)
}

// Player plays back a finished recording.
type Player interface {
	Play(ctx context.Context, clip *audio.Clip) error
}

// RecordController implements the record toggle.
type RecordController struct {
	rec      Recorder
	player   Player // nil disables autoplay
	holder   *holder.Holder
	view     View
	log      *slog.Logger
	bg       sync.WaitGroup // pending starts and autoplay

	mu       sync.Mutex
	session  *audio.Session
	starting bool
}

// NewRecordController creates a controller. player may be nil.
func NewRecordController(rec Recorder, player Player, h *holder.Holder, view View, log *slog.Logger) *RecordController {
	if log == nil {
		log = slog.Default()
	}
	return &RecordController{
		rec:    rec,
		player: player,
		holder: h,
		view:   view,
		log:    log,
	}
}

// Recording reports whether a session is currently capturing.
func (c *RecordController) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// ToggleRecording starts a recording when idle and stops it when
// recording. A toggle that arrives while the microphone is still being
// opened is ignored. It blocks until the microphone is open.
func (c *RecordController) ToggleRecording(ctx context.Context) error {
	s, ok := c.claim()
	if !ok {
		return nil
	}
	if s != nil {
		return c.stop(ctx, s)
	}
	return c.start()
}

// Press is ToggleRecording for a sequential event loop. Opening the
// microphone runs in the background so presses queued behind it are seen
// while the start is pending, and dropped.
func (c *RecordController) Press(ctx context.Context) {
	s, ok := c.claim()
	if !ok {
		return
	}
	if s != nil {
		_ = c.stop(ctx, s)
		return
	}
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		_ = c.start()
	}()
}

// claim decides what a toggle does. It returns the session to stop, or
// nil with ok set when a start has been claimed; ok is false while a
// start is already pending.
func (c *RecordController) claim() (*audio.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.starting {
		c.log.Debug("toggle ignored, microphone still opening")
		return nil, false
	}
	if s := c.session; s != nil {
		c.session = nil
		return s, true
	}
	c.starting = true
	return nil, true
}

func (c *RecordController) start() error {
	s, err := c.rec.Start()

	c.mu.Lock()
	c.starting = false
	if err == nil {
		c.session = s
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Error("microphone access failed", "error", err)
		c.view.Alert("Microphone access failed: " + err.Error())
		return err
	}

	c.log.Info("recording started", "session", s.ID)
	c.view.SetRecording(true)
	return nil
}

func (c *RecordController) stop(ctx context.Context, s *audio.Session) error {
	c.view.SetRecording(false)

	clip, err := c.rec.Stop(s)
	if err != nil {
		c.log.Error("stopping recording failed", "session", s.ID, "error", err)
		c.view.Alert("Recording failed: " + err.Error())
		return err
	}

	c.holder.Set(clip)
	c.log.Info("recording stopped",
		"session", s.ID,
		"duration", clip.Duration().Round(100*time.Millisecond),
		"bytes", clip.Size(),
	)

	if c.player != nil && clip.Playable() {
		c.bg.Add(1)
		go func() {
			defer c.bg.Done()
			if err := c.player.Play(ctx, clip); err != nil && ctx.Err() == nil {
				c.log.Warn("playback failed", "error", err)
			}
		}()
	}
	return nil
}

// Wait blocks until pending starts and any autoplay have finished.
func (c *RecordController) Wait() {
	c.bg.Wait()
}
