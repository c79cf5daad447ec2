// Package ui renders the record affordance, the recording indicator,
// the transcript and summary fields and alerts on a terminal.
package ui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Record affordance labels.
const (
	LabelRecord = "● Record"
	LabelStop   = "■ Stop"
)

// Sink receives a copy of each result, e.g. to type it into the active app.
type Sink interface {
	Inject(text string) error
}

// Terminal is a View that writes to a terminal. Safe for concurrent use.
type Terminal struct {
	out    io.Writer
	errOut io.Writer
	log    *slog.Logger

	sink       Sink
	sinkTarget string // "transcript" or "summary"

	mu         sync.Mutex
	recording  bool
	transcript string
	summary    string
}

// NewTerminal creates a terminal view writing results to out and alerts to errOut.
func NewTerminal(out, errOut io.Writer, log *slog.Logger) *Terminal {
	if log == nil {
		log = slog.Default()
	}
	return &Terminal{out: out, errOut: errOut, log: log}
}

// WithSink mirrors the chosen result field into sink after every result.
func (t *Terminal) WithSink(sink Sink, target string) *Terminal {
	t.sink = sink
	t.sinkTarget = target
	return t
}

// SetRecording switches the label and shows or hides the indicator.
func (t *Terminal) SetRecording(recording bool) {
	t.mu.Lock()
	t.recording = recording
	t.mu.Unlock()

	if recording {
		fmt.Fprintf(t.out, "[%s]  ● REC\n", LabelStop)
	} else {
		fmt.Fprintf(t.out, "[%s]\n", LabelRecord)
	}
}

// Label returns the current record affordance text.
func (t *Terminal) Label() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.recording {
		return LabelStop
	}
	return LabelRecord
}

// IndicatorVisible reports whether the recording indicator is shown.
func (t *Terminal) IndicatorVisible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recording
}

// ShowResult replaces both display fields and prints them.
func (t *Terminal) ShowResult(transcript, summary string) {
	t.mu.Lock()
	t.transcript = transcript
	t.summary = summary
	t.mu.Unlock()

	var b strings.Builder
	b.WriteString("── Transcript ──\n")
	b.WriteString(transcript)
	b.WriteString("\n── Summary ──\n")
	b.WriteString(summary)
	b.WriteString("\n")
	io.WriteString(t.out, b.String())

	if t.sink == nil {
		return
	}
	text := transcript
	if t.sinkTarget == "summary" {
		text = summary
	}
	if err := t.sink.Inject(text); err != nil {
		t.log.Error("result output failed", "error", err)
	}
}

// Fields returns the current transcript and summary.
func (t *Terminal) Fields() (transcript, summary string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transcript, t.summary
}

// Alert prints a message on the error stream.
func (t *Terminal) Alert(msg string) {
	fmt.Fprintf(t.errOut, "!! %s\n", msg)
}
