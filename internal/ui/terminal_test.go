package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type recordingSink struct {
	texts []string
	err   error
}

func (s *recordingSink) Inject(text string) error {
	s.texts = append(s.texts, text)
	return s.err
}

func TestTerminalRecordingState(t *testing.T) {
	var out, errOut bytes.Buffer
	term := NewTerminal(&out, &errOut, nil)

	if term.Label() != LabelRecord || term.IndicatorVisible() {
		t.Errorf("initial state = %q/%v, want %q/false", term.Label(), term.IndicatorVisible(), LabelRecord)
	}

	term.SetRecording(true)
	if term.Label() != LabelStop || !term.IndicatorVisible() {
		t.Errorf("recording state = %q/%v", term.Label(), term.IndicatorVisible())
	}
	if !strings.Contains(out.String(), "REC") {
		t.Errorf("output = %q, want a recording indicator", out.String())
	}

	term.SetRecording(false)
	if term.Label() != LabelRecord || term.IndicatorVisible() {
		t.Errorf("stopped state = %q/%v", term.Label(), term.IndicatorVisible())
	}
}

func TestTerminalShowResultOverwrites(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, &bytes.Buffer{}, nil)

	term.ShowResult("first", "one")
	term.ShowResult("T", "S")

	transcript, summary := term.Fields()
	if transcript != "T" || summary != "S" {
		t.Errorf("Fields() = %q/%q, want T/S", transcript, summary)
	}
	if !strings.Contains(out.String(), "── Summary ──\nS\n") {
		t.Errorf("output = %q, want rendered summary", out.String())
	}
}

func TestTerminalAlert(t *testing.T) {
	var out, errOut bytes.Buffer
	term := NewTerminal(&out, &errOut, nil)

	term.Alert("Error: bad audio")
	if got := errOut.String(); got != "!! Error: bad audio\n" {
		t.Errorf("alert output = %q", got)
	}
	if out.Len() != 0 {
		t.Errorf("alert leaked to stdout: %q", out.String())
	}
}

func TestTerminalSink(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"transcript", "T"},
		{"summary", "S"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			sink := &recordingSink{}
			term := NewTerminal(&bytes.Buffer{}, &bytes.Buffer{}, nil).WithSink(sink, tt.target)
			term.ShowResult("T", "S")
			if len(sink.texts) != 1 || sink.texts[0] != tt.want {
				t.Errorf("sink got %v, want [%s]", sink.texts, tt.want)
			}
		})
	}
}

func TestTerminalSinkErrorKeepsFields(t *testing.T) {
	sink := &recordingSink{err: errors.New("clipboard unavailable")}
	term := NewTerminal(&bytes.Buffer{}, &bytes.Buffer{}, nil).WithSink(sink, "transcript")
	term.ShowResult("T", "S")

	transcript, summary := term.Fields()
	if transcript != "T" || summary != "S" {
		t.Errorf("Fields() = %q/%q, want T/S", transcript, summary)
	}
}
