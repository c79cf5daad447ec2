// Package hotkey provides a global hotkey listener using gohook.
// Each binding maps a key combo to a user action; every press emits
// one event for that action.
package hotkey

import (
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
)

// Action identifies the user action a hotkey triggers.
type Action int

const (
	// ActionRecord toggles microphone recording.
	ActionRecord Action = iota
	// ActionTranscribe submits the held audio for transcription.
	ActionTranscribe
)

func (a Action) String() string {
	switch a {
	case ActionRecord:
		return "record"
	case ActionTranscribe:
		return "transcribe"
	default:
		return "unknown"
	}
}

// Binding maps a key combo to an action.
type Binding struct {
	Keys   []string
	Action Action
}

// String renders the combo as e.g. "ctrl+shift+r".
func (b Binding) String() string {
	return strings.Join(b.Keys, "+")
}

// Event is emitted on the channel returned by Events.
type Event struct {
	Action Action
}

// Listener manages global hotkeys and emits action events.
type Listener struct {
	bindings []Binding
	ch       chan Event
	done     chan struct{}
	once     sync.Once
}

// NewListener creates a Listener for the given bindings.
// Keys should be lowercase key names (e.g., ["ctrl", "shift", "r"]).
func NewListener(bindings ...Binding) *Listener {
	return &Listener{
		bindings: bindings,
		ch:       make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Events returns the channel that receives hotkey events.
// The channel is closed when the listener stops.
func (l *Listener) Events() <-chan Event {
	return l.ch
}

// Start begins listening for the global hotkeys.
// This function blocks until Stop is called. Run it in a goroutine.
func (l *Listener) Start() {
	for _, b := range l.bindings {
		action := b.Action
		hook.Register(hook.KeyDown, b.Keys, func(e hook.Event) {
			l.emit(action)
		})
	}

	evChan := hook.Start()
	go func() {
		<-l.done
		hook.End()
	}()
	<-hook.Process(evChan)
	close(l.ch)
}

// emit delivers an event without blocking the hook thread.
func (l *Listener) emit(action Action) {
	select {
	case l.ch <- Event{Action: action}:
	default: // don't block if channel is full
	}
}

// Stop terminates the hotkey listener.
// It is safe to call multiple times.
func (l *Listener) Stop() {
	l.once.Do(func() {
		close(l.done)
	})
}
