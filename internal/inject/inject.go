// Package inject mirrors transcription results into the active
// application using robotgo keystroke simulation or the clipboard.
package inject

import (
	"fmt"
	"runtime"

	"github.com/go-vgo/robotgo"
)

// Injector types, pastes or copies text for the user.
type Injector struct {
	method string // "type", "paste" or "clipboard"
}

// NewInjector creates an Injector with the given method.
func NewInjector(method string) (*Injector, error) {
	switch method {
	case "type", "paste", "clipboard":
	default:
		return nil, fmt.Errorf("inject: unknown method %q (supported: type, paste, clipboard)", method)
	}
	return &Injector{method: method}, nil
}

// Method returns the configured method.
func (inj *Injector) Method() string {
	return inj.method
}

// Inject delivers text using the configured method. Empty text is a no-op.
func (inj *Injector) Inject(text string) error {
	if text == "" {
		return nil
	}

	switch inj.method {
	case "paste":
		return inj.paste(text)
	case "clipboard":
		return inj.copy(text)
	default: // "type"
		return inj.typeText(text)
	}
}

// typeText simulates individual keystrokes. Preserves clipboard contents
// but is slow for a long transcript.
func (inj *Injector) typeText(text string) error {
	robotgo.TypeStr(text)
	return nil
}

// copy leaves text on the clipboard for the user to paste.
func (inj *Injector) copy(text string) error {
	if err := robotgo.WriteAll(text); err != nil {
		return fmt.Errorf("inject: write to clipboard: %w", err)
	}
	return nil
}

// paste copies text to the clipboard, pastes it and restores the
// previous clipboard.
func (inj *Injector) paste(text string) error {
	prev, _ := robotgo.ReadAll()

	if err := robotgo.WriteAll(text); err != nil {
		return fmt.Errorf("inject: write to clipboard: %w", err)
	}

	if err := robotgo.KeyTap("v", pasteModifier()); err != nil {
		return fmt.Errorf("inject: key tap paste: %w", err)
	}

	// best effort
	_ = robotgo.WriteAll(prev)

	return nil
}

func pasteModifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}
