// Command test-hotkey is a manual test for the global hotkey listener.
// Run it, then press Ctrl+Shift+R or Ctrl+Shift+T to see events.
// Press Ctrl+C to exit.
//
// Usage:
//
//	go run ./cmd/test-hotkey
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaz8081/voicesum/internal/hotkey"
)

func main() {
	record := hotkey.Binding{Keys: []string{"ctrl", "shift", "r"}, Action: hotkey.ActionRecord}
	submit := hotkey.Binding{Keys: []string{"ctrl", "shift", "t"}, Action: hotkey.ActionTranscribe}

	fmt.Printf("Listening for %s (record) and %s (transcribe)...\n", record, submit)
	fmt.Println("Press Ctrl+C to exit.")

	listener := hotkey.NewListener(record, submit)

	// Handle Ctrl+C
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nShutting down...")
		listener.Stop()
	}()

	// Read events
	go func() {
		for ev := range listener.Events() {
			fmt.Printf(">>> %s\n", ev.Action)
		}
		fmt.Println("Event channel closed.")
	}()

	// Blocks until stopped
	listener.Start()
	fmt.Println("Done.")
}
