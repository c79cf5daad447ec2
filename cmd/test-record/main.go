// Command test-record is a manual test for capture and playback.
// It records for a few seconds, plays the recording back and writes it
// to a WAV file.
//
// Usage:
//
//	go run ./cmd/test-record [--seconds 3] [--out recorded.wav]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chaz8081/voicesum/internal/audio"
)

func main() {
	seconds := flag.Int("seconds", 3, "recording length in seconds")
	out := flag.String("out", audio.RecordingName, "output WAV path")
	flag.Parse()

	rec, err := audio.NewRecorder(16000, 1)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer rec.Close()

	session, err := rec.Start()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for i := *seconds; i > 0; i-- {
		fmt.Printf("Recording... %d\n", i)
		time.Sleep(time.Second)
	}

	clip, err := rec.Stop(session)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Captured %s (%d bytes)\n", clip.Duration().Round(time.Millisecond), clip.Size())

	if err := os.WriteFile(*out, clip.Data, 0644); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Wrote", *out)

	player, err := audio.NewPlayer()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer player.Close()

	fmt.Println("Playing back...")
	if err := player.Play(context.Background(), clip); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("\nDone!")
}
