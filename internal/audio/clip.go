package audio

import (
	"fmt"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// RecordingName is the file name given to synthesized recordings.
	RecordingName = "recorded.wav"
	// RecordingType is the MIME type of synthesized recordings.
	RecordingType = "audio/wav"

	bitDepth = 16
	// WAV format tag for integer PCM.
	formatPCM = 1
)

// Clip is a finished, named and typed audio file: either a synthesized
// recording or a file chosen by the user.
type Clip struct {
	Name        string
	ContentType string
	Data        []byte

	// Set for synthesized recordings only, for playback.
	Samples    []float32
	SampleRate uint32
	Channels   uint32
}

// NewClip encodes float32 samples as a 16-bit PCM WAV recording.
// An empty sample slice produces a valid WAV with no frames.
func NewClip(samples []float32, sampleRate, channels uint32) (*Clip, error) {
	data, err := EncodeWAV(samples, sampleRate, channels)
	if err != nil {
		return nil, err
	}
	return &Clip{
		Name:        RecordingName,
		ContentType: RecordingType,
		Data:        data,
		Samples:     samples,
		SampleRate:  sampleRate,
		Channels:    channels,
	}, nil
}

// Size returns the encoded size in bytes.
func (c *Clip) Size() int64 {
	return int64(len(c.Data))
}

// Duration returns the length of a synthesized recording, or 0 when
// the clip carries no samples.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	frames := len(c.Samples) / int(c.Channels)
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// Playable reports whether the clip carries samples that can be played back.
func (c *Clip) Playable() bool {
	return len(c.Samples) > 0 && c.SampleRate > 0 && c.Channels > 0
}

// EncodeWAV encodes float32 samples in [-1, 1] as 16-bit PCM WAV bytes.
func EncodeWAV(samples []float32, sampleRate, channels uint32) ([]byte, error) {
	// wav.Encoder needs an io.WriteSeeker to patch chunk sizes.
	f, err := os.CreateTemp("", "voicesum-*.wav")
	if err != nil {
		return nil, fmt.Errorf("audio: creating temp file: %w", err)
	}
	defer os.Remove(f.Name())

	enc := wav.NewEncoder(f, int(sampleRate), bitDepth, int(channels), formatPCM)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: int(channels),
			SampleRate:  int(sampleRate),
		},
		Data:           float32ToPCM16(samples),
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: finalizing wav: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("audio: closing temp file: %w", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		return nil, fmt.Errorf("audio: reading encoded wav: %w", err)
	}
	return data, nil
}

// float32ToPCM16 clamps and scales float samples to signed 16-bit values.
func float32ToPCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		out[i] = int(math.Round(v * 32767))
	}
	return out
}
