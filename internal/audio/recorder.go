// Package audio captures microphone audio into sessions, synthesizes
// recordings into WAV clips and plays them back.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// ErrAlreadyRecording is returned by Start while another session is recording.
var ErrAlreadyRecording = errors.New("audio: already recording")

// DataFunc receives raw little-endian float32 frames from a capture stream.
type DataFunc func(pSample []byte, frameCount uint32)

// Stream is an open capture stream. After Close returns no further
// DataFunc calls are made.
type Stream interface {
	Close() error
}

// Source opens capture streams on an input device.
type Source interface {
	Open(sampleRate, channels uint32, onData DataFunc) (Stream, error)
}

// Recorder captures audio from a Source into one Session at a time.
type Recorder struct {
	ctx        *malgo.AllocatedContext
	source     Source
	sampleRate uint32
	channels   uint32

	mu     sync.Mutex
	active *Session
}

// NewRecorder creates a recorder on the default microphone. Call Close() when done.
func NewRecorder(sampleRate, channels uint32) (*Recorder, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}

	r := NewRecorderWithSource(&deviceSource{ctx: ctx}, sampleRate, channels)
	r.ctx = ctx
	return r, nil
}

// NewRecorderWithSource creates a recorder that captures from src.
func NewRecorderWithSource(src Source, sampleRate, channels uint32) *Recorder {
	return &Recorder{
		source:     src,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// Start opens the capture device and begins a new session.
// On failure no session is created and the recorder stays idle.
func (r *Recorder) Start() (*Session, error) {
	r.mu.Lock()
	if r.active != nil {
		r.mu.Unlock()
		return nil, ErrAlreadyRecording
	}
	s := newSession(r.sampleRate, r.channels)
	r.active = s
	r.mu.Unlock()

	stream, err := r.source.Open(r.sampleRate, r.channels, s.onData)
	if err != nil {
		s.abandon()
		r.mu.Lock()
		r.active = nil
		r.mu.Unlock()
		return nil, fmt.Errorf("opening capture device: %w", err)
	}

	s.begin(stream)
	return s, nil
}

// Stop ends the session, closes its capture stream and returns the
// recording as a WAV clip. A session with no fragments yields a valid,
// empty clip.
func (r *Recorder) Stop(s *Session) (*Clip, error) {
	if s == nil {
		return nil, fmt.Errorf("audio: stop called without a session")
	}

	r.mu.Lock()
	if r.active == s {
		r.active = nil
	}
	r.mu.Unlock()

	// Closing the stream first guarantees every fragment is appended
	// before the samples are flushed.
	samples, err := s.finish()
	if err != nil {
		return nil, err
	}

	return NewClip(samples, s.sampleRate, s.channels)
}

// IsRecording returns whether a session is currently capturing audio.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Close stops any active session and releases all audio resources.
func (r *Recorder) Close() error {
	r.mu.Lock()
	s := r.active
	r.active = nil
	r.mu.Unlock()

	if s != nil {
		_, _ = s.finish()
	}

	if r.ctx != nil {
		if err := r.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninitializing audio context: %w", err)
		}
		r.ctx.Free()
		r.ctx = nil
	}

	return nil
}

// deviceSource opens capture streams on the default input device via malgo.
type deviceSource struct {
	ctx *malgo.AllocatedContext
}

func (d *deviceSource) Open(sampleRate, channels uint32, onData DataFunc) (Stream, error) {
	deviceCfg := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceCfg.Capture.Format = malgo.FormatF32
	deviceCfg.Capture.Channels = channels
	deviceCfg.SampleRate = sampleRate

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, pSample []byte, frameCount uint32) {
			onData(pSample, frameCount)
		},
	}

	device, err := malgo.InitDevice(d.ctx.Context, deviceCfg, callbacks)
	if err != nil {
		return nil, fmt.Errorf("initializing capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("starting capture device: %w", err)
	}

	return &deviceStream{device: device}, nil
}

type deviceStream struct {
	device *malgo.Device
}

func (d *deviceStream) Close() error {
	d.device.Uninit()
	return nil
}

// bytesToFloat32 converts raw bytes (little-endian float32) to a float32 slice.
func bytesToFloat32(data []byte, sampleCount uint32) []float32 {
	samples := make([]float32, 0, sampleCount)
	for i := uint32(0); i < sampleCount; i++ {
		offset := i * 4
		if offset+4 > uint32(len(data)) {
			break
		}
		bits := binary.LittleEndian.Uint32(data[offset : offset+4])
		samples = append(samples, math.Float32frombits(bits))
	}
	return samples
}

// float32ToBytes writes samples into out as little-endian float32,
// stopping when either runs out. It returns the number of samples written.
func float32ToBytes(out []byte, samples []float32) int {
	n := 0
	for ; n < len(samples); n++ {
		offset := n * 4
		if offset+4 > len(out) {
			break
		}
		binary.LittleEndian.PutUint32(out[offset:offset+4], math.Float32bits(samples[n]))
	}
	return n
}
