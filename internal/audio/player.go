package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

// Player plays synthesized recordings on the default output device.
type Player struct {
	ctx *malgo.AllocatedContext
}

// NewPlayer creates a player. Call Close() when done.
func NewPlayer() (*Player, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}
	return &Player{ctx: ctx}, nil
}

// Play blocks until the clip has been played or ctx is cancelled.
// Clips without samples are a no-op.
func (p *Player) Play(ctx context.Context, clip *Clip) error {
	if clip == nil || !clip.Playable() {
		return nil
	}

	deviceCfg := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceCfg.Playback.Format = malgo.FormatF32
	deviceCfg.Playback.Channels = clip.Channels
	deviceCfg.SampleRate = clip.SampleRate

	feed := newSampleFeed(clip.Samples)
	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutput, _ []byte, frameCount uint32) {
			feed.fill(pOutput[:min(len(pOutput), int(frameCount*clip.Channels)*4)])
		},
	}

	device, err := malgo.InitDevice(p.ctx.Context, deviceCfg, callbacks)
	if err != nil {
		return fmt.Errorf("initializing playback device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("starting playback device: %w", err)
	}

	select {
	case <-feed.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the audio context.
func (p *Player) Close() error {
	if p.ctx == nil {
		return nil
	}
	if err := p.ctx.Uninit(); err != nil {
		return fmt.Errorf("uninitializing audio context: %w", err)
	}
	p.ctx.Free()
	p.ctx = nil
	return nil
}

// sampleFeed hands out samples to the playback callback. Space past the
// end is zeroed. done closes on the first period that is entirely silence,
// so the device has consumed the last real period before it is torn down.
type sampleFeed struct {
	samples []float32
	pos     int
	done    chan struct{}
	once    sync.Once
}

func newSampleFeed(samples []float32) *sampleFeed {
	return &sampleFeed{samples: samples, done: make(chan struct{})}
}

func (f *sampleFeed) fill(out []byte) {
	if f.pos >= len(f.samples) {
		clear(out)
		f.once.Do(func() { close(f.done) })
		return
	}
	n := float32ToBytes(out, f.samples[f.pos:])
	f.pos += n
	clear(out[n*4:])
}
