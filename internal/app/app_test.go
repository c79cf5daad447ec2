package app

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"sync"

	"github.com/chaz8081/voicesum/internal/audio"
	"github.com/chaz8081/voicesum/internal/transcribe"
)

// fakeView records everything written to it.
type fakeView struct {
	mu         sync.Mutex
	recording  bool
	label      string
	transcript string
	summary    string
	alerts     []string
	results    int
}

func newFakeView() *fakeView {
	return &fakeView{label: "record"}
}

func (v *fakeView) SetRecording(recording bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recording = recording
	if recording {
		v.label = "stop"
	} else {
		v.label = "record"
	}
}

func (v *fakeView) ShowResult(transcript, summary string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transcript = transcript
	v.summary = summary
	v.results++
}

func (v *fakeView) Alert(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, msg)
}

func (v *fakeView) snapshot() fakeView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fakeView{
		recording:  v.recording,
		label:      v.label,
		transcript: v.transcript,
		summary:    v.summary,
		alerts:     append([]string(nil), v.alerts...),
		results:    v.results,
	}
}

// fakeSource is a capture source driven by the test.
type fakeSource struct {
	mu      sync.Mutex
	openErr error
	gate    chan struct{} // when set, Open blocks until it is closed
	entered chan struct{} // signalled when Open is entered
	onData  audio.DataFunc
	opened  int
}

func (f *fakeSource) Open(_, _ uint32, onData audio.DataFunc) (audio.Stream, error) {
	f.mu.Lock()
	gate, entered := f.gate, f.entered
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	f.onData = onData
	return closeFunc(func() error {
		f.mu.Lock()
		f.onData = nil
		f.mu.Unlock()
		return nil
	}), nil
}

func (f *fakeSource) push(samples ...float32) {
	f.mu.Lock()
	onData := f.onData
	f.mu.Unlock()
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	onData(buf, uint32(len(samples)))
}

type closeFunc func() error

func (c closeFunc) Close() error { return c() }

// fakePlayer records played clips.
type fakePlayer struct {
	mu    sync.Mutex
	clips []*audio.Clip
}

func (p *fakePlayer) Play(_ context.Context, clip *audio.Clip) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clips = append(p.clips, clip)
	return nil
}

func (p *fakePlayer) played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clips)
}

// fakeTranscriber returns canned results and counts calls.
type fakeTranscriber struct {
	mu     sync.Mutex
	calls  int
	result *transcribe.Result
	err    error
	block  chan struct{} // when set, the first call waits for ctx cancellation
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, _ *audio.Clip) (*transcribe.Result, error) {
	f.mu.Lock()
	f.calls++
	first := f.calls == 1
	block := f.block
	f.mu.Unlock()

	if first && block != nil {
		close(block)
		<-ctx.Done()
		return &transcribe.Result{Transcript: "stale", Summary: "stale"}, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeTranscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var errDenied = errors.New("NotAllowedError: permission denied")
