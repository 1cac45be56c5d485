// internal/audio/player.go
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/ColonelBlimp/morsechat/internal/effect"
)

var (
	ErrNotInitialized = errors.New("audio playback not initialized")
	ErrAlreadyRunning = errors.New("audio playback already running")
	ErrNotRunning     = errors.New("audio playback not running")
	ErrUnknownCue     = errors.New("unknown cue kind")
)

// rampDuration is the fade applied at each end of a cue to avoid clicks
const rampDuration = 5 * time.Millisecond

// maxQueued bounds how much audio can back up when cues arrive faster than
// they play
const maxQueued = 2 * time.Second

// Config holds cue playback configuration
type Config struct {
	DeviceIndex int           // -1 for default device
	SampleRate  uint32        // e.g., 48000
	Frequency   float64       // sidetone pitch in Hz
	Volume      float64       // 0.0-1.0
	ShortCue    time.Duration // played for a received dot
	LongCue     time.Duration // played for a received dash
}

// DefaultConfig returns a 600 Hz sidetone with 1:3 cue lengths
func DefaultConfig() Config {
	return Config{
		DeviceIndex: -1,
		SampleRate:  48000,
		Frequency:   600,
		Volume:      0.5,
		ShortCue:    80 * time.Millisecond,
		LongCue:     240 * time.Millisecond,
	}
}

// playbackDevice is the part of *malgo.Device the player drives.
type playbackDevice interface {
	Stop() error
	Uninit()
}

// Player renders short and long sidetone cues on the default playback device.
// PlayCue only queues samples; the device callback drains the queue.
type Player struct {
	config  Config
	ctx     *malgo.AllocatedContext
	device  playbackDevice
	running bool
	mu      sync.Mutex

	queue     []float32
	shortTone []float32
	longTone  []float32
}

// New creates a new player and pre-renders both cues
func New(cfg Config) *Player {
	return &Player{
		config:    cfg,
		shortTone: Tone(cfg.Frequency, cfg.SampleRate, cfg.ShortCue, cfg.Volume),
		longTone:  Tone(cfg.Frequency, cfg.SampleRate, cfg.LongCue, cfg.Volume),
	}
}

// Init initializes the audio backend
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	p.ctx = ctx
	return nil
}

// Start opens the playback device
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	if p.ctx == nil {
		return ErrNotInitialized
	}

	deviceConfig := malgo.DeviceConfig{
		DeviceType: malgo.Playback,
		SampleRate: p.config.SampleRate,
		Playback: malgo.SubConfig{
			Format:   malgo.FormatF32,
			Channels: 1,
		},
	}

	if p.config.DeviceIndex >= 0 {
		infos, err := p.ctx.Devices(malgo.Playback)
		if err != nil {
			return fmt.Errorf("enumerate devices: %w", err)
		}
		if p.config.DeviceIndex >= len(infos) {
			return fmt.Errorf("device index %d out of range (have %d devices)",
				p.config.DeviceIndex, len(infos))
		}
		deviceConfig.Playback.DeviceID = infos[p.config.DeviceIndex].ID.Pointer()
	}

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: func(outputSamples, _ []byte, frameCount uint32) {
			p.fill(outputSamples)
		},
	})
	if err != nil {
		return fmt.Errorf("init device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start device: %w", err)
	}

	p.device = device
	p.running = true
	return nil
}

// PlayCue queues the cue for kind. Cues play back to back.
func (p *Player) PlayCue(kind effect.CueKind) error {
	var tone []float32
	switch kind {
	case effect.CueShort:
		tone = p.shortTone
	case effect.CueLong:
		tone = p.longTone
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCue, kind)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrNotRunning
	}
	limit := int(math.Round(maxQueued.Seconds() * float64(p.config.SampleRate)))
	if len(p.queue)+len(tone) > limit {
		// Drop rather than fall behind the conversation
		return nil
	}
	p.queue = append(p.queue, tone...)
	return nil
}

// fill copies queued samples into out as little-endian float32 and pads
// with silence
func (p *Player) fill(out []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frames := len(out) / 4
	n := min(frames, len(p.queue))
	float32ToBytes(out[:n*4], p.queue[:n])
	clear(out[n*4:])
	p.queue = p.queue[n:]
}

// Stop closes the playback device
func (p *Player) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrNotRunning
	}
	device := p.device
	p.device = nil
	p.queue = nil
	p.running = false
	p.mu.Unlock()

	// Stopping waits for the data callback to return, and the callback
	// takes p.mu, so the device is stopped outside the lock.
	if device != nil {
		_ = device.Stop()
		device.Uninit()
	}
	return nil
}

// Close releases all audio resources
func (p *Player) Close() error {
	if err := p.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil {
		if err := p.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninit context: %w", err)
		}
		p.ctx.Free()
		p.ctx = nil
	}
	return nil
}

// IsRunning returns true if the device is open
func (p *Player) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Tone renders a sine burst with raised-cosine edges.
func Tone(freq float64, sampleRate uint32, d time.Duration, volume float64) []float32 {
	if sampleRate == 0 || d <= 0 {
		return nil
	}
	n := int(math.Round(d.Seconds() * float64(sampleRate)))
	ramp := int(math.Round(rampDuration.Seconds() * float64(sampleRate)))
	if ramp*2 > n {
		ramp = n / 2
	}

	samples := make([]float32, n)
	step := 2 * math.Pi * freq / float64(sampleRate)
	for i := range samples {
		gain := volume
		switch {
		case i < ramp:
			gain *= 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(ramp)))
		case i >= n-ramp:
			gain *= 0.5 * (1 - math.Cos(math.Pi*float64(n-1-i)/float64(ramp)))
		}
		samples[i] = float32(gain * math.Sin(step*float64(i)))
	}
	return samples
}

// float32ToBytes writes samples into dst as little-endian IEEE 754
func float32ToBytes(dst []byte, samples []float32) {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(s))
	}
}
