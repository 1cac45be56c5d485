// internal/cw/decoder.go
// Package cw implements Morse keying: classifying taps into symbols, holding the
// pending sequence and deciding when it becomes a character.
package cw

import (
	"errors"
	"time"

	"github.com/ColonelBlimp/morsechat/internal/effect"
)

const (
	// DefaultDecodeTimeout is the pause after the last symbol before a decode attempt
	DefaultDecodeTimeout = 800 * time.Millisecond
	// DefaultStaleTimeout is the pause after the last symbol before the pending
	// sequence is discarded, matched or not
	DefaultStaleTimeout = 2000 * time.Millisecond
)

var (
	// ErrInvalidThreshold indicates the dot/dash threshold must be positive
	ErrInvalidThreshold = errors.New("dot/dash threshold must be positive")
	// ErrInvalidDecodeTimeout indicates the decode timeout must be positive
	ErrInvalidDecodeTimeout = errors.New("decode timeout must be positive")
	// ErrInvalidStaleTimeout indicates the stale timeout must exceed the decode timeout
	ErrInvalidStaleTimeout = errors.New("stale timeout must be greater than decode timeout")
	// ErrSchedulerRequired indicates a Scheduler instance is required
	ErrSchedulerRequired = errors.New("scheduler is required")
	// ErrTableRequired indicates a Table instance is required
	ErrTableRequired = errors.New("morse table is required")
)

// DecoderConfig holds the keying thresholds.
// All values come from the application config file.
type DecoderConfig struct {
	// DotDashThreshold separates dots from dashes (from config: dot_dash_threshold_ms)
	DotDashThreshold time.Duration
	// DecodeTimeout is the short pause that finalizes a character (from config: decode_timeout_ms)
	DecodeTimeout time.Duration
	// StaleTimeout is the long pause that discards an abandoned sequence (from config: stale_timeout_ms)
	StaleTimeout time.Duration
}

// DefaultDecoderConfig returns the standard 200/800/2000 ms timings.
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		DotDashThreshold: DefaultDotDashThreshold,
		DecodeTimeout:    DefaultDecodeTimeout,
		StaleTimeout:     DefaultStaleTimeout,
	}
}

// State is the decode cycle state.
type State int

const (
	// Idle means nothing is pending
	Idle State = iota
	// Accumulating means at least one symbol is pending and timers are armed
	Accumulating
)

func (s State) String() string {
	if s == Accumulating {
		return "ACCUMULATING"
	}
	return "IDLE"
}

// Decoder runs the decode/stale timer protocol over the pending sequence.
//
// It is not safe for concurrent use: every method, including HandleTimeout
// for fired timers, must be called from the same event loop.
type Decoder struct {
	config     DecoderConfig
	classifier Classifier
	table      *Table
	scheduler  Scheduler

	pending    Sequence
	transcript Transcript

	// generation increments whenever the pending sequence is superseded, so a
	// timeout that slipped past cancellation can detect it is stale
	generation uint64
	decodeTask Task
	staleTask  Task
}

// NewDecoder creates a decoder with the given configuration.
func NewDecoder(cfg DecoderConfig, table *Table, scheduler Scheduler) (*Decoder, error) {
	if table == nil {
		return nil, ErrTableRequired
	}
	if scheduler == nil {
		return nil, ErrSchedulerRequired
	}
	if cfg.DecodeTimeout <= 0 {
		return nil, ErrInvalidDecodeTimeout
	}
	if cfg.StaleTimeout <= cfg.DecodeTimeout {
		return nil, ErrInvalidStaleTimeout
	}
	classifier, err := NewClassifier(cfg.DotDashThreshold)
	if err != nil {
		return nil, err
	}

	return &Decoder{
		config:     cfg,
		classifier: classifier,
		table:      table,
		scheduler:  scheduler,
	}, nil
}

// Key classifies one press duration and appends the resulting symbol.
// Invalid durations are rejected and leave the state untouched.
func (d *Decoder) Key(duration time.Duration) (Symbol, error) {
	sym, err := d.classifier.Classify(duration)
	if err != nil {
		return 0, err
	}
	d.KeySymbol(sym)
	return sym, nil
}

// KeySymbol appends an already classified symbol and re-arms both timers
// against the new pending snapshot.
func (d *Decoder) KeySymbol(sym Symbol) {
	d.pending.Append(sym)
	d.cancelTimers()
	d.generation++

	snapshot := d.pending.String()
	d.decodeTask = d.scheduler.Schedule(d.config.DecodeTimeout, Timeout{
		Kind:       DecodeTimer,
		Generation: d.generation,
		Snapshot:   snapshot,
	})
	d.staleTask = d.scheduler.Schedule(d.config.StaleTimeout, Timeout{
		Kind:       StaleTimer,
		Generation: d.generation,
		Snapshot:   snapshot,
	})
}

// HandleTimeout processes a fired timer and returns the effects to perform.
// Timeouts from a superseded generation are ignored.
func (d *Decoder) HandleTimeout(t Timeout) []effect.Effect {
	if t.Generation != d.generation {
		return nil
	}

	switch t.Kind {
	case DecodeTimer:
		d.decodeTask = nil
		return d.decode(t.Snapshot)
	case StaleTimer:
		d.staleTask = nil
		d.pending.Clear()
	}
	return nil
}

// decode looks up the armed snapshot. No match leaves the pending sequence in
// place for more symbols or the stale timer.
func (d *Decoder) decode(snapshot string) []effect.Effect {
	if snapshot == "" {
		return nil
	}
	char, ok := d.table.Lookup(snapshot)
	if !ok {
		return nil
	}

	last := Symbol(snapshot[len(snapshot)-1])
	out := d.transcript.OnDecoded(char, snapshot, last)
	d.pending.Clear()
	return []effect.Effect{out}
}

// Clear discards the pending sequence and the transcript and cancels any
// armed timers.
func (d *Decoder) Clear() {
	d.cancelTimers()
	d.generation++
	d.pending.Clear()
	d.transcript.Clear()
}

func (d *Decoder) cancelTimers() {
	if d.decodeTask != nil {
		d.decodeTask.Cancel()
		d.decodeTask = nil
	}
	if d.staleTask != nil {
		d.staleTask.Cancel()
		d.staleTask = nil
	}
}

// State returns IDLE when nothing is pending, ACCUMULATING otherwise.
func (d *Decoder) State() State {
	if d.pending.Empty() {
		return Idle
	}
	return Accumulating
}

// Pending returns the pending code sequence.
func (d *Decoder) Pending() string {
	return d.pending.String()
}

// Transcript returns the decoded text so far.
func (d *Decoder) Transcript() string {
	return d.transcript.String()
}

// Generation returns the current pending-sequence generation.
func (d *Decoder) Generation() uint64 {
	return d.generation
}

// Config returns the current configuration.
func (d *Decoder) Config() DecoderConfig {
	return d.config
}
