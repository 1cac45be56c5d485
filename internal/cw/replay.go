package cw

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ColonelBlimp/morsechat/internal/effect"
)

// ErrInvalidScript indicates a replay script token could not be parsed
var ErrInvalidScript = errors.New("invalid replay script")

// Step is one replay action: a key press of Press length, or a silent Pause.
type Step struct {
	Press time.Duration
	Pause time.Duration
}

// ParseScript reads a whitespace separated replay script.
// Plain tokens are presses, tokens starting with "_" are pauses. Bare numbers
// are milliseconds; Go durations such as "1.5s" are also accepted.
//
//	80 _100 250 _900     A followed by a decode pause
func ParseScript(script string) ([]Step, error) {
	fields := strings.Fields(script)
	steps := make([]Step, 0, len(fields))
	for _, f := range fields {
		pause := strings.HasPrefix(f, "_")
		d, err := parseScriptDuration(strings.TrimPrefix(f, "_"))
		if err != nil {
			return nil, fmt.Errorf("%w: token %q: %v", ErrInvalidScript, f, err)
		}
		if pause {
			if d < 0 {
				return nil, fmt.Errorf("%w: token %q: negative pause", ErrInvalidScript, f)
			}
			steps = append(steps, Step{Pause: d})
		} else {
			steps = append(steps, Step{Press: d})
		}
	}
	return steps, nil
}

func parseScriptDuration(s string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

// ReplayResult is the outcome of a replay.
type ReplayResult struct {
	Transmits  []effect.Transmit
	Transcript string
	// Discarded counts pending sequences dropped by the stale timer
	Discarded int
}

// Replay runs steps through a Decoder on a virtual clock. Each press takes
// its own duration before the symbol is appended. After the last step the
// clock runs on until nothing is pending.
func Replay(cfg DecoderConfig, table *Table, steps []Step) (ReplayResult, error) {
	var (
		sched  ManualScheduler
		result ReplayResult
	)
	d, err := NewDecoder(cfg, table, &sched)
	if err != nil {
		return result, err
	}

	fire := func(by time.Duration) {
		for _, t := range sched.Advance(by) {
			before := d.Pending()
			for _, e := range d.HandleTimeout(t) {
				if tx, ok := e.(effect.Transmit); ok {
					result.Transmits = append(result.Transmits, tx)
				}
			}
			if t.Kind == StaleTimer && before != "" && d.Pending() == "" {
				result.Discarded++
			}
		}
	}

	for i, s := range steps {
		if s.Pause > 0 {
			fire(s.Pause)
			continue
		}
		fire(max(s.Press, 0))
		if _, err := d.Key(s.Press); err != nil {
			return result, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	fire(cfg.StaleTimeout)

	result.Transcript = d.Transcript()
	return result, nil
}
