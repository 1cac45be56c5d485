// internal/cw/keyer.go
package cw

import (
	"errors"
	"time"
)

// ErrKeyNotPressed indicates a release edge with no matching press
var ErrKeyNotPressed = errors.New("key released without being pressed")

// Keyer measures press durations from raw key edges.
// A second press while already down restarts the measurement.
type Keyer struct {
	pressedAt time.Time
	down      bool
}

// Press records the key going down.
func (k *Keyer) Press(at time.Time) {
	k.pressedAt = at
	k.down = true
}

// Release records the key going up and returns how long it was held.
func (k *Keyer) Release(at time.Time) (time.Duration, error) {
	if !k.down {
		return 0, ErrKeyNotPressed
	}
	k.down = false
	d := at.Sub(k.pressedAt)
	if d < 0 {
		return 0, ErrInvalidDuration
	}
	return d, nil
}

// IsDown reports whether the key is currently held.
func (k *Keyer) IsDown() bool {
	return k.down
}

// Reset forgets any press in progress.
func (k *Keyer) Reset() {
	k.pressedAt = time.Time{}
	k.down = false
}
