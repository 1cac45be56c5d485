// internal/cw/classifier.go
package cw

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDotDashThreshold is the press duration at which a tap becomes a dash.
// Anything strictly shorter is a dot.
const DefaultDotDashThreshold = 200 * time.Millisecond

var (
	// ErrInvalidDuration indicates a press duration that cannot be classified
	ErrInvalidDuration = errors.New("press duration must be non-negative")
	// ErrInvalidSymbol indicates a rune that is neither '.' nor '-'
	ErrInvalidSymbol = errors.New("symbol must be '.' or '-'")
)

// Symbol is one atomic Morse element.
type Symbol byte

const (
	Dot  Symbol = '.'
	Dash Symbol = '-'
)

// String returns the wire form of the symbol ("." or "-").
func (s Symbol) String() string {
	return string(rune(s))
}

// ParseSymbol converts '.' or '-' into a Symbol.
func ParseSymbol(r rune) (Symbol, error) {
	switch r {
	case '.':
		return Dot, nil
	case '-':
		return Dash, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, r)
}

// Classifier turns a press duration into a dot or dash.
type Classifier struct {
	threshold time.Duration
}

// NewClassifier creates a classifier with the given dot/dash threshold.
func NewClassifier(threshold time.Duration) (Classifier, error) {
	if threshold <= 0 {
		return Classifier{}, ErrInvalidThreshold
	}
	return Classifier{threshold: threshold}, nil
}

// Threshold returns the dot/dash decision boundary.
func (c Classifier) Threshold() time.Duration {
	return c.threshold
}

// Classify returns Dot when d is strictly below the threshold, Dash otherwise.
// A zero-length tap is a dot. Negative durations are rejected.
func (c Classifier) Classify(d time.Duration) (Symbol, error) {
	if d < 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidDuration, d)
	}
	if d < c.threshold {
		return Dot, nil
	}
	return Dash, nil
}
