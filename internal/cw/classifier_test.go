package cw

import (
	"errors"
	"testing"
	"time"
)

func TestNewClassifier_InvalidThreshold(t *testing.T) {
	for _, th := range []time.Duration{0, -time.Millisecond} {
		if _, err := NewClassifier(th); err != ErrInvalidThreshold {
			t.Errorf("NewClassifier(%v) error = %v, want %v", th, err, ErrInvalidThreshold)
		}
	}
}

func TestClassifier_Classify(t *testing.T) {
	c, err := NewClassifier(DefaultDotDashThreshold)
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}

	tests := []struct {
		name     string
		duration time.Duration
		want     Symbol
	}{
		{"instantaneous tap", 0, Dot},
		{"short tap", 60 * time.Millisecond, Dot},
		{"just below threshold", 199 * time.Millisecond, Dot},
		{"sub-millisecond below threshold", 200*time.Millisecond - time.Microsecond, Dot},
		{"exactly threshold", 200 * time.Millisecond, Dash},
		{"long press", 450 * time.Millisecond, Dash},
		{"very long press", 10 * time.Second, Dash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.duration)
			if err != nil {
				t.Fatalf("Classify(%v) error = %v", tt.duration, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}
}

func TestClassifier_Classify_Boundary(t *testing.T) {
	c, _ := NewClassifier(DefaultDotDashThreshold)

	for ms := 0; ms < 400; ms++ {
		d := time.Duration(ms) * time.Millisecond
		got, err := c.Classify(d)
		if err != nil {
			t.Fatalf("Classify(%v) error = %v", d, err)
		}
		want := Dash
		if ms < 200 {
			want = Dot
		}
		if got != want {
			t.Errorf("Classify(%v) = %v, want %v", d, got, want)
		}
	}
}

func TestClassifier_Classify_Negative(t *testing.T) {
	c, _ := NewClassifier(DefaultDotDashThreshold)

	_, err := c.Classify(-time.Millisecond)
	if !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("Classify(-1ms) error = %v, want %v", err, ErrInvalidDuration)
	}
}

func TestParseSymbol(t *testing.T) {
	if s, err := ParseSymbol('.'); err != nil || s != Dot {
		t.Errorf("ParseSymbol('.') = %v, %v, want Dot", s, err)
	}
	if s, err := ParseSymbol('-'); err != nil || s != Dash {
		t.Errorf("ParseSymbol('-') = %v, %v, want Dash", s, err)
	}
	if _, err := ParseSymbol('x'); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("ParseSymbol('x') error = %v, want %v", err, ErrInvalidSymbol)
	}
}

func TestSymbol_String(t *testing.T) {
	if Dot.String() != "." {
		t.Errorf("Dot.String() = %q, want %q", Dot.String(), ".")
	}
	if Dash.String() != "-" {
		t.Errorf("Dash.String() = %q, want %q", Dash.String(), "-")
	}
}
