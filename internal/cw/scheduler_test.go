package cw

import (
	"testing"
	"time"
)

func TestManualScheduler_AdvanceFiresInDueOrder(t *testing.T) {
	s := &ManualScheduler{}

	s.Schedule(2*time.Second, Timeout{Kind: StaleTimer, Generation: 1})
	s.Schedule(800*time.Millisecond, Timeout{Kind: DecodeTimer, Generation: 1})

	if got := s.Advance(500 * time.Millisecond); len(got) != 0 {
		t.Fatalf("Advance(500ms) fired %d, want 0", len(got))
	}

	got := s.Advance(3 * time.Second)
	if len(got) != 2 {
		t.Fatalf("Advance(3s) fired %d, want 2", len(got))
	}
	if got[0].Kind != DecodeTimer || got[1].Kind != StaleTimer {
		t.Errorf("fire order = %v, %v, want decode, stale", got[0].Kind, got[1].Kind)
	}
	if s.Now() != 3500*time.Millisecond {
		t.Errorf("Now() = %v, want 3.5s", s.Now())
	}
}

func TestManualScheduler_Cancel(t *testing.T) {
	s := &ManualScheduler{}

	task := s.Schedule(time.Second, Timeout{})
	if s.Outstanding() != 1 {
		t.Fatalf("Outstanding() = %d, want 1", s.Outstanding())
	}
	if !task.Cancel() {
		t.Error("Cancel() = false for pending task, want true")
	}
	if task.Cancel() {
		t.Error("second Cancel() = true, want false")
	}
	if got := s.Advance(2 * time.Second); len(got) != 0 {
		t.Errorf("canceled task fired: %v", got)
	}
}

func TestManualScheduler_CancelAfterFire(t *testing.T) {
	s := &ManualScheduler{}

	task := s.Schedule(time.Millisecond, Timeout{})
	s.Advance(time.Millisecond)

	if task.Cancel() {
		t.Error("Cancel() after fire = true, want false")
	}
}

func TestTimerKind_String(t *testing.T) {
	tests := []struct {
		kind TimerKind
		want string
	}{
		{DecodeTimer, "decode"},
		{StaleTimer, "stale"},
		{TimerKind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("TimerKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
