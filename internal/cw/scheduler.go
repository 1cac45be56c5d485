// internal/cw/scheduler.go
package cw

import (
	"sort"
	"time"
)

// TimerKind identifies which of the two decode-cycle timers fired.
type TimerKind int

const (
	// DecodeTimer attempts to turn the pending sequence into a character
	DecodeTimer TimerKind = iota
	// StaleTimer unconditionally discards the pending sequence
	StaleTimer
)

func (k TimerKind) String() string {
	switch k {
	case DecodeTimer:
		return "decode"
	case StaleTimer:
		return "stale"
	}
	return "unknown"
}

// Timeout is delivered back to the Decoder when a scheduled task fires.
// Generation and Snapshot are captured when the task is armed.
type Timeout struct {
	Kind       TimerKind
	Generation uint64
	Snapshot   string
}

// Task is a cancelable scheduled timeout.
type Task interface {
	// Cancel stops the task. It reports whether the task was still pending.
	Cancel() bool
}

// Scheduler arms timeouts. Implementations must deliver fired timeouts on the
// same logical thread that calls the Decoder.
type Scheduler interface {
	Schedule(delay time.Duration, t Timeout) Task
}

// ManualScheduler is a virtual-clock Scheduler. Nothing fires until Advance
// is called, which makes decode cycles replayable and deterministic.
type ManualScheduler struct {
	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	s       *ManualScheduler
	due     time.Duration
	seq     uint64
	timeout Timeout
	done    bool
}

// Schedule arms t to fire delay after the current virtual time.
func (s *ManualScheduler) Schedule(delay time.Duration, t Timeout) Task {
	s.seq++
	task := &manualTask{s: s, due: s.now + delay, seq: s.seq, timeout: t}
	s.tasks = append(s.tasks, task)
	return task
}

func (t *manualTask) Cancel() bool {
	if t.done {
		return false
	}
	t.done = true
	t.s.remove(t)
	return true
}

func (s *ManualScheduler) remove(target *manualTask) {
	for i, t := range s.tasks {
		if t == target {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// Advance moves virtual time forward by d and returns every timeout that
// came due, earliest first.
func (s *ManualScheduler) Advance(d time.Duration) []Timeout {
	if d > 0 {
		s.now += d
	}

	var due []*manualTask
	remaining := s.tasks[:0]
	for _, t := range s.tasks {
		if t.due <= s.now {
			t.done = true
			due = append(due, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	s.tasks = remaining

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})

	out := make([]Timeout, len(due))
	for i, t := range due {
		out[i] = t.timeout
	}
	return out
}

// Now returns the current virtual time.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Outstanding returns the number of armed, unfired, uncanceled tasks.
func (s *ManualScheduler) Outstanding() int {
	return len(s.tasks)
}
