package session

import (
	"time"

	"github.com/ColonelBlimp/morsechat/internal/cw"
)

// timerScheduler arms real timers that post their Timeout back onto the loop.
type timerScheduler struct {
	timeouts chan<- cw.Timeout
	done     <-chan struct{}
}

type timerTask struct {
	timer *time.Timer
}

func (s timerScheduler) Schedule(delay time.Duration, t cw.Timeout) cw.Task {
	timer := time.AfterFunc(delay, func() {
		select {
		case s.timeouts <- t:
		case <-s.done:
		}
	})
	return timerTask{timer: timer}
}

// Cancel stops the timer. A timeout already in flight is dropped by the
// Decoder's generation check.
func (t timerTask) Cancel() bool {
	return t.timer.Stop()
}
