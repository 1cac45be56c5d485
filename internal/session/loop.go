package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ColonelBlimp/morsechat/internal/chat"
	"github.com/ColonelBlimp/morsechat/internal/cw"
	"github.com/ColonelBlimp/morsechat/internal/effect"
	"github.com/ColonelBlimp/morsechat/internal/recovery"
)

var (
	// ErrTransmitterRequired indicates a Transmitter instance is required
	ErrTransmitterRequired = errors.New("transmitter is required")
	// ErrLoopStopped indicates the loop is no longer accepting input
	ErrLoopStopped = errors.New("session loop stopped")
)

// Transmitter is the outbound side of the relay. Calls must not block.
type Transmitter interface {
	SendMorse(ctx context.Context, tx effect.Transmit) error
	SendText(ctx context.Context, text string) error
}

// CuePlayer plays audio cues, best-effort.
type CuePlayer interface {
	PlayCue(kind effect.CueKind) error
}

// View receives everything the user should see.
type View interface {
	Notice(text string)
	Message(m chat.Message)
	Keying(pending, transcript string)
}

// Config holds what a session needs to start
type Config struct {
	Username string
	Room     string
	Decoder  cw.DecoderConfig
	Table    *cw.Table
}

// Loop is the single-threaded event loop. Taps, timer firings, inbound
// events and operator commands are handled one at a time, in arrival order.
type Loop struct {
	log   *slog.Logger
	tx    Transmitter
	cues  CuePlayer
	view  View
	state *Session

	inputs   chan func(ctx context.Context)
	timeouts chan cw.Timeout
	done     chan struct{}
}

// NewLoop creates the session and its loop. cues and view may be nil.
func NewLoop(cfg Config, tx Transmitter, cues CuePlayer, view View, log *slog.Logger) (*Loop, error) {
	if tx == nil {
		return nil, ErrTransmitterRequired
	}
	if cfg.Table == nil {
		cfg.Table = cw.DefaultTable()
	}
	if view == nil {
		view = nopView{}
	}
	if log == nil {
		log = slog.Default()
	}

	l := &Loop{
		log:      log.With("component", "session"),
		tx:       tx,
		cues:     cues,
		view:     view,
		inputs:   make(chan func(ctx context.Context), 64),
		timeouts: make(chan cw.Timeout, 4),
		done:     make(chan struct{}),
	}

	decoder, err := cw.NewDecoder(cfg.Decoder, cfg.Table, timerScheduler{timeouts: l.timeouts, done: l.done})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	l.state = newSession(cfg.Username, cfg.Room, decoder)
	return l, nil
}

// Run processes input until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.state.Reset()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.inputs:
			l.safely(ctx, fn)
		case t := <-l.timeouts:
			l.safely(ctx, func(ctx context.Context) {
				l.log.Debug("timer fired", "kind", t.Kind, "generation", t.Generation, "snapshot", t.Snapshot)
				l.execute(ctx, l.state.Decoder.HandleTimeout(t))
				l.showKeying()
			})
		}
	}
}

// safely keeps a panicking handler from taking the loop down.
func (l *Loop) safely(ctx context.Context, fn func(ctx context.Context)) {
	defer recovery.Recover(l.log, func(r any) {
		l.view.Notice(fmt.Sprintf("internal error: %v", r))
	})
	fn(ctx)
}

func (l *Loop) post(ctx context.Context, fn func(ctx context.Context)) error {
	select {
	case l.inputs <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Key feeds one measured press duration.
func (l *Loop) Key(ctx context.Context, d time.Duration) error {
	return l.post(ctx, func(context.Context) {
		l.key(d)
	})
}

// KeySymbol feeds an already classified symbol.
func (l *Loop) KeySymbol(ctx context.Context, sym cw.Symbol) error {
	return l.post(ctx, func(context.Context) {
		l.state.Decoder.KeySymbol(sym)
		l.showKeying()
	})
}

// Press records the key going down at the given instant.
func (l *Loop) Press(ctx context.Context, at time.Time) error {
	return l.post(ctx, func(context.Context) {
		l.state.keyer.Press(at)
	})
}

// Release records the key going up and keys the measured duration.
func (l *Loop) Release(ctx context.Context, at time.Time) error {
	return l.post(ctx, func(context.Context) {
		d, err := l.state.keyer.Release(at)
		if err != nil {
			l.view.Notice(fmt.Sprintf("invalid input: %v", err))
			return
		}
		l.key(d)
	})
}

// Clear drops the pending sequence and the transcript.
func (l *Loop) Clear(ctx context.Context) error {
	return l.post(ctx, func(context.Context) {
		l.state.Reset()
		l.showKeying()
	})
}

// Say sends a plain text message.
func (l *Loop) Say(ctx context.Context, text string) error {
	return l.post(ctx, func(ctx context.Context) {
		if err := l.tx.SendText(ctx, text); err != nil {
			l.transportNotice(err)
		}
	})
}

// Deliver routes one inbound relay event into the log.
func (l *Loop) Deliver(ctx context.Context, ev chat.Event) error {
	return l.post(ctx, func(ctx context.Context) {
		msg, effects, err := l.state.router.Route(ev)
		if err != nil {
			l.log.Warn("dropped inbound event", "error", err)
			l.view.Notice(fmt.Sprintf("dropped inbound event: %v", err))
			return
		}
		l.view.Message(msg)
		l.execute(ctx, effects)
	})
}

// DeliverError surfaces a recoverable relay error to the user.
func (l *Loop) DeliverError(ctx context.Context, err error) error {
	return l.post(ctx, func(context.Context) {
		if errors.Is(err, chat.ErrMalformedEvent) {
			l.view.Notice(fmt.Sprintf("dropped inbound event: %v", err))
			return
		}
		l.transportNotice(err)
	})
}

// Inspect runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Inspect(ctx context.Context, fn func(s *Session)) error {
	finished := make(chan struct{})
	if err := l.post(ctx, func(context.Context) {
		defer close(finished)
		fn(l.state)
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Members returns a copy of the current room roster.
func (l *Loop) Members(ctx context.Context) ([]string, error) {
	var members []string
	err := l.Inspect(ctx, func(s *Session) {
		members = s.Roster.Members()
	})
	return members, err
}

// Forward pumps relay events and errors into the loop until ctx is done.
// Events keep their arrival order, and so do errors, but the two streams are
// not ordered against each other: a notice for a bad frame may show up
// before a good event that arrived just ahead of it.
func (l *Loop) Forward(ctx context.Context, events <-chan chat.Event, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if l.Deliver(ctx, ev) != nil {
				return
			}
		case err := <-errs:
			if l.DeliverError(ctx, err) != nil {
				return
			}
		}
	}
}

func (l *Loop) key(d time.Duration) {
	sym, err := l.state.Decoder.Key(d)
	if err != nil {
		l.view.Notice(fmt.Sprintf("invalid input: %v", err))
		return
	}
	l.log.Debug("keyed", "duration", d, "symbol", sym.String())
	l.showKeying()
}

func (l *Loop) execute(ctx context.Context, effects []effect.Effect) {
	for _, e := range effects {
		switch e := e.(type) {
		case effect.Transmit:
			if err := l.tx.SendMorse(ctx, e); err != nil {
				l.transportNotice(err)
			}
		case effect.PlayCue:
			if l.cues == nil {
				continue
			}
			if err := l.cues.PlayCue(e.Kind); err != nil {
				l.log.Debug("cue not played", "kind", e.Kind, "error", err)
			}
		}
	}
}

func (l *Loop) transportNotice(err error) {
	l.log.Warn("relay unavailable", "error", err)
	l.view.Notice(fmt.Sprintf("relay unavailable, your text is kept locally: %v", err))
}

func (l *Loop) showKeying() {
	l.view.Keying(l.state.Decoder.Pending(), l.state.Decoder.Transcript())
}

type nopView struct{}

func (nopView) Notice(string)         {}
func (nopView) Message(chat.Message)  {}
func (nopView) Keying(string, string) {}
