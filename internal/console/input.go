package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/ColonelBlimp/morsechat/internal/cw"
)

// Controller is the session the console drives.
type Controller interface {
	Key(ctx context.Context, d time.Duration) error
	KeySymbol(ctx context.Context, sym cw.Symbol) error
	Press(ctx context.Context, at time.Time) error
	Release(ctx context.Context, at time.Time) error
	Clear(ctx context.Context) error
	Say(ctx context.Context, text string) error
	Members(ctx context.Context) ([]string, error)
}

// LineReader yields operator input lines. io.EOF ends the input.
type LineReader interface {
	ReadLine() (string, error)
}

type scanReader struct {
	scanner *bufio.Scanner
}

// ScanLines reads lines from r.
func ScanLines(r io.Reader) LineReader {
	return scanReader{scanner: bufio.NewScanner(r)}
}

func (s scanReader) ReadLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Input reads operator lines and forwards them to a Controller.
type Input struct {
	ctrl Controller
	view *Renderer
	room string
	now  func() time.Time
}

// NewInput creates an input pump for room.
func NewInput(ctrl Controller, view *Renderer, room string) *Input {
	return &Input{ctrl: ctrl, view: view, room: room, now: time.Now}
}

// Run reads lines from r until EOF, /quit or ctx is canceled.
func (in *Input) Run(ctx context.Context, r LineReader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		for {
			line, err := r.ReadLine()
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				readErr <- err
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			quit, err := in.Handle(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

// Handle executes one line. Parse errors become notices; only a stopped
// session is returned as an error.
func (in *Input) Handle(ctx context.Context, line string) (quit bool, err error) {
	cmd, err := ParseLine(line)
	if err != nil {
		in.view.Notice(err.Error())
		return false, nil
	}

	switch c := cmd.(type) {
	case nil:
	case KeyDuration:
		err = in.ctrl.Key(ctx, c.Duration)
	case KeySymbols:
		for _, sym := range c.Symbols {
			if err = in.ctrl.KeySymbol(ctx, sym); err != nil {
				break
			}
		}
	case KeyDown:
		err = in.ctrl.Press(ctx, in.now())
	case KeyUp:
		err = in.ctrl.Release(ctx, in.now())
	case Clear:
		err = in.ctrl.Clear(ctx)
	case Say:
		err = in.ctrl.Say(ctx, c.Text)
	case Who:
		var members []string
		if members, err = in.ctrl.Members(ctx); err == nil {
			in.view.Roster(in.room, members)
		}
	case Help:
		in.view.Help()
	case Quit:
		return true, nil
	}

	if errors.Is(err, context.Canceled) {
		return true, nil
	}
	return false, err
}
