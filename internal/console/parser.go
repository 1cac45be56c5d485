// Package console is the terminal front end: it parses operator input lines
// and renders the room log, notices and keying state.
package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ColonelBlimp/morsechat/internal/cw"
)

var (
	// ErrInvalidInput indicates a keying line that is not a duration or symbols
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownCommand indicates a slash command that does not exist
	ErrUnknownCommand = errors.New("unknown command")
)

// Command is one parsed input line.
type Command interface {
	isCommand()
}

// KeyDuration keys one press of the given length.
type KeyDuration struct {
	Duration time.Duration
}

// KeySymbols keys already classified symbols, one after another.
type KeySymbols struct {
	Symbols []cw.Symbol
}

// KeyDown and KeyUp are raw key edges, timed on arrival.
type (
	KeyDown struct{}
	KeyUp   struct{}
)

type (
	Clear struct{}
	Who   struct{}
	Help  struct{}
	Quit  struct{}
)

// Say sends Text as a plain text message.
type Say struct {
	Text string
}

func (KeyDuration) isCommand() {}
func (KeySymbols) isCommand()  {}
func (KeyDown) isCommand()     {}
func (KeyUp) isCommand()       {}
func (Clear) isCommand()       {}
func (Who) isCommand()         {}
func (Help) isCommand()        {}
func (Quit) isCommand()        {}
func (Say) isCommand()         {}

// ParseLine parses one line of operator input. A blank line yields a nil
// Command and no error.
//
// Accepted forms:
//
//	120         press duration in milliseconds
//	120ms       press duration with a unit
//	.-.         symbols keyed directly
//	down / up   key edges
//	/clear /who /help /quit
//	/say <text>
func ParseLine(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	if strings.HasPrefix(line, "/") {
		return parseSlash(line)
	}

	switch strings.ToLower(line) {
	case "down":
		return KeyDown{}, nil
	case "up":
		return KeyUp{}, nil
	}

	if syms, ok := parseSymbols(line); ok {
		return KeySymbols{Symbols: syms}, nil
	}

	d, err := parseDuration(line)
	if err != nil {
		return nil, err
	}
	return KeyDuration{Duration: d}, nil
}

func parseSlash(line string) (Command, error) {
	name, rest, _ := strings.Cut(line, " ")
	switch strings.ToLower(name) {
	case "/clear":
		return Clear{}, nil
	case "/who":
		return Who{}, nil
	case "/help", "/?":
		return Help{}, nil
	case "/quit", "/exit":
		return Quit{}, nil
	case "/say":
		text := strings.TrimSpace(rest)
		if text == "" {
			return nil, fmt.Errorf("%w: /say needs some text", ErrInvalidInput)
		}
		return Say{Text: text}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
}

// parseSymbols accepts a line made only of dots and dashes. A lone "-" is a
// dash, so "-5" falls through to the duration parser.
func parseSymbols(line string) ([]cw.Symbol, bool) {
	syms := make([]cw.Symbol, 0, len(line))
	for _, r := range line {
		sym, err := cw.ParseSymbol(r)
		if err != nil {
			return nil, false
		}
		syms = append(syms, sym)
	}
	return syms, true
}

// parseDuration reads bare integers as milliseconds. Negative values parse
// here and are rejected by the classifier.
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q is not a duration or symbols", ErrInvalidInput, s)
}
