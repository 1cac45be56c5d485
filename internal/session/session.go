// Package session runs one chat session: the keying engine, the room log and
// the roster, all owned by a single event loop goroutine.
package session

import (
	"github.com/ColonelBlimp/morsechat/internal/chat"
	"github.com/ColonelBlimp/morsechat/internal/cw"
)

// Session is the state of one joined room. It is created on join and only
// touched from the Loop goroutine.
type Session struct {
	Username string
	Room     string

	Decoder *cw.Decoder
	Roster  *chat.Roster
	Log     *chat.Log

	keyer  cw.Keyer
	router *chat.Router
}

func newSession(username, room string, decoder *cw.Decoder) *Session {
	log := chat.NewLog()
	roster := chat.NewRoster()
	return &Session{
		Username: username,
		Room:     room,
		Decoder:  decoder,
		Roster:   roster,
		Log:      log,
		router:   chat.NewRouter(log, roster),
	}
}

// Reset clears everything the local user has keyed: the pending sequence,
// the transcript and any half-finished key press.
func (s *Session) Reset() {
	s.Decoder.Clear()
	s.keyer.Reset()
}
