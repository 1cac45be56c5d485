// Package chat holds the room side of a session: inbound relay events, the
// append-only message log, the roster snapshot and the router between them.
package chat

import (
	"errors"
	"time"
)

// ErrMalformedEvent indicates an inbound event that matches none of the known shapes
var ErrMalformedEvent = errors.New("malformed inbound event")

// Kind is the wire tag of an inbound event.
type Kind string

const (
	KindPresenceJoined Kind = "presence-joined"
	KindPresenceLeft   Kind = "presence-left"
	KindRoomRoster     Kind = "room-roster"
	KindMorseReceived  Kind = "morse-received"
	KindTextReceived   Kind = "text-received"
)

// Kinds lists every inbound event kind. The set is closed.
var Kinds = []Kind{
	KindPresenceJoined,
	KindPresenceLeft,
	KindRoomRoster,
	KindMorseReceived,
	KindTextReceived,
}

// Event is one inbound relay event. Only the types in this file implement it.
// Events are values; the Router also accepts non-nil pointers to them.
type Event interface {
	Kind() Kind
	isEvent()
}

// PresenceJoined announces a member entering the room.
type PresenceJoined struct {
	Username string
	Text     string
}

// PresenceLeft announces a member leaving the room.
type PresenceLeft struct {
	Username string
	Text     string
}

// RoomRoster is the relay's periodic membership snapshot.
type RoomRoster struct {
	Usernames []string
}

// MorseReceived carries another member's freshly decoded character.
type MorseReceived struct {
	Username   string
	LastSymbol string
	Code       string
	Transcript string
	Timestamp  time.Time
}

// TextReceived carries a plain text message.
type TextReceived struct {
	Username  string
	Text      string
	Timestamp time.Time
}

func (PresenceJoined) Kind() Kind { return KindPresenceJoined }
func (PresenceLeft) Kind() Kind   { return KindPresenceLeft }
func (RoomRoster) Kind() Kind     { return KindRoomRoster }
func (MorseReceived) Kind() Kind  { return KindMorseReceived }
func (TextReceived) Kind() Kind   { return KindTextReceived }

func (PresenceJoined) isEvent() {}
func (PresenceLeft) isEvent()   {}
func (RoomRoster) isEvent()     {}
func (MorseReceived) isEvent()  {}
func (TextReceived) isEvent()   {}
