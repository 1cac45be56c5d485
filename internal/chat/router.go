package chat

import (
	"fmt"
	"strings"

	"github.com/ColonelBlimp/morsechat/internal/effect"
)

// Router turns inbound events into log entries. Every known event produces
// exactly one message; anything else is rejected without touching the log.
type Router struct {
	log    *Log
	roster *Roster
}

// NewRouter creates a router writing to log and roster.
func NewRouter(log *Log, roster *Roster) *Router {
	return &Router{log: log, roster: roster}
}

// Route appends the message for ev and returns any side effects.
func (r *Router) Route(ev Event) (Message, []effect.Effect, error) {
	var (
		msg     Message
		effects []effect.Effect
	)

	switch e := byValue(ev).(type) {
	case PresenceJoined:
		msg = SystemMessage{Text: presenceText(e.Text, e.Username, "joined")}
	case PresenceLeft:
		msg = SystemMessage{Text: presenceText(e.Text, e.Username, "left")}
	case RoomRoster:
		r.roster.Replace(e.Usernames)
		msg = SystemMessage{Text: rosterText(r.roster.Members())}
	case MorseReceived:
		msg = MorseMessage{
			Sender:     e.Username,
			LastSymbol: e.LastSymbol,
			Code:       e.Code,
			Transcript: e.Transcript,
			Timestamp:  e.Timestamp,
		}
		effects = append(effects, effect.PlayCue{Kind: effect.CueForSymbol(e.LastSymbol)})
	case TextReceived:
		msg = TextMessage{Sender: e.Username, Text: e.Text, Timestamp: e.Timestamp}
	default:
		return nil, nil, fmt.Errorf("%w: %T", ErrMalformedEvent, ev)
	}

	return r.log.Append(msg), effects, nil
}

// byValue dereferences non-nil pointer forms of the known events. Nil
// pointers are left as they are and rejected as malformed.
func byValue(ev Event) Event {
	switch e := ev.(type) {
	case *PresenceJoined:
		if e != nil {
			return *e
		}
	case *PresenceLeft:
		if e != nil {
			return *e
		}
	case *RoomRoster:
		if e != nil {
			return *e
		}
	case *MorseReceived:
		if e != nil {
			return *e
		}
	case *TextReceived:
		if e != nil {
			return *e
		}
	}
	return ev
}

func presenceText(text, username, verb string) string {
	if text != "" {
		return text
	}
	return username + " " + verb + " the room"
}

func rosterText(members []string) string {
	if len(members) == 0 {
		return "Room is empty"
	}
	return "In room: " + strings.Join(members, ", ")
}
