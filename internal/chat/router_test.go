package chat

import (
	"testing"
	"time"

	"github.com/ColonelBlimp/morsechat/internal/effect"
	"github.com/stretchr/testify/require"
)

// unknownEvent satisfies Event from inside the package to stand in for a shape
// the router does not know
type unknownEvent struct{}

func (unknownEvent) Kind() Kind { return "typing" }
func (unknownEvent) isEvent()   {}

func newTestRouter() (*Router, *Log, *Roster) {
	log := NewLog()
	roster := NewRoster()
	return NewRouter(log, roster), log, roster
}

func TestRouter_PresenceJoined(t *testing.T) {
	req := require.New(t)
	router, log, _ := newTestRouter()

	msg, effects, err := router.Route(PresenceJoined{Username: "alice", Text: "alice has entered"})

	req.NoError(err)
	req.Empty(effects)
	req.Equal(1, log.Len())
	sys, ok := msg.(SystemMessage)
	req.True(ok)
	req.Equal("alice has entered", sys.Text)
	req.Equal(uint64(1), sys.Seq)
}

func TestRouter_PresenceLeft_DefaultText(t *testing.T) {
	req := require.New(t)
	router, _, _ := newTestRouter()

	msg, _, err := router.Route(PresenceLeft{Username: "bob"})

	req.NoError(err)
	req.Equal("bob left the room", msg.(SystemMessage).Text)
}

func TestRouter_RoomRoster_ReplacesMembership(t *testing.T) {
	req := require.New(t)
	router, log, roster := newTestRouter()

	_, _, err := router.Route(RoomRoster{Usernames: []string{"carol", "alice", "carol", ""}})
	req.NoError(err)
	req.Equal([]string{"alice", "carol"}, roster.Members())
	req.Equal(1, log.Len())

	msg, _, err := router.Route(RoomRoster{Usernames: []string{"dave"}})
	req.NoError(err)
	req.Equal([]string{"dave"}, roster.Members())
	req.Equal("In room: dave", msg.(SystemMessage).Text)

	msg, _, err = router.Route(RoomRoster{})
	req.NoError(err)
	req.Equal(0, roster.Len())
	req.Equal("Room is empty", msg.(SystemMessage).Text)
}

func TestRouter_PresenceDoesNotTouchRoster(t *testing.T) {
	req := require.New(t)
	router, _, roster := newTestRouter()

	_, _, err := router.Route(PresenceJoined{Username: "erin"})
	req.NoError(err)
	req.False(roster.Contains("erin"))
}

func TestRouter_MorseReceived_PlaysCue(t *testing.T) {
	req := require.New(t)
	router, log, _ := newTestRouter()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	msg, effects, err := router.Route(MorseReceived{
		Username: "alice", LastSymbol: "-", Code: "--.-", Transcript: "CQ", Timestamp: at,
	})

	req.NoError(err)
	req.Equal([]effect.Effect{effect.PlayCue{Kind: effect.CueLong}}, effects)
	m, ok := msg.(MorseMessage)
	req.True(ok)
	req.Equal("alice", m.Sender)
	req.Equal("--.-", m.Code)
	req.Equal("CQ", m.Transcript)
	req.Equal(at, m.Timestamp)
	req.Equal(1, log.Len())

	_, effects, err = router.Route(MorseReceived{Username: "alice", LastSymbol: ".", Code: ".", Transcript: "CQE"})
	req.NoError(err)
	req.Equal([]effect.Effect{effect.PlayCue{Kind: effect.CueShort}}, effects)
}

func TestRouter_TextReceived(t *testing.T) {
	req := require.New(t)
	router, _, _ := newTestRouter()

	msg, effects, err := router.Route(TextReceived{Username: "bob", Text: "hello"})

	req.NoError(err)
	req.Empty(effects)
	req.Equal("hello", msg.(TextMessage).Text)
	req.Equal("bob", Sender(msg))
}

func TestRouter_MalformedEventThenValid(t *testing.T) {
	req := require.New(t)
	router, log, _ := newTestRouter()

	_, _, err := router.Route(PresenceJoined{Username: "alice"})
	req.NoError(err)

	msg, effects, err := router.Route(unknownEvent{})
	req.ErrorIs(err, ErrMalformedEvent)
	req.Nil(msg)
	req.Nil(effects)
	req.Equal(1, log.Len())

	_, _, err = router.Route(nil)
	req.ErrorIs(err, ErrMalformedEvent)
	req.Equal(1, log.Len())

	_, _, err = router.Route(TextReceived{Username: "bob", Text: "still here"})
	req.NoError(err)
	req.Equal(2, log.Len())
	last, ok := log.Last()
	req.True(ok)
	req.Equal(uint64(2), last.Meta().Seq)
}

func TestRouter_EveryKindProducesOneMessage(t *testing.T) {
	events := map[Kind]Event{
		KindPresenceJoined: PresenceJoined{Username: "a"},
		KindPresenceLeft:   PresenceLeft{Username: "a"},
		KindRoomRoster:     RoomRoster{Usernames: []string{"a"}},
		KindMorseReceived:  MorseReceived{Username: "a", LastSymbol: ".", Code: "."},
		KindTextReceived:   TextReceived{Username: "a", Text: "x"},
	}

	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			req := require.New(t)
			router, log, _ := newTestRouter()
			ev, ok := events[kind]
			req.True(ok)
			req.Equal(kind, ev.Kind())

			_, _, err := router.Route(ev)
			req.NoError(err)
			req.Equal(1, log.Len())
		})
	}
}

func TestRouter_PointerEvents(t *testing.T) {
	events := []Event{
		&PresenceJoined{Username: "a"},
		&PresenceLeft{Username: "a"},
		&RoomRoster{Usernames: []string{"a"}},
		&MorseReceived{Username: "a", LastSymbol: "-", Code: "-"},
		&TextReceived{Username: "a", Text: "x"},
	}

	for _, ev := range events {
		t.Run(string(ev.Kind()), func(t *testing.T) {
			req := require.New(t)
			router, log, _ := newTestRouter()

			_, _, err := router.Route(ev)
			req.NoError(err)
			req.Equal(1, log.Len())
		})
	}
}

func TestRouter_MorsePointerPlaysCue(t *testing.T) {
	req := require.New(t)
	router, _, _ := newTestRouter()

	msg, effects, err := router.Route(&MorseReceived{Username: "bob", LastSymbol: "-", Code: "-.", Transcript: "N"})
	req.NoError(err)
	req.Equal([]effect.Effect{effect.PlayCue{Kind: effect.CueLong}}, effects)
	morse, ok := msg.(MorseMessage)
	req.True(ok)
	req.Equal("N", morse.Transcript)
}

func TestRouter_NilPointerEventIsMalformed(t *testing.T) {
	req := require.New(t)
	router, log, _ := newTestRouter()

	_, _, err := router.Route((*PresenceJoined)(nil))
	req.ErrorIs(err, ErrMalformedEvent)
	req.Equal(0, log.Len())
}
