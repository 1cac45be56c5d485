// Package relay speaks the room relay protocol: JSON frames over a websocket.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ColonelBlimp/morsechat/internal/chat"
	"github.com/ColonelBlimp/morsechat/internal/effect"
)

var (
	// ErrMalformedFrame indicates an inbound frame that does not match the protocol.
	// It wraps chat.ErrMalformedEvent.
	ErrMalformedFrame = fmt.Errorf("relay frame: %w", chat.ErrMalformedEvent)
	// ErrTransportUnavailable indicates the relay cannot be reached
	ErrTransportUnavailable = errors.New("relay transport unavailable")
)

// Outbound frame types.
const (
	TypeJoin  = "join"
	TypeLeave = "leave"
	TypeMorse = "morse"
	TypeText  = "text"
)

var validate = validator.New()

type envelope struct {
	Type string `json:"type"`
}

type presenceFrame struct {
	Username string `json:"username" validate:"required"`
	Text     string `json:"text"`
}

type rosterFrame struct {
	Usernames []string `json:"usernames" validate:"dive,required"`
}

type morseFrame struct {
	Username        string `json:"username" validate:"required"`
	LastSymbol      string `json:"lastSymbol" validate:"required,oneof=. -"`
	CodeSequence    string `json:"codeSequence" validate:"required"`
	TranscriptSoFar string `json:"transcriptSoFar"`
	Timestamp       int64  `json:"timestamp" validate:"gte=0"`
}

type textFrame struct {
	Username  string `json:"username" validate:"required"`
	Text      string `json:"text" validate:"required"`
	Timestamp int64  `json:"timestamp" validate:"gte=0"`
}

// DecodeEvent parses one inbound frame into a chat event.
func DecodeEvent(data []byte) (chat.Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch chat.Kind(env.Type) {
	case chat.KindPresenceJoined:
		var f presenceFrame
		if err := unmarshalValid(data, &f); err != nil {
			return nil, err
		}
		return chat.PresenceJoined{Username: f.Username, Text: f.Text}, nil
	case chat.KindPresenceLeft:
		var f presenceFrame
		if err := unmarshalValid(data, &f); err != nil {
			return nil, err
		}
		return chat.PresenceLeft{Username: f.Username, Text: f.Text}, nil
	case chat.KindRoomRoster:
		var f rosterFrame
		if err := unmarshalValid(data, &f); err != nil {
			return nil, err
		}
		return chat.RoomRoster{Usernames: f.Usernames}, nil
	case chat.KindMorseReceived:
		var f morseFrame
		if err := unmarshalValid(data, &f); err != nil {
			return nil, err
		}
		return chat.MorseReceived{
			Username:   f.Username,
			LastSymbol: f.LastSymbol,
			Code:       f.CodeSequence,
			Transcript: f.TranscriptSoFar,
			Timestamp:  fromMillis(f.Timestamp),
		}, nil
	case chat.KindTextReceived:
		var f textFrame
		if err := unmarshalValid(data, &f); err != nil {
			return nil, err
		}
		return chat.TextReceived{Username: f.Username, Text: f.Text, Timestamp: fromMillis(f.Timestamp)}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedFrame, env.Type)
}

func unmarshalValid(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return nil
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// Outbound frames.

type joinFrame struct {
	Type     string `json:"type"`
	Room     string `json:"room"`
	Username string `json:"username"`
}

type leaveFrame struct {
	Type string `json:"type"`
}

type outMorseFrame struct {
	Type            string `json:"type"`
	LastSymbol      string `json:"lastSymbol"`
	CodeSequence    string `json:"codeSequence"`
	TranscriptSoFar string `json:"transcriptSoFar"`
	Timestamp       int64  `json:"timestamp"`
}

type outTextFrame struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// EncodeJoin builds the frame sent on every (re)connect.
func EncodeJoin(room, username string) ([]byte, error) {
	return json.Marshal(joinFrame{Type: TypeJoin, Room: room, Username: username})
}

// EncodeLeave builds the frame sent on orderly shutdown.
func EncodeLeave() ([]byte, error) {
	return json.Marshal(leaveFrame{Type: TypeLeave})
}

// EncodeMorse builds the transmit frame for a decoded character.
func EncodeMorse(tx effect.Transmit, at time.Time) ([]byte, error) {
	return json.Marshal(outMorseFrame{
		Type:            TypeMorse,
		LastSymbol:      tx.LastSymbol,
		CodeSequence:    tx.Code,
		TranscriptSoFar: tx.Transcript,
		Timestamp:       at.UnixMilli(),
	})
}

// EncodeText builds a plain text frame.
func EncodeText(text string, at time.Time) ([]byte, error) {
	return json.Marshal(outTextFrame{Type: TypeText, Text: text, Timestamp: at.UnixMilli()})
}
