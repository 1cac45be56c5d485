package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ColonelBlimp/morsechat/internal/chat"
	"github.com/ColonelBlimp/morsechat/internal/effect"
)

func TestDecodeEvent_KnownShapes(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  chat.Event
	}{
		{
			name:  "presence joined",
			frame: `{"type":"presence-joined","username":"alice","text":"alice joined"}`,
			want:  chat.PresenceJoined{Username: "alice", Text: "alice joined"},
		},
		{
			name:  "presence left",
			frame: `{"type":"presence-left","username":"bob"}`,
			want:  chat.PresenceLeft{Username: "bob"},
		},
		{
			name:  "roster",
			frame: `{"type":"room-roster","usernames":["alice","bob"]}`,
			want:  chat.RoomRoster{Usernames: []string{"alice", "bob"}},
		},
		{
			name:  "morse",
			frame: `{"type":"morse-received","username":"alice","lastSymbol":"-","codeSequence":"-.-.","transcriptSoFar":"C","timestamp":1700000000000}`,
			want: chat.MorseReceived{
				Username: "alice", LastSymbol: "-", Code: "-.-.", Transcript: "C",
				Timestamp: time.UnixMilli(1700000000000).UTC(),
			},
		},
		{
			name:  "text",
			frame: `{"type":"text-received","username":"bob","text":"hi","timestamp":1700000000500}`,
			want:  chat.TextReceived{Username: "bob", Text: "hi", Timestamp: time.UnixMilli(1700000000500).UTC()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent([]byte(tt.frame))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEvent_Malformed(t *testing.T) {
	frames := map[string]string{
		"not json":          `{"type":`,
		"unknown type":      `{"type":"typing","username":"alice"}`,
		"missing type":      `{"username":"alice"}`,
		"missing username":  `{"type":"presence-joined","text":"x"}`,
		"bad last symbol":   `{"type":"morse-received","username":"a","lastSymbol":"x","codeSequence":"."}`,
		"missing code":      `{"type":"morse-received","username":"a","lastSymbol":"."}`,
		"empty text":        `{"type":"text-received","username":"a","text":""}`,
		"wrong field type":  `{"type":"room-roster","usernames":"alice"}`,
		"blank roster name": `{"type":"room-roster","usernames":["alice",""]}`,
		"negative time":     `{"type":"text-received","username":"a","text":"x","timestamp":-5}`,
	}

	for name, frame := range frames {
		t.Run(name, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(frame))
			require.Nil(t, ev)
			require.ErrorIs(t, err, ErrMalformedFrame)
			require.ErrorIs(t, err, chat.ErrMalformedEvent)
		})
	}
}

func TestEncodeMorse(t *testing.T) {
	at := time.UnixMilli(1700000001234)
	data, err := EncodeMorse(effect.Transmit{LastSymbol: ".", Code: "-.-.", Transcript: "C"}, at)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, "morse", got["type"])
	require.Equal(t, ".", got["lastSymbol"])
	require.Equal(t, "-.-.", got["codeSequence"])
	require.Equal(t, "C", got["transcriptSoFar"])
	require.Equal(t, float64(1700000001234), got["timestamp"])
}

func TestEncodeJoinLeaveText(t *testing.T) {
	join, err := EncodeJoin("lobby", "alice")
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"join","room":"lobby","username":"alice"}`, string(join))

	leave, err := EncodeLeave()
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"leave"}`, string(leave))

	text, err := EncodeText("hello", time.UnixMilli(42))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"text","text":"hello","timestamp":42}`, string(text))
}
