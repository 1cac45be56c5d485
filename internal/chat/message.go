package chat

import (
	"time"

	"github.com/google/uuid"
)

// Header is assigned by the Log when a message is appended.
type Header struct {
	ID  uuid.UUID
	Seq uint64 // arrival order, starting at 1
}

// Message is one entry of the message log.
type Message interface {
	Meta() Header
	isMessage()
}

// SystemMessage is presence and roster information.
type SystemMessage struct {
	Header
	Text string
}

// MorseMessage is a received Morse transmission.
type MorseMessage struct {
	Header
	Sender     string
	LastSymbol string
	Code       string
	Transcript string
	Timestamp  time.Time
}

// TextMessage is a received plain text message.
type TextMessage struct {
	Header
	Sender    string
	Text      string
	Timestamp time.Time
}

func (h Header) Meta() Header { return h }

func (SystemMessage) isMessage() {}
func (MorseMessage) isMessage()  {}
func (TextMessage) isMessage()   {}

// Sender returns the author of m, or "" for system messages.
func Sender(m Message) string {
	switch v := m.(type) {
	case MorseMessage:
		return v.Sender
	case TextMessage:
		return v.Sender
	}
	return ""
}
