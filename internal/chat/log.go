package chat

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Log is the append-only message log, ordered by arrival.
// It is owned by the session loop and not safe for concurrent use.
type Log struct {
	messages []Message
	seq      uint64
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append stamps m with an ID and sequence number and adds it to the log.
func (l *Log) Append(m Message) Message {
	l.seq++
	h := Header{ID: uuid.New(), Seq: l.seq}

	switch v := m.(type) {
	case SystemMessage:
		v.Header = h
		m = v
	case MorseMessage:
		v.Header = h
		m = v
	case TextMessage:
		v.Header = h
		m = v
	}
	l.messages = append(l.messages, m)
	return m
}

// Len returns the number of messages.
func (l *Log) Len() int {
	return len(l.messages)
}

// Messages returns a copy of the log.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Last returns the most recent message.
func (l *Log) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return nil, false
	}
	return l.messages[len(l.messages)-1], true
}

// From returns the messages authored by sender.
func (l *Log) From(sender string) []Message {
	return lo.Filter(l.messages, func(m Message, _ int) bool {
		return Sender(m) == sender
	})
}
