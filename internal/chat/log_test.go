package chat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLog_AppendAssignsHeader(t *testing.T) {
	req := require.New(t)
	log := NewLog()

	first := log.Append(TextMessage{Sender: "a", Text: "one"})
	second := log.Append(SystemMessage{Text: "two"})

	req.Equal(uint64(1), first.Meta().Seq)
	req.Equal(uint64(2), second.Meta().Seq)
	req.NotEqual(uuid.Nil, first.Meta().ID)
	req.NotEqual(first.Meta().ID, second.Meta().ID)
}

func TestLog_ArrivalOrder(t *testing.T) {
	req := require.New(t)
	log := NewLog()

	log.Append(TextMessage{Sender: "b", Text: "late"})
	log.Append(TextMessage{Sender: "a", Text: "early"})

	msgs := log.Messages()
	req.Len(msgs, 2)
	req.Equal("late", msgs[0].(TextMessage).Text)
	req.Equal("early", msgs[1].(TextMessage).Text)
}

func TestLog_MessagesIsCopy(t *testing.T) {
	req := require.New(t)
	log := NewLog()
	log.Append(SystemMessage{Text: "x"})

	msgs := log.Messages()
	msgs[0] = nil

	last, ok := log.Last()
	req.True(ok)
	req.NotNil(last)
}

func TestLog_From(t *testing.T) {
	req := require.New(t)
	log := NewLog()
	log.Append(TextMessage{Sender: "a", Text: "1"})
	log.Append(MorseMessage{Sender: "b", Code: "."})
	log.Append(SystemMessage{Text: "sys"})
	log.Append(MorseMessage{Sender: "a", Code: "-"})

	req.Len(log.From("a"), 2)
	req.Len(log.From("b"), 1)
	req.Empty(log.From("nobody"))
}

func TestLog_LastEmpty(t *testing.T) {
	_, ok := NewLog().Last()
	require.False(t, ok)
}
