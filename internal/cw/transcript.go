// internal/cw/transcript.go
package cw

import (
	"strings"

	"github.com/ColonelBlimp/morsechat/internal/effect"
)

// Transcript is the cumulative decoded text of the local user's outgoing message.
type Transcript struct {
	b strings.Builder
}

// OnDecoded appends the decoded character and returns the outbound event.
// The event carries the whole transcript so receivers keep no state.
func (t *Transcript) OnDecoded(char rune, code string, last Symbol) effect.Transmit {
	t.b.WriteRune(char)
	return effect.Transmit{
		LastSymbol: last.String(),
		Code:       code,
		Transcript: t.b.String(),
	}
}

// Clear resets the transcript to empty.
func (t *Transcript) Clear() {
	t.b.Reset()
}

// String returns the decoded text so far.
func (t *Transcript) String() string {
	return t.b.String()
}
