// internal/cw/sequence.go
package cw

import "strings"

// Sequence is the pending run of symbols for one not-yet-decoded character.
// The zero value is an empty sequence. No length limit is enforced: a run
// longer than any table entry never matches and is dropped by the stale timeout.
type Sequence struct {
	b strings.Builder
}

// Append adds a symbol to the end of the sequence.
func (s *Sequence) Append(sym Symbol) {
	s.b.WriteByte(byte(sym))
}

// Clear resets the sequence to empty.
func (s *Sequence) Clear() {
	s.b.Reset()
}

// Len returns the number of pending symbols.
func (s *Sequence) Len() int {
	return s.b.Len()
}

// Empty reports whether nothing is pending.
func (s *Sequence) Empty() bool {
	return s.b.Len() == 0
}

// String returns a snapshot of the sequence, e.g. "-.-.".
func (s *Sequence) String() string {
	return s.b.String()
}
