// Package effect defines the side effects requested by the decoding core and
// the inbound router. The core never performs I/O itself; callers execute the
// returned descriptors.
package effect

// Effect is a side effect to be performed by the session loop.
type Effect interface {
	isEffect()
}

// CueKind selects the audio cue played for a received symbol.
type CueKind string

const (
	CueShort CueKind = "short"
	CueLong  CueKind = "long"
)

// Transmit asks the transport to broadcast a freshly decoded character.
// Fire-and-forget: no acknowledgment is modeled.
type Transmit struct {
	// LastSymbol is the most recent single symbol keyed ("." or "-")
	LastSymbol string
	// Code is the full code sequence of the just-decoded character
	Code string
	// Transcript is the cumulative decoded text so far
	Transcript string
}

// PlayCue asks the audio collaborator for a short or long cue. Best-effort.
type PlayCue struct {
	Kind CueKind
}

func (Transmit) isEffect() {}
func (PlayCue) isEffect()  {}

// CueForSymbol maps a single-symbol field to its cue kind.
// Anything other than "-" is a dot and gets the short cue.
func CueForSymbol(symbol string) CueKind {
	if symbol == "-" {
		return CueLong
	}
	return CueShort
}
