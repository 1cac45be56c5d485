package chat

import (
	"sort"

	"github.com/samber/lo"
)

// Roster is the latest membership snapshot from the relay.
// Only the relay's roster events replace it.
type Roster struct {
	members []string
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{}
}

// Replace swaps in a new snapshot. Blank and duplicate names are dropped.
func (r *Roster) Replace(usernames []string) {
	members := lo.Uniq(lo.Compact(usernames))
	sort.Strings(members)
	r.members = members
}

// Members returns the sorted member names.
func (r *Roster) Members() []string {
	out := make([]string, len(r.members))
	copy(out, r.members)
	return out
}

// Contains reports whether username is present.
func (r *Roster) Contains(username string) bool {
	return lo.Contains(r.members, username)
}

// Len returns the member count.
func (r *Roster) Len() int {
	return len(r.members)
}
