// internal/cw/table.go
package cw

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// WordSeparator is the code assigned to the space character.
const WordSeparator = "/"

var (
	// ErrDuplicateCode indicates two characters share a code
	ErrDuplicateCode = errors.New("duplicate code in morse table")
	// ErrDuplicateChar indicates a character appears twice
	ErrDuplicateChar = errors.New("duplicate character in morse table")
	// ErrUnknownChar indicates a character outside the table domain
	ErrUnknownChar = errors.New("character not in morse table")
	// ErrUnknownCode indicates a code with no table entry
	ErrUnknownCode = errors.New("code not in morse table")
)

// Entry is one character/code pair.
type Entry struct {
	Char rune
	Code string
}

// International Morse for A-Z, 0-9 and the word separator.
var defaultEntries = []Entry{
	{'A', ".-"}, {'B', "-..."}, {'C', "-.-."}, {'D', "-.."}, {'E', "."},
	{'F', "..-."}, {'G', "--."}, {'H', "...."}, {'I', ".."}, {'J', ".---"},
	{'K', "-.-"}, {'L', ".-.."}, {'M', "--"}, {'N', "-."}, {'O', "---"},
	{'P', ".--."}, {'Q', "--.-"}, {'R', ".-."}, {'S', "..."}, {'T', "-"},
	{'U', "..-"}, {'V', "...-"}, {'W', ".--"}, {'X', "-..-"}, {'Y', "-.--"},
	{'Z', "--.."},
	{'0', "-----"}, {'1', ".----"}, {'2', "..---"}, {'3', "...--"}, {'4', "....-"},
	{'5', "....."}, {'6', "-...."}, {'7', "--..."}, {'8', "---.."}, {'9', "----."},
	{' ', WordSeparator},
}

// Table is an immutable bijective mapping between characters and codes.
type Table struct {
	entries []Entry
	byCode  map[string]rune
	byChar  map[rune]string
}

// NewTable builds a table, rejecting any entry that would break the bijection.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		byCode:  make(map[string]rune, len(entries)),
		byChar:  make(map[rune]string, len(entries)),
	}
	for _, e := range entries {
		if _, ok := t.byChar[e.Char]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateChar, e.Char)
		}
		if prev, ok := t.byCode[e.Code]; ok {
			return nil, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateCode, e.Code, prev, e.Char)
		}
		t.byChar[e.Char] = e.Code
		t.byCode[e.Code] = e.Char
		t.entries = append(t.entries, e)
	}
	return t, nil
}

var defaultTable = mustTable(defaultEntries)

func mustTable(entries []Entry) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTable returns the shared International Morse table.
func DefaultTable() *Table {
	return defaultTable
}

// Lookup returns the character for an exact code match.
func (t *Table) Lookup(code string) (rune, bool) {
	r, ok := t.byCode[code]
	return r, ok
}

// Encode returns the code for a character. Letters are case-insensitive.
func (t *Table) Encode(r rune) (string, bool) {
	code, ok := t.byChar[unicode.ToUpper(r)]
	return code, ok
}

// Entries returns the table in definition order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// EncodeText converts text into space-separated codes, e.g. "SOS" -> "... --- ...".
func (t *Table) EncodeText(text string) (string, error) {
	codes := make([]string, 0, len(text))
	for _, r := range text {
		code, ok := t.Encode(r)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownChar, r)
		}
		codes = append(codes, code)
	}
	return strings.Join(codes, " "), nil
}

// DecodeText converts whitespace-separated codes back into text.
func (t *Table) DecodeText(codes string) (string, error) {
	var b strings.Builder
	for _, code := range strings.Fields(codes) {
		r, ok := t.Lookup(code)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownCode, code)
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
