package cw

import (
	"errors"
	"testing"
)

func TestDefaultTable_RoundTrip(t *testing.T) {
	table := DefaultTable()

	for _, e := range table.Entries() {
		code, ok := table.Encode(e.Char)
		if !ok {
			t.Errorf("Encode(%q) not found", e.Char)
			continue
		}
		got, ok := table.Lookup(code)
		if !ok || got != e.Char {
			t.Errorf("Lookup(Encode(%q)) = %q, %v, want %q", e.Char, got, ok, e.Char)
		}
	}
}

func TestDefaultTable_Domain(t *testing.T) {
	table := DefaultTable()

	// A-Z, 0-9 and space
	if table.Len() != 37 {
		t.Errorf("Len() = %d, want 37", table.Len())
	}
	for r := 'A'; r <= 'Z'; r++ {
		if _, ok := table.Encode(r); !ok {
			t.Errorf("Encode(%q) missing", r)
		}
	}
	for r := '0'; r <= '9'; r++ {
		if _, ok := table.Encode(r); !ok {
			t.Errorf("Encode(%q) missing", r)
		}
	}
	if code, _ := table.Encode(' '); code != WordSeparator {
		t.Errorf("Encode(' ') = %q, want %q", code, WordSeparator)
	}
}

func TestDefaultTable_NoCodeLongerThanFive(t *testing.T) {
	for _, e := range DefaultTable().Entries() {
		if len(e.Code) > 5 {
			t.Errorf("code for %q has %d symbols", e.Char, len(e.Code))
		}
	}
}

func TestTable_Lookup(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		code   string
		want   rune
		wantOK bool
	}{
		{".", 'E', true},
		{"-", 'T', true},
		{"-.-.", 'C', true},
		{"...---...", 0, false},
		{".----", '1', true},
		{"..--", 0, false},
		{"", 0, false},
		{"/", ' ', true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := table.Lookup(tt.code)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Lookup(%q) = %q, %v, want %q, %v", tt.code, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTable_Encode_CaseInsensitive(t *testing.T) {
	table := DefaultTable()

	upper, _ := table.Encode('Q')
	lower, ok := table.Encode('q')
	if !ok || lower != upper {
		t.Errorf("Encode('q') = %q, %v, want %q", lower, ok, upper)
	}
}

func TestNewTable_RejectsDuplicateCode(t *testing.T) {
	_, err := NewTable([]Entry{{'A', ".-"}, {'B', ".-"}})
	if !errors.Is(err, ErrDuplicateCode) {
		t.Errorf("NewTable() error = %v, want %v", err, ErrDuplicateCode)
	}
}

func TestNewTable_RejectsDuplicateChar(t *testing.T) {
	_, err := NewTable([]Entry{{'A', ".-"}, {'A', "-."}})
	if !errors.Is(err, ErrDuplicateChar) {
		t.Errorf("NewTable() error = %v, want %v", err, ErrDuplicateChar)
	}
}

func TestTable_EncodeText(t *testing.T) {
	table := DefaultTable()

	got, err := table.EncodeText("sos 73")
	if err != nil {
		t.Fatalf("EncodeText() error = %v", err)
	}
	want := "... --- ... / --... ...--"
	if got != want {
		t.Errorf("EncodeText() = %q, want %q", got, want)
	}

	if _, err := table.EncodeText("hi!"); !errors.Is(err, ErrUnknownChar) {
		t.Errorf("EncodeText(\"hi!\") error = %v, want %v", err, ErrUnknownChar)
	}
}

func TestTable_DecodeText(t *testing.T) {
	table := DefaultTable()

	got, err := table.DecodeText("-.-. --.-  / -.. .")
	if err != nil {
		t.Fatalf("DecodeText() error = %v", err)
	}
	if got != "CQ DE" {
		t.Errorf("DecodeText() = %q, want %q", got, "CQ DE")
	}

	if _, err := table.DecodeText("......."); !errors.Is(err, ErrUnknownCode) {
		t.Errorf("DecodeText() error = %v, want %v", err, ErrUnknownCode)
	}
}

func TestTable_Entries_IsCopy(t *testing.T) {
	table := DefaultTable()
	entries := table.Entries()
	entries[0].Code = "tampered"

	if code, _ := table.Encode(entries[0].Char); code == "tampered" {
		t.Error("Entries() exposed internal state")
	}
}
