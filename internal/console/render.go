package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ColonelBlimp/morsechat/internal/chat"
	"github.com/ColonelBlimp/morsechat/internal/cw"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const timeLayout = "15:04:05"

// Renderer writes the chat view to a terminal. Safe for concurrent use.
type Renderer struct {
	mu  sync.Mutex
	out io.Writer

	pending    string
	transcript string
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Notice prints a one-line status message.
func (r *Renderer) Notice(text string) {
	r.println(color.Yellow.Sprint("! " + text))
}

// Message prints one log entry.
func (r *Renderer) Message(m chat.Message) {
	r.println(FormatMessage(m))
}

// Keying prints the local pending sequence and transcript when either changes.
func (r *Renderer) Keying(pending, transcript string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pending == r.pending && transcript == r.transcript {
		return
	}
	r.pending, r.transcript = pending, transcript
	_, _ = fmt.Fprintf(r.out, "%s %s  %s %s\n",
		color.Gray.Sprint("keying"), color.Cyan.Sprintf("[%s]", pending),
		color.Gray.Sprint("sent"), transcript)
}

// Roster prints the room members as a table.
func (r *Renderer) Roster(room string, members []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(members) == 0 {
		_, _ = fmt.Fprintf(r.out, "%s is empty\n", room)
		return
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"#", "Room " + room})
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for i, m := range members {
		table.Append([]string{fmt.Sprint(i + 1), m})
	}
	table.Render()
}

// Help prints the input reference.
func (r *Renderer) Help() {
	r.println(HelpText)
}

func (r *Renderer) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.out, s)
}

// FormatMessage renders m as a single line.
func FormatMessage(m chat.Message) string {
	switch v := m.(type) {
	case chat.SystemMessage:
		return color.Gray.Sprint("* " + v.Text)
	case chat.MorseMessage:
		return fmt.Sprintf("%s %s %s %s",
			stamp(v.Timestamp), color.Cyan.Sprint(v.Sender+":"), v.Transcript,
			color.Gray.Sprintf("(%s)", v.Code))
	case chat.TextMessage:
		return fmt.Sprintf("%s %s %s", stamp(v.Timestamp), color.Green.Sprint(v.Sender+":"), v.Text)
	}
	return fmt.Sprintf("%v", m)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return color.Gray.Sprint("[--:--:--]")
	}
	return color.Gray.Sprint("[" + t.Local().Format(timeLayout) + "]")
}

// FormatTable renders the Morse table as rows of "char code".
func FormatTable(w io.Writer, table *cw.Table) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Char", "Code"})
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, e := range table.Entries() {
		char := string(e.Char)
		if e.Char == ' ' {
			char = "space"
		}
		tw.Append([]string{char, e.Code})
	}
	tw.Render()
}

// HelpText lists the accepted input lines.
var HelpText = strings.Join([]string{
	"  <ms>        key a press of that many milliseconds (e.g. 80, 300)",
	"  . -         key symbols directly (e.g. .-)",
	"  down / up   press and release the key; the hold time is measured",
	"  /say <text> send plain text",
	"  /clear      discard what you have keyed",
	"  /who        show the room roster",
	"  /quit       leave the room",
}, "\n")
