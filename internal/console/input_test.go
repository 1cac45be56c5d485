package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ColonelBlimp/morsechat/internal/cw"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	calls   []string
	members []string
	err     error
}

func (f *fakeController) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeController) Key(_ context.Context, d time.Duration) error {
	return f.record("key " + d.String())
}

func (f *fakeController) KeySymbol(_ context.Context, sym cw.Symbol) error {
	return f.record("symbol " + sym.String())
}

func (f *fakeController) Press(context.Context, time.Time) error   { return f.record("press") }
func (f *fakeController) Release(context.Context, time.Time) error { return f.record("release") }
func (f *fakeController) Clear(context.Context) error              { return f.record("clear") }

func (f *fakeController) Say(_ context.Context, text string) error {
	return f.record("say " + text)
}

func (f *fakeController) Members(context.Context) ([]string, error) {
	return f.members, f.record("members")
}

func TestInput_Run(t *testing.T) {
	plain(t)
	ctrl := &fakeController{members: []string{"alice"}}
	var out bytes.Buffer
	in := NewInput(ctrl, NewRenderer(&out), "lobby")

	script := strings.Join([]string{
		"80",
		".-",
		"down",
		"up",
		"bogus",
		"/say hi",
		"/who",
		"/clear",
		"/quit",
		"300",
	}, "\n")

	require.NoError(t, in.Run(context.Background(), ScanLines(strings.NewReader(script))))
	require.Equal(t, []string{
		"key 80ms",
		"symbol .",
		"symbol -",
		"press",
		"release",
		"say hi",
		"members",
		"clear",
	}, ctrl.calls)
	require.Contains(t, out.String(), "invalid input")
	require.Contains(t, out.String(), "alice")
}

func TestInput_RunStopsAtEOF(t *testing.T) {
	ctrl := &fakeController{}
	in := NewInput(ctrl, NewRenderer(&bytes.Buffer{}), "lobby")

	require.NoError(t, in.Run(context.Background(), ScanLines(strings.NewReader("120\n"))))
	require.Equal(t, []string{"key 120ms"}, ctrl.calls)
}

func TestInput_HandleStoppedSession(t *testing.T) {
	stopped := errors.New("stopped")
	ctrl := &fakeController{err: stopped}
	in := NewInput(ctrl, NewRenderer(&bytes.Buffer{}), "lobby")

	_, err := in.Handle(context.Background(), "80")
	require.ErrorIs(t, err, stopped)

	ctrl.err = context.Canceled
	quit, err := in.Handle(context.Background(), "80")
	require.NoError(t, err)
	require.True(t, quit)
}

func TestInput_HandleUsesClock(t *testing.T) {
	ctrl := &fakeController{}
	in := NewInput(ctrl, NewRenderer(&bytes.Buffer{}), "lobby")
	in.now = func() time.Time { return time.Unix(42, 0) }

	quit, err := in.Handle(context.Background(), "down")
	require.NoError(t, err)
	require.False(t, quit)
	require.Equal(t, []string{"press"}, ctrl.calls)
}

type failingReader struct{ err error }

func (f failingReader) ReadLine() (string, error) { return "", f.err }

func TestInput_RunReturnsReadError(t *testing.T) {
	readErr := errors.New("terminal gone")
	in := NewInput(&fakeController{}, NewRenderer(&bytes.Buffer{}), "lobby")

	require.ErrorIs(t, in.Run(context.Background(), failingReader{err: readErr}), readErr)
}
