// cmd/chat.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ColonelBlimp/morsechat/internal/audio"
	"github.com/ColonelBlimp/morsechat/internal/config"
	"github.com/ColonelBlimp/morsechat/internal/console"
	"github.com/ColonelBlimp/morsechat/internal/recovery"
	"github.com/ColonelBlimp/morsechat/internal/relay"
	"github.com/ColonelBlimp/morsechat/internal/session"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Join a room and key Morse from the terminal",
	Long: `Join a room on the relay and key Morse code line by line.

` + console.HelpText,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}
	noAudio, _ := cmd.Flags().GetBool("no-audio")

	lines, out, closeInput, err := openInput(cmd)
	if err != nil {
		return err
	}
	defer closeInput()

	log := newLogger(settings, cmd.ErrOrStderr())
	view := console.NewRenderer(out)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := relay.NewClient(settings.Relay(), log)
	if err != nil {
		return fmt.Errorf("relay: %w", err)
	}

	var cues session.CuePlayer
	if settings.AudioEnabled && !noAudio {
		player, err := startPlayer(settings.Audio())
		if err != nil {
			log.Warn("audio cues disabled", "error", err)
		} else {
			defer player.Close()
			cues = player
		}
	}

	loop, err := session.NewLoop(session.Config{
		Username: settings.Username,
		Room:     settings.Room,
		Decoder:  settings.Decoder(),
	}, client, cues, view, log)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	background := func(name string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer recovery.Recover(log, func(r any) {
				log.Error("background task stopped", "task", name, "panic", r)
				cancel()
			})
			fn()
		}()
	}
	background("relay", func() { _ = client.Run(ctx) })
	background("session", func() { _ = loop.Run(ctx) })
	background("forward", func() { loop.Forward(ctx, client.Events(), client.Errors()) })

	view.Notice(fmt.Sprintf("joining %s as %s via %s, /help lists the input forms",
		settings.Room, settings.Username, settings.RelayURL))
	log.Debug("session started", "room", settings.Room, "user", settings.Username,
		"timings", slog.GroupValue(
			slog.Duration("threshold", settings.Decoder().DotDashThreshold),
			slog.Duration("decode", settings.Decoder().DecodeTimeout),
			slog.Duration("stale", settings.Decoder().StaleTimeout),
		))

	err = console.NewInput(loop, view, settings.Room).Run(ctx, lines)
	cancel()
	wg.Wait()
	return err
}

func startPlayer(cfg audio.Config) (*audio.Player, error) {
	player := audio.New(cfg)
	if err := player.Init(); err != nil {
		return nil, err
	}
	if err := player.Start(); err != nil {
		_ = player.Close()
		return nil, err
	}
	return player, nil
}

// openInput uses a readline prompt when stdin is a terminal, plain line
// scanning otherwise. Output goes through the prompt so incoming messages do
// not clobber a half-typed line.
func openInput(cmd *cobra.Command) (console.LineReader, io.Writer, func(), error) {
	stdin, ok := cmd.InOrStdin().(*os.File)
	if !ok || !readline.IsTerminal(int(stdin.Fd())) {
		return console.ScanLines(cmd.InOrStdin()), cmd.OutOrStdout(), func() {}, nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
		HistoryLimit:    200,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open terminal: %w", err)
	}
	return prompt{rl}, rl.Stdout(), func() { _ = rl.Close() }, nil
}

type prompt struct {
	rl *readline.Instance
}

// ReadLine treats Ctrl-C like end of input.
func (p prompt) ReadLine() (string, error) {
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}
