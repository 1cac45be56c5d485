// cmd/root.go
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ColonelBlimp/morsechat/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "morsechat",
	Short: "Morse code chat client",
	Long: `A chat client where messages are keyed in Morse code.
Taps are classified into dots and dashes, decoded after a short pause and
broadcast to everyone in the room through a websocket relay.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().StringP("user", "u", "", "username shown to the room")
	rootCmd.PersistentFlags().StringP("room", "r", "lobby", "room to join")
	rootCmd.PersistentFlags().StringP("relay", "R", "ws://localhost:8080/ws", "relay websocket URL")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")
	rootCmd.PersistentFlags().Bool("no-audio", false, "disable audio cues")
	bindFlags()

	rootCmd.AddCommand(chatCmd, encodeCmd, decodeCmd, tableCmd, replayCmd)
}

// bindFlags binds the global flags to their viper keys
func bindFlags() {
	viper.BindPFlag("username", rootCmd.PersistentFlags().Lookup("user"))
	viper.BindPFlag("room", rootCmd.PersistentFlags().Lookup("room"))
	viper.BindPFlag("relay_url", rootCmd.PersistentFlags().Lookup("relay"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns a text logger on w at the configured level.
func newLogger(s *config.Settings, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: s.Level()}))
}
