// cmd/replay.go
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ColonelBlimp/morsechat/internal/config"
	"github.com/ColonelBlimp/morsechat/internal/cw"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Run a keying script through the decoder offline",
	Long: `Run a keying script through the decoder on a virtual clock and print
every character that would be transmitted.

Tokens are press durations in milliseconds; tokens starting with "_" are
pauses. The configured threshold and timeouts apply.`,
	Example: `  morsechat replay "80 80 80 80 _900 80 80"
  morsechat replay --file keying.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringP("file", "F", "", "read the script from a file")
}

func runReplay(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}

	script := strings.Join(args, " ")
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script = string(data)
	}
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("%w: empty script", cw.ErrInvalidScript)
	}

	steps, err := cw.ParseScript(script)
	if err != nil {
		return err
	}
	result, err := cw.Replay(settings.Decoder(), cw.DefaultTable(), steps)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, tx := range result.Transmits {
		fmt.Fprintf(out, "%-6s last=%s  %s\n", tx.Code, tx.LastSymbol, tx.Transcript)
	}
	if result.Discarded > 0 {
		fmt.Fprintf(out, "discarded %d unmatched sequence(s)\n", result.Discarded)
	}
	fmt.Fprintf(out, "transcript: %q\n", result.Transcript)
	return nil
}
