// cmd/encode.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/ColonelBlimp/morsechat/internal/cw"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:     "encode <text>...",
	Short:   "Print the Morse code for text",
	Example: `  morsechat encode hi 73`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		codes, err := cw.DefaultTable().EncodeText(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), codes)
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:     "decode <code>...",
	Short:   "Print the text for space separated Morse codes",
	Example: `  morsechat decode .... .. / --... ...--`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := cw.DefaultTable().DecodeText(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}
