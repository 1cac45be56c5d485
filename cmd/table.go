// cmd/table.go
package cmd

import (
	"github.com/ColonelBlimp/morsechat/internal/console"
	"github.com/ColonelBlimp/morsechat/internal/cw"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the Morse table",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		console.FormatTable(cmd.OutOrStdout(), cw.DefaultTable())
	},
}
