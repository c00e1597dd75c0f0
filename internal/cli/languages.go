package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srcschema/srcschema/internal/treesit"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the supported languages",
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range treesit.Languages() {
			fmt.Fprintln(cmd.OutOrStdout(), lang)
		}
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
