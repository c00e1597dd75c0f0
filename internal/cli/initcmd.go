package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srcschema/srcschema/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default srcschema.yml in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "srcschema.yml"
		if cfgFile != "" {
			path = cfgFile
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
