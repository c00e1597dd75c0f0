package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srcschema/srcschema/internal/parsers"
	"github.com/srcschema/srcschema/internal/treesit"
)

var parseLang string

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse one source file and print its schema as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		var lang treesit.Language
		if parseLang != "" {
			l, err := treesit.ParseLanguage(parseLang)
			if err != nil {
				return err
			}
			lang = l
		} else {
			l, ok := treesit.LanguageForPath(path)
			if !ok {
				return fmt.Errorf("cannot infer language from %s, use --language", path)
			}
			lang = l
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		fileSchema, err := parsers.ParseFile(source, lang)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(fileSchema)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseLang, "language", "l", "", "language tag (inferred from the extension when omitted)")
	rootCmd.AddCommand(parseCmd)
}
