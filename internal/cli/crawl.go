package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srcschema/srcschema/internal/crawler"
)

var (
	crawlOutput   string
	crawlLangs    []string
	crawlWorkers  int
	crawlDedupe   bool
	crawlProgress bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <dir-or-git-url>...",
	Short: "Extract every source file under directories or repositories",
	Long: `Crawl walks each argument, parses every supported source file and
streams one JSON record per file. Arguments that look like git URLs are
cloned first; everything else is treated as a local directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if crawlOutput != "" {
			cfg.Output.Path = crawlOutput
			cfg.Output.Compress = strings.HasSuffix(crawlOutput, ".gz")
		}
		if len(crawlLangs) > 0 {
			cfg.Languages = crawlLangs
		}
		if crawlWorkers > 0 {
			cfg.Crawl.Workers = crawlWorkers
		}
		if cmd.Flags().Changed("dedupe") {
			cfg.Dedupe.Enabled = crawlDedupe
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		c, err := crawler.New(cfg, crawlProgress)
		if err != nil {
			return err
		}
		defer c.Close()

		total := crawler.Stats{}
		for _, target := range args {
			var stats *crawler.Stats
			if isGitURL(target) {
				stats, err = c.CrawlRepo(cmd.Context(), target)
			} else {
				stats, err = c.CrawlDir(cmd.Context(), target, target)
			}
			if err != nil {
				return fmt.Errorf("crawl %s: %w", target, err)
			}
			total.Files += stats.Files
			total.Extracted += stats.Extracted
			total.Skipped += stats.Skipped
			total.Duplicate += stats.Duplicate
			total.Failed += stats.Failed
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"extracted %d of %d files (%d duplicate, %d skipped, %d failed)\n",
			total.Extracted, total.Files, total.Duplicate, total.Skipped, total.Failed)
		return nil
	},
}

func isGitURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "git@")
}

func init() {
	crawlCmd.Flags().StringVarP(&crawlOutput, "output", "o", "", "output path (.gz enables compression, - for stdout)")
	crawlCmd.Flags().StringSliceVar(&crawlLangs, "languages", nil, "restrict to these languages")
	crawlCmd.Flags().IntVar(&crawlWorkers, "workers", 0, "concurrent file workers")
	crawlCmd.Flags().BoolVar(&crawlDedupe, "dedupe", false, "skip files whose content hash was already extracted")
	crawlCmd.Flags().BoolVar(&crawlProgress, "progress", true, "show a progress bar")
	rootCmd.AddCommand(crawlCmd)
}
