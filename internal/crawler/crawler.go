// Package crawler walks repositories and local trees, parses every
// selected source file and streams the extracted schemas as JSONL
// records.
package crawler

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/srcschema/srcschema/internal/config"
)

// Stats summarizes one crawl.
type Stats struct {
	Files     int
	Extracted int
	Skipped   int
	Duplicate int
	Failed    int
}

// Crawler drives extraction over one or more roots.
type Crawler struct {
	cfg    *config.Config
	walker *Walker
	writer *RecordWriter
	dedupe *DedupeIndex // nil when disabled

	progress bool
}

// New builds a crawler from configuration. The caller owns the returned
// crawler and must Close it.
func New(cfg *config.Config, showProgress bool) (*Crawler, error) {
	langs, err := cfg.SelectedLanguages()
	if err != nil {
		return nil, err
	}
	walker, err := NewWalker(langs, cfg.Paths.Include, cfg.Paths.Ignore, cfg.Crawl.MaxFileSize)
	if err != nil {
		return nil, err
	}
	writer, err := NewRecordWriter(cfg.Output.Path, cfg.Output.Compress)
	if err != nil {
		return nil, err
	}

	c := &Crawler{cfg: cfg, walker: walker, writer: writer, progress: showProgress}
	if cfg.Dedupe.Enabled {
		c.dedupe, err = OpenDedupeIndex(cfg.Dedupe.Path)
		if err != nil {
			writer.Close()
			return nil, err
		}
	}
	return c, nil
}

// Close flushes the output and releases the dedupe index.
func (c *Crawler) Close() error {
	var firstErr error
	if err := c.writer.Close(); err != nil {
		firstErr = err
	}
	if c.dedupe != nil {
		if err := c.dedupe.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CrawlRepo clones a remote repository and extracts it.
func (c *Crawler) CrawlRepo(ctx context.Context, url string) (*Stats, error) {
	cloneDir := c.cfg.Crawl.CloneDir
	if cloneDir == "" {
		dir, err := os.MkdirTemp("", "srcschema-clone-*")
		if err != nil {
			return nil, fmt.Errorf("create clone dir: %w", err)
		}
		defer os.RemoveAll(dir)
		cloneDir = dir
	}

	clone, err := CloneRepo(ctx, url, cloneDir, c.cfg.Crawl.CloneDepth)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("repo", clone.Name).
		Str("commit", clone.CommitSHA).
		Msg("clone complete")

	return c.crawl(ctx, clone.Path, clone.Name, clone.CommitSHA)
}

// CrawlDir extracts every selected file under root. repoName is recorded
// on each emitted record; local trees carry no commit hash.
func (c *Crawler) CrawlDir(ctx context.Context, root, repoName string) (*Stats, error) {
	return c.crawl(ctx, root, repoName, "")
}

func (c *Crawler) crawl(ctx context.Context, root, repoName, commit string) (*Stats, error) {
	files, err := c.walker.Walk(root)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("root", root).
		Int("files", len(files)).
		Msg("starting extraction")

	var bar *progressbar.ProgressBar
	if c.progress {
		bar = progressbar.Default(int64(len(files)), "extracting")
	}

	stats := &Stats{Files: len(files)}
	results := make(chan crawlOutcome, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Crawl.Workers)
	for _, f := range files {
		g.Go(func() error {
			outcome := c.processFile(f, repoName, commit)
			select {
			case results <- outcome:
			case <-ctx.Done():
				return ctx.Err()
			}
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	for outcome := range results {
		switch outcome.kind {
		case outcomeExtracted:
			stats.Extracted++
		case outcomeSkipped:
			stats.Skipped++
		case outcomeDuplicate:
			stats.Duplicate++
		case outcomeFailed:
			stats.Failed++
		}
	}

	log.Info().
		Int("extracted", stats.Extracted).
		Int("duplicate", stats.Duplicate).
		Int("failed", stats.Failed).
		Msg("extraction complete")
	return stats, nil
}

type outcomeKind int

const (
	outcomeExtracted outcomeKind = iota
	outcomeSkipped
	outcomeDuplicate
	outcomeFailed
)

type crawlOutcome struct {
	kind outcomeKind
	path string
}

func (c *Crawler) processFile(f WalkedFile, repoName, commit string) crawlOutcome {
	source, err := os.ReadFile(f.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", f.RelPath).Msg("read failed")
		return crawlOutcome{outcomeFailed, f.RelPath}
	}

	rec, err := BuildRecord(repoName, f.RelPath, source, f.Language, c.cfg.License.Strip)
	if err != nil {
		// binary or undecodable content surfaces here; skip quietly
		log.Debug().Err(err).Str("path", f.RelPath).Msg("skipping file")
		return crawlOutcome{outcomeSkipped, f.RelPath}
	}
	rec.Commit = commit

	if c.dedupe != nil {
		seen, err := c.dedupe.MarkSeen(rec.FileHash, f.RelPath)
		if err != nil {
			log.Warn().Err(err).Str("path", f.RelPath).Msg("dedupe lookup failed")
			return crawlOutcome{outcomeFailed, f.RelPath}
		}
		if seen {
			return crawlOutcome{outcomeDuplicate, f.RelPath}
		}
	}

	if err := c.writer.Write(rec); err != nil {
		log.Warn().Err(err).Str("path", f.RelPath).Msg("write failed")
		return crawlOutcome{outcomeFailed, f.RelPath}
	}
	return crawlOutcome{outcomeExtracted, f.RelPath}
}
