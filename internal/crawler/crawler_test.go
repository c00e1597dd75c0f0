package crawler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srcschema/srcschema/internal/config"
	"github.com/srcschema/srcschema/internal/treesit"
)

// Test plan:
// 1. Walker selects by language, honors ignore globs and size limits
// 2. BuildRecord hashes content, captures license headers, parses schema
// 3. RecordWriter round-trips gzipped JSONL
// 4. DedupeIndex reports repeats and survives reopening
// 5. CrawlDir end to end over a mixed local tree
// 6. Duplicate files are extracted once when dedupe is on

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestWalkerSelection(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"app/main.py":           "def f():\n    pass\n",
		"app/util.rb":           "def g\nend\n",
		"app/notes.md":          "# not source\n",
		"node_modules/dep/x.py": "ignored = True\n",
		"app/legacy.java":       "class A {}\n",
	})

	w, err := NewWalker(
		[]treesit.Language{treesit.Python, treesit.Ruby},
		[]string{"**"},
		[]string{"node_modules/**"},
		0,
	)
	require.NoError(t, err)

	files, err := w.Walk(root)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	assert.ElementsMatch(t, []string{"app/main.py", "app/util.rb"}, rels)
}

func TestWalkerSelectsTSXWithTypeScript(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/app.tsx":  "export const a = 1;\n",
		"src/util.ts":  "export const b = 2;\n",
		"src/index.js": "var c = 3;\n",
	})

	w, err := NewWalker([]treesit.Language{treesit.TypeScript}, nil, nil, 0)
	require.NoError(t, err)

	files, err := w.Walk(root)
	require.NoError(t, err)

	byRel := map[string]treesit.Language{}
	for _, f := range files {
		byRel[f.RelPath] = f.Language
	}
	// .tsx files ride along with the typescript selection but keep the
	// tsx grammar for parsing.
	assert.Equal(t, map[string]treesit.Language{
		"src/app.tsx": treesit.TSX,
		"src/util.ts": treesit.TypeScript,
	}, byRel)
}

func TestWalkerSizeLimit(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"small.py": "x = 1\n",
		"big.py":   "x = 'abcdefghijklmnopqrstuvwxyz'\n",
	})

	w, err := NewWalker([]treesit.Language{treesit.Python}, nil, nil, 8)
	require.NoError(t, err)

	files, err := w.Walk(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "small.py", files[0].RelPath)
}

func TestBuildRecord(t *testing.T) {
	t.Parallel()

	source := []byte("# Copyright 2019 Example Corp. MIT License.\n\ndef f():\n    return 1\n")
	rec, err := BuildRecord("org/repo", "pkg/mod.py", source, treesit.Python, true)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "org/repo", rec.RepoName)
	assert.Equal(t, "pkg/mod.py", rec.RelPath)
	assert.Equal(t, "mod.py", rec.FileName)
	assert.Equal(t, "python", rec.Language)
	assert.Len(t, rec.FileHash, 64)
	assert.Contains(t, rec.License, "Copyright")

	require.NotNil(t, rec.Schema)
	require.Len(t, rec.Schema.Methods, 1)
	assert.Equal(t, "f", rec.Schema.Methods[0].Name)
	// the license header must not masquerade as documentation
	assert.Nil(t, rec.Schema.FileDocstring)
}

func TestBuildRecordCollapsesDialect(t *testing.T) {
	t.Parallel()

	rec, err := BuildRecord("r", "src/app.tsx", []byte("export const a = 1;\n"), treesit.TSX, false)
	require.NoError(t, err)
	assert.Equal(t, "typescript", rec.Language)
}

func TestBuildRecordHashCoversOriginalBytes(t *testing.T) {
	t.Parallel()

	source := []byte("# Copyright 2019, MIT License.\nx = 1\n")
	withStrip, err := BuildRecord("r", "a.py", source, treesit.Python, true)
	require.NoError(t, err)
	withoutStrip, err := BuildRecord("r", "a.py", source, treesit.Python, false)
	require.NoError(t, err)

	assert.Equal(t, withStrip.FileHash, withoutStrip.FileHash)
}

func TestRecordWriterGzipRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.jsonl.gz")
	w, err := NewRecordWriter(path, true)
	require.NoError(t, err)

	rec, err := BuildRecord("r", "a.py", []byte("def f():\n    pass\n"), treesit.Python, false)
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Write(rec))
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	lines := 0
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		var decoded FileRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &decoded))
		assert.Equal(t, "a.py", decoded.RelPath)
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 2, lines)
}

func TestDedupeIndex(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dedupe.db")
	idx, err := OpenDedupeIndex(path)
	require.NoError(t, err)

	seen, err := idx.MarkSeen("abc", "first.py")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = idx.MarkSeen("abc", "second.py")
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, idx.Close())

	// the index persists across opens
	idx, err = OpenDedupeIndex(path)
	require.NoError(t, err)
	defer idx.Close()

	seen, err = idx.MarkSeen("abc", "third.py")
	require.NoError(t, err)
	assert.True(t, seen)

	n, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func crawlConfig(t *testing.T, out string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Crawl.Workers = 2
	cfg.Output.Path = out
	cfg.Output.Compress = false
	return cfg
}

func TestCrawlDir(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a.py":     "def f():\n    return 1\n",
		"b.rb":     "def g\n  2\nend\n",
		"skip.txt": "not source\n",
	})
	out := filepath.Join(t.TempDir(), "records.jsonl")

	c, err := New(crawlConfig(t, out), false)
	require.NoError(t, err)

	stats, err := c.CrawlDir(context.Background(), root, "local/test")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 2, stats.Extracted)
	assert.Zero(t, stats.Failed)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var rec FileRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		assert.Equal(t, "local/test", rec.RepoName)
		require.NotNil(t, rec.Schema)
		lines++
	}
	assert.Equal(t, 2, lines)
}

func TestCrawlDirDeduplicates(t *testing.T) {
	t.Parallel()

	same := "def f():\n    return 1\n"
	root := writeTree(t, map[string]string{
		"one.py": same,
		"two.py": same,
	})

	dir := t.TempDir()
	cfg := crawlConfig(t, filepath.Join(dir, "records.jsonl"))
	cfg.Dedupe.Enabled = true
	cfg.Dedupe.Path = filepath.Join(dir, "dedupe.db")

	c, err := New(cfg, false)
	require.NoError(t, err)

	stats, err := c.CrawlDir(context.Background(), root, "local/test")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	assert.Equal(t, 1, stats.Extracted)
	assert.Equal(t, 1, stats.Duplicate)
}
