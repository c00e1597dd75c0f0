package crawler

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/srcschema/srcschema/internal/treesit"
)

// WalkedFile is one source file selected for extraction.
type WalkedFile struct {
	Path     string // absolute path on disk
	RelPath  string // path relative to the walk root, slash-separated
	Language treesit.Language
	Size     int64
}

// Walker selects source files under a directory tree by language and
// glob pattern.
type Walker struct {
	languages   map[treesit.Language]bool
	include     []glob.Glob
	ignore      []glob.Glob
	maxFileSize int64
}

// NewWalker compiles the include and ignore patterns. Patterns use the
// gobwas glob syntax with / as the separator; an empty include list
// selects everything.
func NewWalker(languages []treesit.Language, include, ignore []string, maxFileSize int64) (*Walker, error) {
	w := &Walker{
		languages:   make(map[treesit.Language]bool, len(languages)),
		maxFileSize: maxFileSize,
	}
	for _, l := range languages {
		w.languages[l] = true
	}
	for _, p := range include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", p, err)
		}
		w.include = append(w.include, g)
	}
	for _, p := range ignore {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", p, err)
		}
		w.ignore = append(w.ignore, g)
	}
	return w, nil
}

// Walk collects the selected files under root in lexical order.
func (w *Walker) Walk(root string) ([]WalkedFile, error) {
	var out []WalkedFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if w.ignored(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if w.ignored(rel) {
			return nil
		}

		lang, ok := treesit.LanguageForPath(rel)
		if !ok || !w.languages[lang.Family()] {
			return nil
		}
		if len(w.include) > 0 && !w.matchesAny(w.include, rel) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		if w.maxFileSize > 0 && info.Size() > w.maxFileSize {
			return nil
		}

		out = append(out, WalkedFile{
			Path:     path,
			RelPath:  rel,
			Language: lang,
			Size:     info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return out, nil
}

func (w *Walker) ignored(rel string) bool {
	// directory patterns like ".git/**" must also match the bare prefix
	trimmed := strings.TrimSuffix(rel, "/")
	for _, g := range w.ignore {
		if g.Match(rel) || g.Match(trimmed) || g.Match(trimmed+"/x") {
			return true
		}
	}
	return false
}

func (w *Walker) matchesAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
