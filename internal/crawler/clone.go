package crawler

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/rs/zerolog/log"
)

// CloneResult describes a freshly cloned repository.
type CloneResult struct {
	Name      string // owner/repo
	Path      string
	CommitSHA string
	Branch    string
}

// RepoName derives the owner/repo identifier from a clone URL. SSH-style
// git@host:owner/repo.git addresses are supported alongside HTTPS.
func RepoName(rawURL string) (string, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "git@") {
		parts := strings.SplitN(rawURL, ":", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("invalid SSH URL: %s", rawURL)
		}
		path = parts[1]
	} else {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("parse URL %s: %w", rawURL, err)
		}
		path = parsed.Path
	}
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("cannot derive owner/repo from %s", rawURL)
	}
	return strings.Join(parts[len(parts)-2:], "/"), nil
}

// CloneRepo clones rawURL under baseDir and returns where it landed. Any
// stale checkout of the same repository is replaced.
func CloneRepo(ctx context.Context, rawURL, baseDir string, depth int) (*CloneResult, error) {
	name, err := RepoName(rawURL)
	if err != nil {
		return nil, err
	}
	repoDir := filepath.Join(baseDir, filepath.FromSlash(name))

	if _, err := os.Stat(repoDir); err == nil {
		log.Debug().Str("path", repoDir).Msg("removing existing checkout")
		if err := os.RemoveAll(repoDir); err != nil {
			return nil, fmt.Errorf("remove existing checkout: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(repoDir), 0o755); err != nil {
		return nil, fmt.Errorf("create clone dir: %w", err)
	}

	log.Info().Str("url", rawURL).Str("path", repoDir).Msg("cloning repository")

	repo, err := git.PlainCloneContext(ctx, repoDir, false, &git.CloneOptions{
		URL:          rawURL,
		Depth:        depth,
		SingleBranch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", rawURL, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	return &CloneResult{
		Name:      name,
		Path:      repoDir,
		CommitSHA: head.Hash().String(),
		Branch:    head.Name().Short(),
	}, nil
}
