package crawler

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/srcschema/srcschema/internal/comments"
	"github.com/srcschema/srcschema/internal/parsers"
	"github.com/srcschema/srcschema/internal/schema"
	"github.com/srcschema/srcschema/internal/treesit"
)

// FileRecord is one extracted file: the structural schema plus the
// provenance fields that identify where it came from.
type FileRecord struct {
	ID       string `json:"id"`
	RepoName string `json:"repo_name"`
	RelPath  string `json:"relative_path"`
	FileName string `json:"file_name"`
	Language string `json:"language"`
	FileHash string `json:"file_hash"`
	Commit   string `json:"commit_hash,omitempty"`
	License  string `json:"license,omitempty"`

	Schema *schema.FileSchema `json:"schema"`
}

// BuildRecord parses one file into a record. When stripLicense is set a
// license-looking header is captured on the record and removed before
// parsing, so it does not surface as a file docstring.
func BuildRecord(repo, path string, source []byte, lang treesit.Language, stripLicense bool) (*FileRecord, error) {
	hash := sha256.Sum256(source)

	license := ""
	if stripLicense {
		rest, header := comments.StripLicense(string(source))
		if header != "" {
			license = header
			source = []byte(rest)
		}
	}

	fileSchema, err := parsers.ParseFile(source, lang)
	if err != nil {
		return nil, err
	}

	return &FileRecord{
		ID:       uuid.NewString(),
		RepoName: repo,
		RelPath:  path,
		FileName: filepath.Base(path),
		Language: string(lang.Family()),
		FileHash: hex.EncodeToString(hash[:]),
		License:  license,
		Schema:   fileSchema,
	}, nil
}
