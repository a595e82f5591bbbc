// Package mirror maintains the on-disk copy of fetched schemas, one folder
// per API and one file per version:
//
//	<root>/Postman APIs/<apiName>/<versionName>.<language>
package mirror

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	apperrors "github.com/shhac/schemadesk/internal/errors"
)

// RootFolder is the folder holding all mirrored APIs
const RootFolder = "Postman APIs"

// fallbackExtension is used when a schema reports no language
const fallbackExtension = "txt"

// Mirror reads and writes schema files relative to a root directory. It is
// safe for concurrent use; filesystem access is serialized.
type Mirror struct {
	fs     billy.Filesystem
	logger *slog.Logger
	mu     sync.Mutex
}

// New creates a mirror over an arbitrary billy filesystem
func New(fs billy.Filesystem, logger *slog.Logger) *Mirror {
	return &Mirror{fs: fs, logger: logger}
}

// NewOS creates a mirror rooted at dir on the local disk
func NewOS(dir string, logger *slog.Logger) *Mirror {
	return New(osfs.New(dir), logger)
}

// Root returns the root directory of the underlying filesystem
func (m *Mirror) Root() string {
	return m.fs.Root()
}

// Abs returns the absolute location of a mirror-relative path
func (m *Mirror) Abs(rel string) string {
	return m.fs.Join(m.fs.Root(), rel)
}

// PathFor returns the mirror-relative path of a version's schema file.
// Names that would escape their folder are rejected.
func PathFor(apiName, versionName, language string) (string, error) {
	if err := checkName("api name", apiName); err != nil {
		return "", err
	}
	if err := checkName("version name", versionName); err != nil {
		return "", err
	}

	ext := strings.TrimPrefix(strings.TrimSpace(language), ".")
	if ext == "" {
		ext = fallbackExtension
	}
	if err := checkName("language", ext); err != nil {
		return "", err
	}
	return filepath.Join(RootFolder, apiName, versionName+"."+ext), nil
}

// Write stores content as the schema file of a version, creating folders as
// needed and replacing any previous file. It returns the mirror-relative path.
func (m *Mirror) Write(apiName, versionName, language, content string) (string, error) {
	rel, err := PathFor(apiName, versionName, language)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fs.MkdirAll(filepath.Dir(rel), 0o755); err != nil {
		return "", &apperrors.FileError{Op: "mkdir", Path: filepath.Dir(rel), Err: err}
	}
	if err := util.WriteFile(m.fs, rel, []byte(content), 0o644); err != nil {
		return "", &apperrors.FileError{Op: "write", Path: rel, Err: err}
	}

	m.logger.Debug("wrote schema file",
		slog.String("path", rel),
		slog.Int("bytes", len(content)))
	return rel, nil
}

// Read returns the content of a mirror-relative file
func (m *Mirror) Read(rel string) (string, error) {
	if rel == "" {
		return "", &apperrors.FileError{Op: "read", Path: rel, Err: fmt.Errorf("empty path")}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := util.ReadFile(m.fs, rel)
	if err != nil {
		return "", &apperrors.FileError{Op: "read", Path: rel, Err: err}
	}
	return string(data), nil
}

// Overwrite replaces the content of an existing mirror-relative file
func (m *Mirror) Overwrite(rel, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := util.WriteFile(m.fs, rel, []byte(content), 0o644); err != nil {
		return &apperrors.FileError{Op: "write", Path: rel, Err: err}
	}
	return nil
}

func checkName(field, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return apperrors.ValidationError{Field: field, Message: "must not be empty"}
	case name == "." || name == "..":
		return apperrors.ValidationError{Field: field, Message: fmt.Sprintf("%q is not a valid file name", name)}
	case strings.ContainsAny(name, "/\\\x00"):
		return apperrors.ValidationError{Field: field, Message: fmt.Sprintf("%q contains a path separator", name)}
	}
	return nil
}
