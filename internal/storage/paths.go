package storage

import (
	"errors"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "schemadesk"

// DefaultStoragePath returns the default storage location for the local
// cache: $XDG_DATA_HOME/schemadesk, or the platform equivalent.
func DefaultStoragePath() (string, error) {
	if xdg.DataHome == "" {
		return "", errors.New("no data directory available")
	}
	return filepath.Join(xdg.DataHome, appName), nil
}

// DefaultMirrorRoot returns the directory holding the "Postman APIs" folder
// when no mirror root is configured: the user's documents directory.
func DefaultMirrorRoot() string {
	return xdg.UserDirs.Documents
}
