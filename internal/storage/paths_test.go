package storage

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStoragePath(t *testing.T) {
	orig := xdg.DataHome
	t.Cleanup(func() { xdg.DataHome = orig })

	xdg.DataHome = "/data"
	path, err := DefaultStoragePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "schemadesk"), path)

	xdg.DataHome = ""
	_, err = DefaultStoragePath()
	assert.Error(t, err)
}
