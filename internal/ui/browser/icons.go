package browser

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/shhac/schemadesk/internal/tree"
)

var apiIcon = theme.NewThemedResource(
	fyne.NewStaticResource("api.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24"><path fill="#000000" d="M8.6 16.6 4 12l4.6-4.6L7.2 6l-6 6 6 6 1.4-1.4zm6.8 0L20 12l-4.6-4.6L16.8 6l6 6-6 6-1.4-1.4z"/></svg>`)),
)

// iconFor maps a tree glyph to a theme resource
func iconFor(icon tree.Icon) fyne.Resource {
	switch icon {
	case tree.IconWorkspace:
		return theme.StorageIcon()
	case tree.IconAPI:
		return apiIcon
	case tree.IconVersion:
		return theme.FileTextIcon()
	case tree.IconDownload:
		return theme.DownloadIcon()
	default:
		return theme.FolderIcon()
	}
}
