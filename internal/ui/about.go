package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Version is set at build time via ldflags:
//
//	go build -ldflags "-X github.com/shhac/schemadesk/internal/ui.Version=1.2.3"
var Version = "dev"

// ShowAboutDialog displays information about the application.
func ShowAboutDialog(parent fyne.Window) {
	content := container.NewVBox(
		widget.NewLabelWithStyle("Schemadesk", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Browse, edit and publish Postman API schemas"),
		widget.NewLabel("Version "+Version),
		widget.NewSeparator(),
		widget.NewLabel("Built with Fyne and Go"),
	)
	dialog.ShowCustom("About Schemadesk", "Close", content, parent)
}

// shortcutList is the reference shown by ShowShortcutDialog
var shortcutList = []struct{ action, key string }{
	{"Fetch API from Postman", "⌘ ⇧ F"},
	{"Publish Schema", "⌘ Return"},
	{"Save Schema", "⌘ S"},
	{"Refresh Tree", "⌘ R"},
	{"Preferences", "⌘ ,"},
}

// ShowShortcutDialog displays a reference of all keyboard shortcuts.
func ShowShortcutDialog(parent fyne.Window) {
	grid := container.NewGridWithColumns(2)
	for _, s := range shortcutList {
		grid.Add(widget.NewLabel(s.action))
		grid.Add(widget.NewLabelWithStyle(s.key, fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true}))
	}

	dialog.ShowCustom("Keyboard Shortcuts", "Close", container.NewVScroll(grid), parent)
}
