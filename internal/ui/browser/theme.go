package browser

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// treeTheme tightens the API tree: chevrons read as expand/collapse arrows
// and rows are packed closer than the app default. Everything else comes
// from the parent theme. A nil parent tracks the current app theme, so a
// light or dark preference reaches the tree too.
type treeTheme struct {
	parent fyne.Theme
}

func newTreeTheme(parent fyne.Theme) fyne.Theme {
	return &treeTheme{parent: parent}
}

func (t *treeTheme) base() fyne.Theme {
	if t.parent != nil {
		return t.parent
	}
	if a := fyne.CurrentApp(); a != nil {
		return a.Settings().Theme()
	}
	return theme.DefaultTheme()
}

func (t *treeTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base().Color(name, variant)
}

func (t *treeTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base().Font(style)
}

func (t *treeTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	switch name {
	case theme.IconNameNavigateNext:
		return theme.NavigateNextIcon()
	case theme.IconNameMoveDown:
		// dropdown arrow is a clearer "open" marker than the move glyph
		return theme.MenuDropDownIcon()
	}
	return t.base().Icon(name)
}

func (t *treeTheme) Size(name fyne.ThemeSizeName) float32 {
	size := t.base().Size(name)
	if name == theme.SizeNameInnerPadding {
		return size * 0.75
	}
	return size
}
