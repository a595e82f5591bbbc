package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/shhac/schemadesk/internal/ui/settings"
)

// pinnedTheme is the default theme held to the variant chosen in
// preferences, whatever the OS reports.
type pinnedTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (p *pinnedTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return p.Theme.Color(name, p.variant)
}

// themeFor builds the app theme for a stored mode
func themeFor(mode string) fyne.Theme {
	variant, pinned := settings.Variant(mode)
	if !pinned {
		return theme.DefaultTheme()
	}
	return &pinnedTheme{Theme: theme.DefaultTheme(), variant: variant}
}

// ApplyTheme installs the theme for mode on the app. Themed subtrees such as
// the API browser read the app theme, so they follow without extra wiring.
func ApplyTheme(a fyne.App, mode string) {
	a.Settings().SetTheme(themeFor(mode))
}

// LoadThemePreference applies the saved theme mode
func LoadThemePreference(a fyne.App) {
	ApplyTheme(a, a.Preferences().StringWithFallback(settings.PrefTheme, settings.ThemeSystem))
}
