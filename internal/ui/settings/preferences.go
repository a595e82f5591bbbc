package settings

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Preference keys (must match the constants used elsewhere in the app).
const (
	PrefAPIKey = "postmanApiKey"
	PrefTheme  = "appTheme"
)

// Theme modes stored under PrefTheme
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

var themeLabels = map[string]string{
	ThemeSystem: "System Default",
	ThemeLight:  "Light",
	ThemeDark:   "Dark",
}

// PreferencesCallbacks provides hooks for the preferences dialog to apply changes.
type PreferencesCallbacks struct {
	OnThemeChange  func(mode string) // Called with "system", "dark", or "light"
	OnAPIKeyChange func()
}

// APIKey returns the saved Postman API key, or fallback when none is saved
func APIKey(prefs fyne.Preferences, fallback string) string {
	if key := strings.TrimSpace(prefs.String(PrefAPIKey)); key != "" {
		return key
	}
	return fallback
}

// Variant returns the variant a stored mode pins the app to. System mode
// pins nothing and follows the OS.
func Variant(mode string) (fyne.ThemeVariant, bool) {
	switch mode {
	case ThemeDark:
		return theme.VariantDark, true
	case ThemeLight:
		return theme.VariantLight, true
	}
	return 0, false
}

// ThemeMode maps a selector label back to its stored mode
func ThemeMode(label string) string {
	for mode, l := range themeLabels {
		if l == label {
			return mode
		}
	}
	return ThemeSystem
}

// ShowPreferencesDialog displays the unified preferences dialog with General and Appearance tabs.
func ShowPreferencesDialog(a fyne.App, window fyne.Window, callbacks PreferencesCallbacks) {
	prefs := a.Preferences()

	// --- General tab ---

	keyEntry := widget.NewPasswordEntry()
	keyEntry.SetPlaceHolder("PMAK-...")
	keyEntry.SetText(prefs.String(PrefAPIKey))

	hint := widget.NewLabel("Generate a key under Settings > API keys in your Postman account.")
	hint.Wrapping = fyne.TextWrapWord

	generalTab := container.NewTabItem("General", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Postman API Key", keyEntry),
		),
		hint,
	))

	// --- Appearance tab ---

	themeSelector := widget.NewSelect(
		[]string{themeLabels[ThemeSystem], themeLabels[ThemeLight], themeLabels[ThemeDark]},
		nil,
	)
	themeSelector.SetSelected(themeLabels[ThemeMode(themeLabels[prefs.StringWithFallback(PrefTheme, ThemeSystem)])])

	appearanceTab := container.NewTabItem("Appearance", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Theme", themeSelector),
		),
	))

	// --- Build dialog ---

	tabs := container.NewAppTabs(generalTab, appearanceTab)

	dlg := dialog.NewCustomConfirm("Preferences", "Save", "Cancel", tabs, func(save bool) {
		if !save {
			return
		}

		key := strings.TrimSpace(keyEntry.Text)
		if key != prefs.String(PrefAPIKey) {
			prefs.SetString(PrefAPIKey, key)
			if callbacks.OnAPIKeyChange != nil {
				callbacks.OnAPIKeyChange()
			}
		}

		mode := ThemeMode(themeSelector.Selected)
		prefs.SetString(PrefTheme, mode)
		if callbacks.OnThemeChange != nil {
			callbacks.OnThemeChange(mode)
		}
	}, window)

	dlg.Resize(fyne.NewSize(500, 300))
	dlg.Show()
}
