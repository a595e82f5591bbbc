package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// setupKeyboardShortcuts configures all keyboard shortcuts for the main window
func (w *MainWindow) setupKeyboardShortcuts() {
	canvas := w.window.Canvas()

	// Cmd+Enter: Publish schema
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyReturn,
		Modifier: fyne.KeyModifierSuper, // Cmd on macOS, Win on Windows
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("keyboard shortcut: publish schema")
		w.editor.TriggerPublish()
	})

	// Cmd+S: Save schema
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyS,
		Modifier: fyne.KeyModifierSuper,
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("keyboard shortcut: save schema")
		w.editor.TriggerSave()
	})

	// Cmd+Shift+F: Fetch API from Postman
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyF,
		Modifier: fyne.KeyModifierSuper | fyne.KeyModifierShift,
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("keyboard shortcut: fetch api")
		w.handleFetch()
	})

	// Cmd+R: Refresh tree
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyR,
		Modifier: fyne.KeyModifierSuper,
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("keyboard shortcut: refresh tree")
		w.handleRefresh()
	})

	// Cmd+,: Preferences
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyComma,
		Modifier: fyne.KeyModifierSuper,
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("keyboard shortcut: preferences")
		w.showPreferences()
	})

	w.logger.Info("keyboard shortcuts configured")
}
