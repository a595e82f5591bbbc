package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/model"
	"github.com/shhac/schemadesk/internal/ui/settings"
)

// Host answers flow prompts with dialogs on the main window. Flows run on
// background goroutines; every dialog is shown on the UI thread and the
// calling goroutine waits for the answer.
type Host struct {
	app         fyne.App
	window      fyne.Window
	state       *model.ApplicationState
	fallbackKey string
}

// NewHost creates a host for window. fallbackKey is used when no API key
// has been saved in the preferences.
func NewHost(a fyne.App, window fyne.Window, state *model.ApplicationState, fallbackKey string) *Host {
	return &Host{
		app:         a,
		window:      window,
		state:       state,
		fallbackKey: fallbackKey,
	}
}

// APIKey returns the saved key, falling back to the configured one
func (h *Host) APIKey() string {
	return settings.APIKey(h.app.Preferences(), h.fallbackKey)
}

// Choose shows a picker with options and waits for the user
func (h *Host) Choose(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, apperrors.ErrUserCancelled
	}

	answer := make(chan int, 1)
	fyne.Do(func() {
		picker := widget.NewSelect(options, nil)
		picker.SetSelectedIndex(0)

		d := dialog.NewCustomConfirm(title, "Select", "Cancel", picker, func(ok bool) {
			if !ok || picker.SelectedIndex() < 0 {
				answer <- -1
				return
			}
			answer <- picker.SelectedIndex()
		}, h.window)
		d.Resize(fyne.NewSize(400, 160))
		d.Show()
	})

	select {
	case idx := <-answer:
		if idx < 0 {
			return 0, apperrors.ErrUserCancelled
		}
		return idx, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Confirm asks a yes/no question and waits for the answer
func (h *Host) Confirm(ctx context.Context, message string) (bool, error) {
	answer := make(chan bool, 1)
	fyne.Do(func() {
		d := dialog.NewConfirm("Confirm", message, func(ok bool) {
			answer <- ok
		}, h.window)
		d.SetConfirmText("Continue")
		d.Show()
	})

	select {
	case ok := <-answer:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// ActiveDocument returns the schema text open in the editor
func (h *Host) ActiveDocument() (string, bool) {
	return h.state.Document.Text()
}

// Info reports success in the status bar
func (h *Host) Info(message string) {
	h.state.Status.Done(message)
}

// Progress shows message as busy in the status bar
func (h *Host) Progress(message string) func() {
	return h.state.Status.Begin(message)
}
