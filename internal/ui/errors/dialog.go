package errors

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	apperrors "github.com/shhac/schemadesk/internal/errors"
)

// settingsAction is the action label that opens the preferences
const settingsAction = "Settings"

// ShowError displays a rich error dialog with recovery suggestions and
// technical details. When the error calls for a settings change and
// onSettings is set, the dialog offers to open the preferences.
func ShowError(err error, window fyne.Window, onSettings func()) {
	if err == nil {
		return
	}

	uiErr := apperrors.ClassifyError(err)
	if uiErr == nil {
		dialog.ShowError(err, window)
		return
	}

	content := Content(uiErr)

	if wantsSettings(uiErr) && onSettings != nil {
		d := dialog.NewCustomConfirm(
			uiErr.Title,
			"Open Preferences",
			"Close",
			content,
			func(open bool) {
				if open {
					onSettings()
				}
			},
			window,
		)
		d.Resize(fyne.NewSize(500, 400))
		d.Show()
		return
	}

	d := dialog.NewCustom(uiErr.Title, "Close", content, window)
	d.Resize(fyne.NewSize(500, 400))
	d.Show()
}

// Content builds the dialog body for a classified error
func Content(uiErr *apperrors.UIError) *fyne.Container {
	// word-wrapping labels keep the dialog from growing sideways
	msgLabel := widget.NewLabel(uiErr.Message)
	msgLabel.Wrapping = fyne.TextWrapWord
	content := container.NewVBox(msgLabel)

	if len(uiErr.Recovery) > 0 {
		content.Add(widget.NewSeparator())
		content.Add(widget.NewLabel("You can:"))
		for _, suggestion := range uiErr.Recovery {
			lbl := widget.NewLabel("• " + suggestion)
			lbl.Wrapping = fyne.TextWrapWord
			content.Add(lbl)
		}
	}

	if uiErr.Details != "" {
		detailsLabel := widget.NewLabel(uiErr.Details)
		detailsLabel.Wrapping = fyne.TextWrapWord
		accordion := widget.NewAccordion(
			widget.NewAccordionItem("Technical Details", detailsLabel),
		)
		content.Add(accordion)
	}
	return content
}

func wantsSettings(uiErr *apperrors.UIError) bool {
	for _, action := range uiErr.Actions {
		if action.Label == settingsAction {
			return true
		}
	}
	return false
}
