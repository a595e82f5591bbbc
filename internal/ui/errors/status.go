package errors

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/schemadesk/internal/model"
)

// StatusBar displays the current task status with a shape-changing icon indicator.
// Each state uses a distinct icon shape for accessibility (not color-only):
//   - Idle: empty radio button (circle outline)
//   - Busy: view-refresh icon (circular arrows)
//   - OK: confirm icon (checkmark)
//   - Error: error icon (X shape)
type StatusBar struct {
	widget.BaseWidget

	state       *model.StatusState
	statusLabel *widget.Label
	indicator   *widget.Icon
}

// NewStatusBar creates a new status bar bound to the given status state.
func NewStatusBar(state *model.StatusState) *StatusBar {
	label := widget.NewLabel("Ready")
	label.Truncation = fyne.TextTruncateEllipsis

	s := &StatusBar{
		state:       state,
		statusLabel: label,
		indicator:   widget.NewIcon(theme.RadioButtonIcon()),
	}
	s.ExtendBaseWidget(s)

	state.State.AddListener(binding.NewDataListener(s.updateStatus))
	state.Message.AddListener(binding.NewDataListener(s.updateStatus))

	s.updateStatus()
	return s
}

// updateStatus refreshes the status bar based on current state.
func (s *StatusBar) updateStatus() {
	stateStr, _ := s.state.State.Get()
	message, _ := s.state.Message.Get()

	var fallback string
	switch stateStr {
	case model.StatusBusy:
		s.indicator.SetResource(theme.ViewRefreshIcon())
		fallback = "Working..."
	case model.StatusOK:
		s.indicator.SetResource(theme.ConfirmIcon())
		fallback = "Done"
	case model.StatusError:
		s.indicator.SetResource(theme.ErrorIcon())
		fallback = "Failed"
	default:
		s.indicator.SetResource(theme.RadioButtonIcon())
		fallback = "Ready"
	}

	if message == "" {
		message = fallback
	}
	s.statusLabel.SetText(message)
}

// Text returns the message currently shown
func (s *StatusBar) Text() string {
	return s.statusLabel.Text
}

// CreateRenderer implements fyne.Widget.
func (s *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewHBox(
		s.indicator,
		s.statusLabel,
	))
}
