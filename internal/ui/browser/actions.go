package browser

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/shhac/schemadesk/internal/tree"
)

// ActionBar shows the static action pane above the tree
type ActionBar struct {
	widget.BaseWidget

	provider tree.ActionProvider
	buttons  []*widget.Button

	onCommand func(name string, args []string)

	container *fyne.Container
}

// NewActionBar creates an action bar with one button per root action
func NewActionBar(provider tree.ActionProvider) *ActionBar {
	a := &ActionBar{
		provider:  provider,
		container: container.NewVBox(),
	}

	for _, item := range provider.Children(nil) {
		item = provider.Present(item)
		btn := widget.NewButtonWithIcon(item.Label, iconFor(item.Icon), func() {
			a.run(item)
		})
		btn.Importance = widget.HighImportance
		a.buttons = append(a.buttons, btn)
		a.container.Add(btn)
	}

	a.ExtendBaseWidget(a)
	return a
}

// SetOnCommand sets the callback run with the command bound to a clicked action
func (a *ActionBar) SetOnCommand(fn func(name string, args []string)) {
	a.onCommand = fn
}

// CreateRenderer creates the renderer for this widget
func (a *ActionBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(a.container)
}

func (a *ActionBar) run(item tree.Item) {
	if item.Command == nil || a.onCommand == nil {
		return
	}
	a.onCommand(item.Command.Name, item.Command.Args)
}
