package browser

import (
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/shhac/schemadesk/internal/domain"
	"github.com/shhac/schemadesk/internal/tree"
)

// APIBrowser displays the cached workspace > API > version hierarchy
type APIBrowser struct {
	widget.BaseWidget

	provider   *tree.HierarchyProvider
	logger     *slog.Logger
	tree       *widget.Tree
	themedTree fyne.CanvasObject // tree wrapped with custom theme
	pullBtn    *widget.Button
	pushBtn    *widget.Button

	mu       sync.Mutex
	nodes    map[string]domain.Record // uid -> record, filled as the tree is walked
	selected *domain.Record

	// Callbacks
	onPull func(node domain.Record)
	onPush func(node domain.Record)
}

// NewAPIBrowser creates a browser over the hierarchy provider. The tree
// redraws whenever the provider signals a refresh.
func NewAPIBrowser(provider *tree.HierarchyProvider, logger *slog.Logger) *APIBrowser {
	b := &APIBrowser{
		provider: provider,
		logger:   logger,
		nodes:    make(map[string]domain.Record),
	}

	b.tree = widget.NewTree(
		b.childUIDs,
		b.isBranch,
		b.create,
		b.update,
	)
	b.tree.OnSelected = b.onTreeSelected

	// Only the tree gets the custom chevrons
	b.themedTree = container.NewThemeOverride(b.tree, newTreeTheme(nil))

	b.pullBtn = widget.NewButtonWithIcon("Pull", theme.DownloadIcon(), func() {
		if node, ok := b.Selected(); ok && b.onPull != nil {
			b.onPull(node)
		}
	})
	b.pushBtn = widget.NewButtonWithIcon("Push", theme.UploadIcon(), func() {
		if node, ok := b.Selected(); ok && b.onPush != nil {
			b.onPush(node)
		}
	})
	b.updateButtons()

	provider.OnRefresh(func() {
		fyne.Do(b.Refresh)
	})

	b.ExtendBaseWidget(b)
	return b
}

// SetOnPull sets the callback for pulling the selected API or version
func (b *APIBrowser) SetOnPull(fn func(node domain.Record)) {
	b.onPull = fn
}

// SetOnPush sets the callback for pushing the selected API or version
func (b *APIBrowser) SetOnPush(fn func(node domain.Record)) {
	b.onPush = fn
}

// Selected returns the selected API or version node
func (b *APIBrowser) Selected() (domain.Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected == nil {
		return domain.Record{}, false
	}
	return *b.selected, true
}

// Refresh reloads the tree from the store
func (b *APIBrowser) Refresh() {
	b.tree.Refresh()
	b.BaseWidget.Refresh()
}

// CreateRenderer creates the renderer for this widget
func (b *APIBrowser) CreateRenderer() fyne.WidgetRenderer {
	buttons := container.NewGridWithColumns(2, b.pullBtn, b.pushBtn)
	return widget.NewSimpleRenderer(container.NewBorder(nil, buttons, nil, nil, b.themedTree))
}

// childUIDs returns the child UIDs for a given parent UID
func (b *APIBrowser) childUIDs(uid string) []string {
	var parent *domain.Record
	if uid != "" {
		node, ok := b.node(uid)
		if !ok {
			return []string{}
		}
		parent = &node
	}

	children, err := b.provider.Children(parent)
	if err != nil {
		b.logger.Warn("failed to list tree children",
			slog.String("parent", uid),
			slog.Any("error", err))
		return []string{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	uids := make([]string, 0, len(children))
	for _, child := range children {
		b.nodes[child.ID] = child
		uids = append(uids, child.ID)
	}
	return uids
}

// isBranch returns whether the given UID represents a branch node
func (b *APIBrowser) isBranch(uid string) bool {
	if uid == "" {
		return true
	}
	node, ok := b.node(uid)
	if !ok {
		return false
	}
	return b.provider.Present(node).IsBranch()
}

// create creates a new tree node widget
func (b *APIBrowser) create(branch bool) fyne.CanvasObject {
	// Same structure for branches and leaves
	icon := canvas.NewImageFromResource(theme.FolderIcon())
	icon.FillMode = canvas.ImageFillContain
	icon.SetMinSize(fyne.NewSize(16, 16))

	label := widget.NewLabel("")

	return container.NewHBox(icon, label)
}

// update updates a tree node widget with the appropriate data
func (b *APIBrowser) update(uid string, branch bool, obj fyne.CanvasObject) {
	cont := obj.(*fyne.Container)
	icon := cont.Objects[0].(*canvas.Image)
	label := cont.Objects[1].(*widget.Label)

	node, ok := b.node(uid)
	if !ok {
		return
	}
	item := b.provider.Present(node)

	icon.Resource = iconFor(item.Icon)
	icon.Refresh()

	label.TextStyle = fyne.TextStyle{Bold: item.Kind == domain.KindWorkspace}
	label.SetText(item.Label)
}

// onTreeSelected handles tree selection events
func (b *APIBrowser) onTreeSelected(uid string) {
	node, ok := b.node(uid)
	if !ok {
		return
	}

	b.mu.Lock()
	if node.Kind == domain.KindWorkspace {
		b.selected = nil
	} else {
		b.selected = &node
	}
	b.mu.Unlock()
	b.updateButtons()

	if b.provider.Present(node).IsBranch() {
		if b.tree.IsBranchOpen(uid) {
			b.tree.CloseBranch(uid)
		} else {
			b.tree.OpenBranch(uid)
		}
		return
	}

	b.provider.Select(node)
}

func (b *APIBrowser) updateButtons() {
	if _, ok := b.Selected(); ok {
		b.pullBtn.Enable()
		b.pushBtn.Enable()
		return
	}
	b.pullBtn.Disable()
	b.pushBtn.Disable()
}

func (b *APIBrowser) node(uid string) (domain.Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	node, ok := b.nodes[uid]
	return node, ok
}
