package ui

import (
	"context"
	"errors"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"github.com/shhac/schemadesk/internal/app"
	"github.com/shhac/schemadesk/internal/domain"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/mirror"
	"github.com/shhac/schemadesk/internal/model"
	"github.com/shhac/schemadesk/internal/orchestrator"
	"github.com/shhac/schemadesk/internal/tree"
	"github.com/shhac/schemadesk/internal/ui/browser"
	uierrors "github.com/shhac/schemadesk/internal/ui/errors"
	"github.com/shhac/schemadesk/internal/ui/settings"
)

// AppController defines the interface for app-level operations needed by the UI
type AppController interface {
	Config() *app.Config
	Logger() *slog.Logger
	Mirror() *mirror.Mirror
	Tree() *tree.HierarchyProvider
	Actions() tree.ActionProvider
	Orchestrator(host orchestrator.Host) *orchestrator.Orchestrator
}

// MainWindow manages the main application window and its layout.
type MainWindow struct {
	fyneApp fyne.App
	window  fyne.Window
	state   *model.ApplicationState
	logger  *slog.Logger
	app     AppController
	host    *Host
	orch    *orchestrator.Orchestrator

	// flows are cancelled when the window closes
	ctx    context.Context
	cancel context.CancelFunc

	// Panel widgets
	actionBar  *browser.ActionBar
	apiBrowser *browser.APIBrowser
	editor     *EditorPanel
	statusBar  *uierrors.StatusBar
}

// NewMainWindow creates a new main window with the application layout.
// The window is split horizontally with:
//   - Left side: fetch action and the workspace > API > version tree
//   - Right side: schema editor (top) and status bar (bottom)
func NewMainWindow(fyneApp fyne.App, app AppController) *MainWindow {
	window := fyneApp.NewWindow("Schemadesk - Postman API Schemas")
	state := model.NewApplicationState()
	ctx, cancel := context.WithCancel(context.Background())

	mw := &MainWindow{
		fyneApp: fyneApp,
		window:  window,
		state:   state,
		logger:  app.Logger(),
		app:     app,
		ctx:     ctx,
		cancel:  cancel,
	}
	mw.host = NewHost(fyneApp, window, state, app.Config().APIKey)
	mw.orch = app.Orchestrator(mw.host)

	mw.actionBar = browser.NewActionBar(app.Actions())
	mw.apiBrowser = browser.NewAPIBrowser(app.Tree(), mw.logger)
	mw.editor = NewEditorPanel(state.Document)
	mw.statusBar = uierrors.NewStatusBar(state.Status)

	mw.wireCallbacks()
	mw.setupMainMenu()
	mw.setupKeyboardShortcuts()
	mw.SetContent()

	window.SetOnClosed(cancel)
	window.Resize(fyne.NewSize(1200, 800))

	return mw
}

// wireCallbacks sets up all the event handlers and connects components
func (w *MainWindow) wireCallbacks() {
	w.actionBar.SetOnCommand(w.handleCommand)
	w.app.Tree().OnSelect(w.handleOpenVersion)

	w.apiBrowser.SetOnPull(w.handlePull)
	w.apiBrowser.SetOnPush(w.handlePush)

	w.editor.SetOnSave(w.handleSave)
	w.editor.SetOnPublish(w.handlePublish)
}

// handleCommand runs a command bound to a tree or action node
func (w *MainWindow) handleCommand(name string, args []string) {
	switch name {
	case tree.CommandFetchSchema:
		w.handleFetch()
	case tree.CommandOpenVersion:
		if len(args) > 0 {
			w.handleOpenVersion(args[0])
		}
	default:
		w.logger.Warn("unknown command", slog.String("command", name))
	}
}

// handleFetch walks the user through picking a workspace and API and
// downloads every version of it
func (w *MainWindow) handleFetch() {
	w.run(orchestrator.FlowFetchAll, func(ctx context.Context) error {
		_, err := w.orch.FetchAll(ctx, w.orch.NewSession())
		return err
	})
}

// handleOpenVersion loads a mirrored schema into the editor
func (w *MainWindow) handleOpenVersion(versionID string) {
	w.run("open-version", func(ctx context.Context) error {
		return w.openVersion(ctx, versionID)
	})
}

func (w *MainWindow) openVersion(ctx context.Context, versionID string) error {
	doc, err := w.orch.OpenVersion(ctx, w.orch.NewSession(), versionID)
	if err != nil {
		return err
	}
	w.state.Document.Open(doc.Session, doc.Path, doc.Content)
	_ = w.editor.Validate()

	w.logger.Debug("opened version",
		slog.String("version_id", versionID),
		slog.String("path", doc.Path))
	return nil
}

// handleSave writes the editor content back to the mirrored file
func (w *MainWindow) handleSave() {
	content, ok := w.state.Document.Text()
	if !ok {
		return
	}
	path, _ := w.state.Document.Path.Get()
	if err := w.app.Mirror().Overwrite(path, content); err != nil {
		w.handleError("save", err)
		return
	}
	w.state.Status.Done("Saved " + path)
}

// handlePublish uploads the editor content to the selected version
func (w *MainWindow) handlePublish() {
	sess := w.state.Document.Session()
	sess.FlowID = w.orch.NewSession().FlowID
	sess.APIKey = w.host.APIKey()

	w.run(orchestrator.FlowPublish, func(ctx context.Context) error {
		return w.orch.PublishActive(ctx, sess)
	})
}

// handlePull overwrites local files of the selected API or version
func (w *MainWindow) handlePull(node domain.Record) {
	w.run("pull", func(ctx context.Context) error {
		var err error
		if node.Kind == domain.KindAPIVersion {
			err = w.orch.SyncVersionFromRemote(ctx, w.orch.NewSession(), node.ID)
		} else {
			_, err = w.orch.SyncAPIFromRemote(ctx, w.orch.NewSession(), node)
		}
		if errors.Is(err, apperrors.ErrUserCancelled) {
			return err
		}

		// the open document may have been rewritten, even by a partial pull
		if reloadErr := w.reloadIfOpen(ctx, node); reloadErr != nil {
			w.logger.Warn("failed to reload open document", slog.Any("error", reloadErr))
		}
		return err
	})
}

// handlePush publishes the local files of the selected API or version
func (w *MainWindow) handlePush(node domain.Record) {
	w.run("push", func(ctx context.Context) error {
		if node.Kind == domain.KindAPIVersion {
			return w.orch.SyncVersionToRemote(ctx, w.orch.NewSession(), node.ID)
		}
		_, err := w.orch.SyncAPIToRemote(ctx, w.orch.NewSession(), node)
		return err
	})
}

// handleClearCache drops the cached tree after confirmation
func (w *MainWindow) handleClearCache() {
	w.run(orchestrator.FlowClearCache, w.orch.ClearCache)
}

// handleRefresh redraws the tree from the store
func (w *MainWindow) handleRefresh() {
	w.orch.Refresh()
}

// reloadIfOpen reopens the document when node is, or contains, its version
func (w *MainWindow) reloadIfOpen(ctx context.Context, node domain.Record) error {
	if _, ok := w.state.Document.Text(); !ok {
		return nil
	}
	sess := w.state.Document.Session()
	if sess.Version.ID != node.ID && sess.API.ID != node.ID {
		return nil
	}
	return w.openVersion(ctx, sess.Version.ID)
}

// run executes a flow off the UI thread and reports its error
func (w *MainWindow) run(flow string, fn func(ctx context.Context) error) {
	go func() {
		if err := fn(w.ctx); err != nil {
			w.handleError(flow, err)
		}
	}()
}

// handleError shows a flow failure. Declined prompts are silent.
func (w *MainWindow) handleError(flow string, err error) {
	if errors.Is(err, apperrors.ErrUserCancelled) {
		w.logger.Debug("flow cancelled by user", slog.String("flow", flow))
		return
	}

	w.logger.Error("flow failed",
		slog.String("flow", flow),
		slog.Any("error", err))

	uiErr := apperrors.ClassifyError(err)
	w.state.Status.Fail(uiErr.Title)
	fyne.Do(func() {
		uierrors.ShowError(err, w.window, w.showPreferences)
	})
}

// showPreferences opens the preferences dialog
func (w *MainWindow) showPreferences() {
	settings.ShowPreferencesDialog(w.fyneApp, w.window, settings.PreferencesCallbacks{
		OnThemeChange: func(mode string) {
			ApplyTheme(w.fyneApp, mode)
		},
		OnAPIKeyChange: func() {
			w.logger.Info("postman api key updated")
		},
	})
}

// promptForAPIKey asks for a key on startup when none is configured
func (w *MainWindow) promptForAPIKey() {
	if w.host.APIKey() != "" {
		return
	}
	dialog.ShowConfirm("Postman API Key", "Please provide your API key first.", func(ok bool) {
		if ok {
			w.showPreferences()
		}
	}, w.window)
}

// setupMainMenu installs the application menus
func (w *MainWindow) setupMainMenu() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem(tree.FetchLabel, w.handleFetch),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Schema", w.editor.TriggerSave),
		fyne.NewMenuItem("Publish Schema", w.editor.TriggerPublish),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Refresh Tree", w.handleRefresh),
		fyne.NewMenuItem("Clear Cache", w.handleClearCache),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", w.showPreferences),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Keyboard Shortcuts", func() { ShowShortcutDialog(w.window) }),
		fyne.NewMenuItem("About", func() { ShowAboutDialog(w.window) }),
	)
	w.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// SetContent builds and sets the main window layout.
// Layout structure:
//
//	┌─────────────────┬──────────────────────────────┐
//	│  Fetch Action   │                              │
//	├─────────────────┤      Schema Editor           │
//	│                 │                              │
//	│  API Tree       │                              │
//	│                 ├──────────────────────────────┤
//	│  [Pull] [Push]  │      Status Bar              │
//	└─────────────────┴──────────────────────────────┘
func (w *MainWindow) SetContent() {
	leftPanel := container.NewBorder(
		w.actionBar, // top
		nil,         // bottom
		nil,         // left
		nil,         // right
		w.apiBrowser,
	)

	rightPanel := container.NewBorder(
		nil,         // top
		w.statusBar, // bottom
		nil,         // left
		nil,         // right
		w.editor,
	)

	mainSplit := container.NewHSplit(leftPanel, rightPanel)

	// 30% for the tree, 70% for the editor
	mainSplit.SetOffset(0.3)

	w.window.SetContent(mainSplit)
}

// ShowAndRun shows the window, asks for a key if none is set and runs the
// event loop until the window closes.
func (w *MainWindow) ShowAndRun() {
	w.window.Show()
	w.promptForAPIKey()
	w.fyneApp.Run()
}

// Window returns the underlying Fyne window.
func (w *MainWindow) Window() fyne.Window {
	return w.window
}
