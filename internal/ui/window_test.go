package ui

import (
	"context"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/shhac/schemadesk/internal/app"
	"github.com/shhac/schemadesk/internal/domain"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/logging"
	"github.com/shhac/schemadesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWindow(t *testing.T) (*MainWindow, *app.App) {
	t.Helper()
	fyneApp := test.NewApp()
	t.Cleanup(fyneApp.Quit)

	dir := t.TempDir()
	cfg := app.DefaultConfig()
	cfg.StoragePath = filepath.Join(dir, "state")
	cfg.MirrorRoot = filepath.Join(dir, "mirror")

	a, err := app.New(cfg, logging.NewNopLogger())
	require.NoError(t, err)

	mw := NewMainWindow(fyneApp, a)
	t.Cleanup(mw.cancel)
	return mw, a
}

// seedVersion mirrors one fetched version the way a fetch leaves it
func seedVersion(t *testing.T, a *app.App, content string) string {
	t.Helper()
	path, err := a.Mirror().Write("Pets", "1.0.0", "json", content)
	require.NoError(t, err)
	require.NoError(t, a.Store().PutMetadata("v1", domain.VersionMeta{
		FilePath:       path,
		APIName:        "Pets",
		APIID:          "api-1",
		SchemaID:       "s-1",
		VersionName:    "1.0.0",
		SchemaType:     "openapi3",
		SchemaLanguage: "json",
	}))
	return path
}

func TestNewMainWindow(t *testing.T) {
	mw, _ := newTestWindow(t)

	assert.Equal(t, "Schemadesk - Postman API Schemas", mw.Window().Title())
	require.NotNil(t, mw.Window().MainMenu())
	assert.Len(t, mw.Window().MainMenu().Items, 2)
}

func TestMainWindow_OpenVersion(t *testing.T) {
	mw, a := newTestWindow(t)
	path := seedVersion(t, a, `{"openapi":"3.0.0","info":{"title":"Pets"}}`)

	require.NoError(t, mw.openVersion(context.Background(), "v1"))

	text, ok := mw.state.Document.Text()
	require.True(t, ok)
	assert.Contains(t, text, `"openapi"`)

	gotPath, _ := mw.state.Document.Path.Get()
	assert.Equal(t, path, gotPath)
	title, _ := mw.state.Document.Title.Get()
	assert.Equal(t, "Pets / 1.0.0", title)
	summary, _ := mw.state.Document.Summary.Get()
	assert.Equal(t, "json: Pets, openapi 3.0.0", summary)

	sess := mw.state.Document.Session()
	assert.True(t, sess.HasSelection())
	assert.Equal(t, "s-1", sess.Schema.ID)
}

func TestMainWindow_OpenVersionNotFetched(t *testing.T) {
	mw, _ := newTestWindow(t)

	err := mw.openVersion(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMainWindow_SaveWritesMirror(t *testing.T) {
	mw, a := newTestWindow(t)
	path := seedVersion(t, a, "{}")
	require.NoError(t, mw.openVersion(context.Background(), "v1"))

	require.NoError(t, mw.state.Document.Content.Set(`{"edited":true}`))
	mw.handleSave()

	got, err := a.Mirror().Read(path)
	require.NoError(t, err)
	assert.Equal(t, `{"edited":true}`, got)

	current, _ := mw.state.Status.State.Get()
	assert.Equal(t, model.StatusOK, current)
}

func TestMainWindow_EditorValidate(t *testing.T) {
	mw, a := newTestWindow(t)
	seedVersion(t, a, "{}")
	require.NoError(t, mw.openVersion(context.Background(), "v1"))

	require.NoError(t, mw.state.Document.Content.Set(`{"openapi":`))
	err := mw.editor.Validate()
	var validationErr apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	summary, _ := mw.state.Document.Summary.Get()
	assert.NotEmpty(t, summary)
}

func TestMainWindow_CancelledFlowIsSilent(t *testing.T) {
	mw, _ := newTestWindow(t)

	mw.handleError("fetch-all", apperrors.ErrUserCancelled)
	current, _ := mw.state.Status.State.Get()
	assert.Equal(t, model.StatusIdle, current)

	mw.handleError("fetch-all", apperrors.ErrMissingAPIKey)
	current, _ = mw.state.Status.State.Get()
	message, _ := mw.state.Status.Message.Get()
	assert.Equal(t, model.StatusError, current)
	assert.Equal(t, "API Key Required", message)
}
