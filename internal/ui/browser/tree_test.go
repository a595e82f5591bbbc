package browser

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/shhac/schemadesk/internal/domain"
	"github.com/shhac/schemadesk/internal/logging"
	"github.com/shhac/schemadesk/internal/storage"
	"github.com/shhac/schemadesk/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBrowser(t *testing.T) (*APIBrowser, *tree.HierarchyProvider) {
	t.Helper()
	store := storage.NewStore(storage.NewMemoryBackend(), logging.NewNopLogger())
	require.NoError(t, store.Append(storage.RootKey, domain.Record{ID: "ws-1", Name: "My Workspace"}, domain.KindWorkspace))
	require.NoError(t, store.Append("ws-1", domain.Record{ID: "api-1", Name: "Pets"}, domain.KindAPI))
	require.NoError(t, store.SetList("api-1", []domain.Record{
		{ID: "v1", Name: "1.0.0"},
		{ID: "v2", Name: "2.0.0"},
	}, domain.KindAPIVersion))

	provider := tree.NewHierarchyProvider(store, logging.NewNopLogger())
	return NewAPIBrowser(provider, logging.NewNopLogger()), provider
}

func TestNewAPIBrowser(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	browser, _ := newTestBrowser(t)

	assert.NotNil(t, browser.tree, "tree should be initialized")
	assert.True(t, browser.pullBtn.Disabled(), "nothing selected yet")
	assert.True(t, browser.pushBtn.Disabled())
}

func TestAPIBrowser_Hierarchy(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	browser, _ := newTestBrowser(t)

	assert.Equal(t, []string{"ws-1"}, browser.childUIDs(""))
	assert.Equal(t, []string{"api-1"}, browser.childUIDs("ws-1"))
	assert.Equal(t, []string{"v1", "v2"}, browser.childUIDs("api-1"))
	assert.Empty(t, browser.childUIDs("v1"))
	assert.Empty(t, browser.childUIDs("unknown"))

	assert.True(t, browser.isBranch(""))
	assert.True(t, browser.isBranch("ws-1"))
	assert.True(t, browser.isBranch("api-1"))
	assert.False(t, browser.isBranch("v1"))
}

func TestAPIBrowser_SelectVersionOpensIt(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	browser, provider := newTestBrowser(t)
	var opened []string
	provider.OnSelect(func(versionID string) {
		opened = append(opened, versionID)
	})

	browser.childUIDs("")
	browser.childUIDs("ws-1")
	browser.childUIDs("api-1")

	browser.onTreeSelected("v2")
	assert.Equal(t, []string{"v2"}, opened)

	selected, ok := browser.Selected()
	require.True(t, ok)
	assert.Equal(t, "v2", selected.ID)
	assert.False(t, browser.pullBtn.Disabled())

	// branches toggle instead of opening
	browser.onTreeSelected("api-1")
	assert.Equal(t, []string{"v2"}, opened)
	selected, _ = browser.Selected()
	assert.Equal(t, "api-1", selected.ID)

	// workspaces cannot be pulled or pushed
	browser.onTreeSelected("ws-1")
	_, ok = browser.Selected()
	assert.False(t, ok)
	assert.True(t, browser.pushBtn.Disabled())
}

func TestAPIBrowser_PullPushCallbacks(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	browser, _ := newTestBrowser(t)
	var pulled, pushed []string
	browser.SetOnPull(func(node domain.Record) { pulled = append(pulled, node.ID) })
	browser.SetOnPush(func(node domain.Record) { pushed = append(pushed, node.ID) })

	browser.childUIDs("")
	browser.childUIDs("ws-1")
	browser.onTreeSelected("api-1")

	test.Tap(browser.pullBtn)
	test.Tap(browser.pushBtn)

	assert.Equal(t, []string{"api-1"}, pulled)
	assert.Equal(t, []string{"api-1"}, pushed)
}

func TestActionBar_RunsFetch(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	bar := NewActionBar(tree.ActionProvider{})
	require.Len(t, bar.buttons, 1)
	assert.Equal(t, tree.FetchLabel, bar.buttons[0].Text)

	var commands []string
	bar.SetOnCommand(func(name string, _ []string) {
		commands = append(commands, name)
	})
	test.Tap(bar.buttons[0])
	assert.Equal(t, []string{tree.CommandFetchSchema}, commands)
}

func TestIconFor(t *testing.T) {
	assert.Equal(t, apiIcon, iconFor(tree.IconAPI))
	assert.NotNil(t, iconFor(tree.IconVersion))
	assert.NotNil(t, iconFor(tree.IconNone))
}

func TestTreeTheme(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	parent := theme.DefaultTheme()
	a.Settings().SetTheme(parent)
	th := newTreeTheme(nil)

	assert.Equal(t, theme.MenuDropDownIcon(), th.Icon(theme.IconNameMoveDown))
	assert.Equal(t, parent.Icon(theme.IconNameSearch), th.Icon(theme.IconNameSearch))
	assert.Less(t, th.Size(theme.SizeNameInnerPadding), parent.Size(theme.SizeNameInnerPadding))
	assert.Equal(t, parent.Size(theme.SizeNameText), th.Size(theme.SizeNameText))
}

func TestTreeTheme_FollowsAppTheme(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	th := newTreeTheme(nil)

	a.Settings().SetTheme(&fixedBackground{Theme: theme.DefaultTheme(), bg: color.NRGBA{R: 1, G: 2, B: 3, A: 255}})
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, th.Color(theme.ColorNameBackground, theme.VariantLight))

	a.Settings().SetTheme(theme.DefaultTheme())
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantLight),
		th.Color(theme.ColorNameBackground, theme.VariantLight))
}

type fixedBackground struct {
	fyne.Theme
	bg color.Color
}

func (f *fixedBackground) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground {
		return f.bg
	}
	return f.Theme.Color(name, variant)
}
