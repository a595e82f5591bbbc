package errors

import (
	"testing"

	"fyne.io/fyne/v2/test"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestStatusBar_FollowsState(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	state := model.NewStatusState()
	bar := NewStatusBar(state)
	assert.Equal(t, "Ready", bar.Text())

	end := state.Begin("Fetching your workspaces")
	bar.updateStatus()
	assert.Equal(t, "Fetching your workspaces", bar.Text())

	end()
	state.Done("Fetched 3 versions of Pets")
	bar.updateStatus()
	assert.Equal(t, "Fetched 3 versions of Pets", bar.Text())

	state.Fail("")
	bar.updateStatus()
	assert.Equal(t, "Failed", bar.Text())
}

func TestWantsSettings(t *testing.T) {
	assert.True(t, wantsSettings(apperrors.ClassifyError(apperrors.ErrMissingAPIKey)))
	assert.False(t, wantsSettings(apperrors.ClassifyError(apperrors.ErrTransport)))
}
