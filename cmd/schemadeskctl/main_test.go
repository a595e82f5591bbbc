package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/remote/remotetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv    *remotetest.Server
	cfg    string
	mirror string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := remotetest.NewServer(t)
	srv.AddWorkspace("ws-1", "Mine", "personal")
	srv.AddWorkspace("ws-2", "Team", "team")
	srv.AddAPI("ws-1", "api-1", "Pets")
	srv.AddVersion("api-1", remotetest.Version{ID: "v1", Name: "1.0.0", SchemaID: "s-1"}, &remotetest.Schema{
		ID: "s-1", Type: "openapi3", Language: "yaml", Content: "openapi: 3.0.0\n",
	})
	srv.AddVersion("api-1", remotetest.Version{ID: "v2", Name: "2.0.0", SchemaID: "s-2"}, &remotetest.Schema{
		ID: "s-2", Type: "openapi3", Language: "json", Content: `{"openapi":"3.0.0"}`,
	})

	dir := t.TempDir()
	mirror := filepath.Join(dir, "mirror")
	body := strings.Join([]string{
		"api_base_url: " + srv.URL,
		"api_key: " + remotetest.Key,
		"storage_path: " + filepath.Join(dir, "state"),
		"mirror_root: " + mirror,
		"fanout_limit: 2",
		"",
	}, "\n")
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o600))

	return &fixture{srv: srv, cfg: cfg, mirror: mirror}
}

// run executes one command with stdin and returns its stdout
func (f *fixture) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"-c", f.cfg}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (f *fixture) file(name string) string {
	return filepath.Join(f.mirror, "Postman APIs", "Pets", name)
}

func TestFetchListOpen(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "1\n1\n", "fetch")
	require.NoError(t, err)
	assert.Contains(t, out, "Select the workspace")
	assert.Contains(t, out, "1) Mine")
	assert.Contains(t, out, "Fetched 2 versions of Pets")

	data, err := os.ReadFile(f.file("1.0.0.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.0\n", string(data))

	out, err = f.run(t, "", "list")
	require.NoError(t, err)
	assert.Equal(t, "Mine  [workspace ws-1]\n"+
		"  Pets  [api api-1]\n"+
		"    1.0.0  [apiVersion v1]\n"+
		"    2.0.0  [apiVersion v2]\n", out)

	out, err = f.run(t, "", "open", "v2")
	require.NoError(t, err)
	assert.Equal(t, `{"openapi":"3.0.0"}`, out)
}

func TestFetch_CancelledPrompt(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "\n", "fetch")
	assert.ErrorIs(t, err, apperrors.ErrUserCancelled)

	out, err := f.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No APIs fetched yet")
}

func TestFetch_RepromptsOnBadChoice(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "7\nabc\n1\n1\n", "fetch")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Enter a number between 1 and 2"))
}

func TestPublish(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "1\n1\n", "fetch")
	require.NoError(t, err)

	body := filepath.Join(t.TempDir(), "edited.json")
	require.NoError(t, os.WriteFile(body, []byte(`{"openapi":"3.1.0"}`), 0o600))

	out, err := f.run(t, "", "publish", "v2", "--file", body)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully published the updated schema to Postman!")

	published, ok := f.srv.Published("s-2")
	require.True(t, ok)
	assert.Equal(t, `{"openapi":"3.1.0"}`, published)

	_, err = f.run(t, `{"openapi":`, "publish", "v2", "--file", "-")
	var validationErr apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr, "invalid bodies are not published")

	_, err = f.run(t, "", "publish", "v2", "--file", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, apperrors.ErrFileIO)
}

func TestPullPush(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "1\n1\n", "fetch")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(f.file("1.0.0.yaml"), []byte("openapi: 3.0.1\n"), 0o600))

	// declined confirmation leaves everything alone
	_, err = f.run(t, "n\n", "push", "v1")
	assert.ErrorIs(t, err, apperrors.ErrUserCancelled)
	_, ok := f.srv.Published("s-1")
	assert.False(t, ok)

	out, err := f.run(t, "y\n", "push", "v1")
	require.NoError(t, err)
	assert.Contains(t, out, "Publish changes to API `Pets` (version: 1.0.0) to Postman?")
	published, ok := f.srv.Published("s-1")
	require.True(t, ok)
	assert.Equal(t, "openapi: 3.0.1\n", published)

	require.NoError(t, os.WriteFile(f.file("2.0.0.json"), []byte("local"), 0o600))
	out, err = f.run(t, "", "--yes", "pull", "api-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully fetched API from Postman!")

	data, err := os.ReadFile(f.file("2.0.0.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"openapi":"3.0.0"}`, string(data))
}

func TestPullPush_UnknownOrWorkspace(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "1\n1\n", "fetch")
	require.NoError(t, err)

	_, err = f.run(t, "", "--yes", "pull", "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.run(t, "", "--yes", "push", "ws-1")
	var validationErr apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "1\n1\n", "fetch")
	require.NoError(t, err)

	out, err := f.run(t, "", "--yes", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared the local cache")

	out, err = f.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No APIs fetched yet")

	_, err = os.Stat(f.file("1.0.0.yaml"))
	assert.NoError(t, err, "mirrored files stay on disk")
}
