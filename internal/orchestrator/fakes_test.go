package orchestrator

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/shhac/schemadesk/internal/domain"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/logging"
	"github.com/shhac/schemadesk/internal/mirror"
	"github.com/shhac/schemadesk/internal/remote"
	"github.com/shhac/schemadesk/internal/storage"
)

const testKey = "PMAK-test"

type fakeHost struct {
	mu sync.Mutex

	key        string
	choices    []int
	chooseHook func()
	confirm    bool
	doc        string
	hasDoc     bool

	titles   []string
	prompts  []string
	infos    []string
	progress []string
	open     int
}

func (h *fakeHost) APIKey() string { return h.key }

func (h *fakeHost) Choose(_ context.Context, title string, options []string) (int, error) {
	if h.chooseHook != nil {
		h.chooseHook()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.titles = append(h.titles, title)
	if len(h.choices) == 0 {
		return 0, apperrors.ErrUserCancelled
	}
	idx := h.choices[0]
	h.choices = h.choices[1:]
	return idx, nil
}

func (h *fakeHost) Confirm(_ context.Context, message string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prompts = append(h.prompts, message)
	return h.confirm, nil
}

func (h *fakeHost) ActiveDocument() (string, bool) { return h.doc, h.hasDoc }

func (h *fakeHost) Info(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.infos = append(h.infos, message)
}

func (h *fakeHost) Progress(message string) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.progress = append(h.progress, message)
	h.open++
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.open--
	}
}

type fakeClient struct {
	mu sync.Mutex

	workspaces    []domain.Workspace
	apis          map[string][]domain.API
	versions      map[string][]domain.APIVersion
	schemas       map[string]domain.Schema // by version id
	fetchErr      map[string]error
	publishStatus map[string]int
	published     map[string]remote.PublishRequest
	calls         int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		apis:          map[string][]domain.API{},
		versions:      map[string][]domain.APIVersion{},
		schemas:       map[string]domain.Schema{},
		fetchErr:      map[string]error{},
		publishStatus: map[string]int{},
		published:     map[string]remote.PublishRequest{},
	}
}

func (c *fakeClient) count() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *fakeClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *fakeClient) ListWorkspaces(context.Context, string) ([]domain.Workspace, error) {
	c.count()
	return c.workspaces, nil
}

func (c *fakeClient) ListAPIs(_ context.Context, _ string, ws domain.Workspace) ([]domain.API, error) {
	c.count()
	return c.apis[ws.ID], nil
}

func (c *fakeClient) ListVersions(_ context.Context, _ string, api domain.API) ([]domain.APIVersion, error) {
	c.count()
	return c.versions[api.ID], nil
}

func (c *fakeClient) FetchSchema(_ context.Context, _ string, apiID, versionID string) (domain.Schema, error) {
	c.count()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fetchErr[versionID]; err != nil {
		return domain.Schema{}, err
	}
	s, ok := c.schemas[versionID]
	if !ok {
		return domain.Schema{}, apperrors.ErrNoSchemaID
	}
	return s, nil
}

func (c *fakeClient) PublishSchema(_ context.Context, _ string, req remote.PublishRequest) (remote.PublishResult, error) {
	c.count()
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.publishStatus[req.VersionID]
	if !ok {
		status = http.StatusOK
	}
	if status == http.StatusOK {
		c.published[req.VersionID] = req
	}
	return remote.PublishResult{Success: status == http.StatusOK, StatusCode: status}, nil
}

type countingTree struct {
	mu sync.Mutex
	n  int
}

func (t *countingTree) Refresh() {
	t.mu.Lock()
	t.n++
	t.mu.Unlock()
}

func (t *countingTree) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

type harness struct {
	o      *Orchestrator
	host   *fakeHost
	client *fakeClient
	store  *storage.Store
	files  *mirror.Mirror
	tree   *countingTree
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		host:   &fakeHost{key: testKey, confirm: true},
		client: newFakeClient(),
		store:  storage.NewStore(storage.NewMemoryBackend(), logging.NewNopLogger()),
		files:  mirror.New(memfs.New(), logging.NewNopLogger()),
		tree:   &countingTree{},
	}
	h.o = New(h.client, h.store, h.files, h.tree, h.host, logging.NewNopLogger(), Config{
		FanoutLimit:           2,
		ValidateBeforePublish: true,
	})
	return h
}

// seedPets registers workspace ws-1 with API "Pets" and three JSON versions
func (h *harness) seedPets() {
	h.client.workspaces = []domain.Workspace{{ID: "ws-1", Name: "Mine", Type: "personal", Label: "Mine"}}
	h.client.apis["ws-1"] = []domain.API{{ID: "api-1", Name: "Pets", Label: "Pets"}}
	h.client.versions["api-1"] = []domain.APIVersion{
		{ID: "v1", Name: "1.0.0", Label: "1.0.0"},
		{ID: "v2", Name: "2.0.0", Label: "2.0.0"},
		{ID: "v3", Name: "3.0.0", Label: "3.0.0"},
	}
	for _, id := range []string{"v1", "v2", "v3"} {
		h.client.schemas[id] = domain.Schema{
			ID:       "s-" + id,
			Type:     "openapi3",
			Language: "json",
			Content:  `{"openapi":"3.0.0","info":{"title":"` + id + `"}}`,
		}
	}
	h.host.choices = []int{0, 0}
}

func transportFailure(path string) error {
	return &apperrors.TransportError{Op: http.MethodGet, URL: path, Err: context.DeadlineExceeded}
}
