// Package orchestrator runs the user-facing fetch, publish and sync flows.
// Each flow is a straight sequence of remote calls, prompts and local writes
// with a single error boundary; per-version fan-outs are joined before the
// flow reports.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shhac/schemadesk/internal/domain"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/remote"
)

// Flow names, also used as re-entrancy guard keys
const (
	FlowFetchAll    = "fetch-all"
	FlowPublish     = "publish"
	FlowPullVersion = "pull-version"
	FlowPushVersion = "push-version"
	FlowPullAPI     = "pull-api"
	FlowPushAPI     = "push-api"
	FlowClearCache  = "clear-cache"
)

// DefaultFanoutLimit caps concurrent per-version requests
const DefaultFanoutLimit = 8

// Host is what a flow needs from the user interface
type Host interface {
	// APIKey returns the configured key, or "" when none is set
	APIKey() string
	// Choose asks the user to pick one of options and returns its index.
	// Dismissing the prompt returns errors.ErrUserCancelled.
	Choose(ctx context.Context, title string, options []string) (int, error)
	// Confirm asks a yes/no question about a destructive step
	Confirm(ctx context.Context, message string) (bool, error)
	// ActiveDocument returns the text being edited, if any
	ActiveDocument() (string, bool)
	// Info shows a transient success notification
	Info(message string)
	// Progress shows a busy indicator until the returned func is called
	Progress(message string) (done func())
}

// RemoteClient is the Postman API as used by the flows
type RemoteClient interface {
	ListWorkspaces(ctx context.Context, apiKey string) ([]domain.Workspace, error)
	ListAPIs(ctx context.Context, apiKey string, workspace domain.Workspace) ([]domain.API, error)
	ListVersions(ctx context.Context, apiKey string, api domain.API) ([]domain.APIVersion, error)
	FetchSchema(ctx context.Context, apiKey, apiID, versionID string) (domain.Schema, error)
	PublishSchema(ctx context.Context, apiKey string, req remote.PublishRequest) (remote.PublishResult, error)
}

// Store is the keyed list cache
type Store interface {
	Get(key string) ([]domain.Record, error)
	Append(key string, record domain.Record, kind domain.Kind) error
	SetList(key string, list []domain.Record, kind domain.Kind) error
	ClearAll() error
	Metadata(versionID string) (domain.VersionMeta, error)
	PutMetadata(versionID string, meta domain.VersionMeta) error
}

// Files is the local schema mirror
type Files interface {
	Write(apiName, versionName, language, content string) (string, error)
	Overwrite(rel, content string) error
	Read(rel string) (string, error)
}

// Refresher re-renders the tree views
type Refresher interface {
	Refresh()
}

// Config holds the tunables of the orchestrator
type Config struct {
	FanoutLimit           int
	ValidateBeforePublish bool
}

// Orchestrator wires the flows to their collaborators
type Orchestrator struct {
	client RemoteClient
	store  Store
	files  Files
	tree   Refresher
	host   Host
	logger *slog.Logger
	cfg    Config

	mu      sync.Mutex
	running map[string]bool
}

// New creates an orchestrator
func New(client RemoteClient, store Store, files Files, tree Refresher, host Host, logger *slog.Logger, cfg Config) *Orchestrator {
	if cfg.FanoutLimit <= 0 {
		cfg.FanoutLimit = DefaultFanoutLimit
	}
	return &Orchestrator{
		client:  client,
		store:   store,
		files:   files,
		tree:    tree,
		host:    host,
		logger:  logger,
		cfg:     cfg,
		running: make(map[string]bool),
	}
}

// NewSession starts a session with the host's current API key
func (o *Orchestrator) NewSession() domain.Session {
	return domain.NewSession(o.host.APIKey())
}

// Refresh re-renders the trees from the store
func (o *Orchestrator) Refresh() {
	o.tree.Refresh()
}

// ClearCache drops every cached list and version record after confirmation.
// Mirrored files are left on disk.
func (o *Orchestrator) ClearCache(ctx context.Context) error {
	ok, err := o.host.Confirm(ctx, "Remove all cached workspaces, APIs and versions? Files on disk are kept.")
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrUserCancelled
	}

	end, err := o.begin(FlowClearCache)
	if err != nil {
		return err
	}
	defer end()

	if err := o.store.ClearAll(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	o.tree.Refresh()
	o.host.Info("Cleared the local cache")
	return nil
}

// begin marks flow as running. The returned func ends it.
func (o *Orchestrator) begin(flow string) (func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running[flow] {
		return nil, fmt.Errorf("%s: %w", flow, apperrors.ErrFlowInProgress)
	}
	o.running[flow] = true
	return func() {
		o.mu.Lock()
		delete(o.running, flow)
		o.mu.Unlock()
	}, nil
}

func (o *Orchestrator) flowLogger(flow string, sess domain.Session) *slog.Logger {
	return o.logger.With(slog.String("flow", flow), slog.String("flow_id", sess.FlowID))
}

func requireKey(sess domain.Session) error {
	if sess.APIKey == "" {
		return apperrors.ErrMissingAPIKey
	}
	return nil
}

// confirm turns a declined prompt into ErrUserCancelled
func (o *Orchestrator) confirm(ctx context.Context, message string) error {
	ok, err := o.host.Confirm(ctx, message)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrUserCancelled
	}
	return nil
}
