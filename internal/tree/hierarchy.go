package tree

import (
	"log/slog"
	"sync"

	"github.com/shhac/schemadesk/internal/domain"
)

// Lister is the read side of the keyed list store
type Lister interface {
	Get(key string) ([]domain.Record, error)
	Workspaces() ([]domain.Record, error)
}

// HierarchyProvider serves the workspace > API > version tree out of the
// store and fans out refresh and select notifications to its subscribers.
type HierarchyProvider struct {
	store  Lister
	logger *slog.Logger

	mu        sync.Mutex
	onRefresh []func()
	onSelect  []func(versionID string)
}

// NewHierarchyProvider creates a provider reading from store
func NewHierarchyProvider(store Lister, logger *slog.Logger) *HierarchyProvider {
	return &HierarchyProvider{
		store:  store,
		logger: logger,
	}
}

// Children returns the records below node. A nil node is the root and
// yields the workspace list. Versions have no children.
func (p *HierarchyProvider) Children(node *domain.Record) ([]domain.Record, error) {
	if node == nil {
		return p.store.Workspaces()
	}
	if node.Kind == domain.KindAPIVersion {
		return []domain.Record{}, nil
	}
	return p.store.Get(node.ID)
}

// Present maps a record to its view model
func (p *HierarchyProvider) Present(node domain.Record) Item {
	return Present(node)
}

// OnRefresh registers fn to run whenever the tree content changes
func (p *HierarchyProvider) OnRefresh(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onRefresh = append(p.onRefresh, fn)
}

// Refresh notifies subscribers that the store changed
func (p *HierarchyProvider) Refresh() {
	p.mu.Lock()
	subs := append([]func(){}, p.onRefresh...)
	p.mu.Unlock()

	p.logger.Debug("tree refresh", slog.Int("subscribers", len(subs)))
	for _, fn := range subs {
		fn()
	}
}

// OnSelect registers fn to run when a version node is activated
func (p *HierarchyProvider) OnSelect(fn func(versionID string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSelect = append(p.onSelect, fn)
}

// Select runs the command bound to node, if any. Only versions carry one.
func (p *HierarchyProvider) Select(node domain.Record) {
	item := Present(node)
	if item.Command == nil || item.Command.Name != CommandOpenVersion {
		return
	}

	p.mu.Lock()
	subs := append([]func(string){}, p.onSelect...)
	p.mu.Unlock()

	for _, fn := range subs {
		fn(item.Command.Args[0])
	}
}
