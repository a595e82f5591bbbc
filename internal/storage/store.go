package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"
	"github.com/shhac/schemadesk/internal/domain"
	apperrors "github.com/shhac/schemadesk/internal/errors"
)

const (
	// RootKey holds the list of fetched workspaces.
	RootKey = "root-workspaces"

	metaPrefix = "meta:"
)

// Store is the keyed list cache backing the API tree. Each key maps to an
// ordered list of records unique by id: workspaces under RootKey, APIs under
// their workspace id, versions under their API id. Version metadata lives in
// a separate key space.
type Store struct {
	backend Backend
	logger  *slog.Logger
	mu      sync.Mutex
}

// NewStore creates a store on top of the given backend
func NewStore(backend Backend, logger *slog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// Get returns the list stored under key. A missing key reads as an empty list.
func (s *Store) Get(key string) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.get(key)
}

// Workspaces returns the root workspace list
func (s *Store) Workspaces() ([]domain.Record, error) {
	return s.Get(RootKey)
}

// SetList stamps every record with kind and replaces the list under key.
func (s *Store) SetList(key string, list []domain.Record, kind domain.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamped := stamp(list, kind)
	if err := s.put(key, stamped); err != nil {
		return err
	}

	s.logger.Debug("set list",
		slog.String("key", key),
		slog.String("kind", string(kind)),
		slog.Int("count", len(stamped)))
	return nil
}

// Append stamps record with kind, appends it to the list under key and drops
// later duplicates by id, so the first inserted entry wins.
func (s *Store) Append(key string, record domain.Record, kind domain.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.get(key)
	if err != nil {
		return err
	}

	record.Kind = kind
	list = lo.UniqBy(append(list, record), func(r domain.Record) string {
		return r.ID
	})
	if err := s.put(key, list); err != nil {
		return err
	}

	s.logger.Debug("appended record",
		slog.String("key", key),
		slog.String("id", record.ID),
		slog.Int("count", len(list)))
	return nil
}

// Clear removes the mapping for key entirely
func (s *Store) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backend.Delete(key)
}

// ClearAll removes the workspace list and every API list, version list and
// version metadata reachable from it.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	workspaces, err := s.get(RootKey)
	if err != nil {
		return err
	}

	var keys []string
	for _, ws := range workspaces {
		apis, err := s.get(ws.ID)
		if err != nil {
			return err
		}
		for _, api := range apis {
			versions, err := s.get(api.ID)
			if err != nil {
				return err
			}
			for _, v := range versions {
				keys = append(keys, metaKey(v.ID))
			}
			keys = append(keys, api.ID)
		}
		keys = append(keys, ws.ID)
	}
	keys = append(keys, RootKey)

	for _, key := range keys {
		if err := s.backend.Delete(key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}

	s.logger.Info("cleared store", slog.Int("keys", len(keys)))
	return nil
}

// Metadata returns the stored metadata for an API version.
func (s *Store) Metadata(versionID string) (domain.VersionMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta domain.VersionMeta
	key := metaKey(versionID)
	raw, ok, err := s.backend.Get(key)
	if err != nil {
		return meta, err
	}
	if !ok {
		return meta, fmt.Errorf("metadata for version %s: %w", versionID, apperrors.ErrNotFound)
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return meta, fmt.Errorf("decode %s: %w: %v", key, apperrors.ErrCorruptState, err)
	}
	return meta, nil
}

// PutMetadata overwrites the metadata for an API version
func (s *Store) PutMetadata(versionID string, meta domain.VersionMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := s.backend.Set(metaKey(versionID), string(data)); err != nil {
		return err
	}

	s.logger.Debug("stored version metadata",
		slog.String("version_id", versionID),
		slog.String("file", meta.FilePath))
	return nil
}

// get decodes the list under key. Caller holds s.mu.
func (s *Store) get(key string) ([]domain.Record, error) {
	raw, ok, err := s.backend.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []domain.Record{}, nil
	}

	var list []domain.Record
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", key, apperrors.ErrCorruptState, err)
	}
	if list == nil {
		list = []domain.Record{}
	}
	return list, nil
}

// put encodes list under key. Caller holds s.mu.
func (s *Store) put(key string, list []domain.Record) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal list: %w", err)
	}
	return s.backend.Set(key, string(data))
}

func stamp(list []domain.Record, kind domain.Kind) []domain.Record {
	out := make([]domain.Record, len(list))
	for i, r := range list {
		r.Kind = kind
		out[i] = r
	}
	return out
}

func metaKey(versionID string) string {
	return metaPrefix + versionID
}
