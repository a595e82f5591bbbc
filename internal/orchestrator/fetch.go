package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shhac/schemadesk/internal/domain"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/storage"
)

// FetchAll walks the user through picking a workspace and an API, caches
// both, then downloads the schema of every version of the API into the
// mirror. The report covers the per-version downloads.
func (o *Orchestrator) FetchAll(ctx context.Context, sess domain.Session) (Report, error) {
	if err := requireKey(sess); err != nil {
		return Report{}, err
	}
	end, err := o.begin(FlowFetchAll)
	if err != nil {
		return Report{}, err
	}
	defer end()

	logger := o.flowLogger(FlowFetchAll, sess)

	done := o.host.Progress("Fetching your workspaces")
	workspaces, err := o.client.ListWorkspaces(ctx, sess.APIKey)
	done()
	if err != nil {
		return Report{}, fmt.Errorf("list workspaces: %w", err)
	}
	if len(workspaces) == 0 {
		return Report{}, apperrors.Empty("workspaces")
	}

	idx, err := o.host.Choose(ctx, "Select the workspace", lo.Map(workspaces, func(ws domain.Workspace, _ int) string {
		return ws.Label
	}))
	if err != nil {
		return Report{}, err
	}
	sess.Workspace = workspaces[idx]

	done = o.host.Progress("Fetching APIs in the selected workspace")
	apis, err := o.client.ListAPIs(ctx, sess.APIKey, sess.Workspace)
	done()
	if err != nil {
		return Report{}, fmt.Errorf("list APIs: %w", err)
	}
	if len(apis) == 0 {
		return Report{}, apperrors.Empty("APIs")
	}
	if err := o.store.Append(storage.RootKey, domain.WorkspaceRecord(sess.Workspace), domain.KindWorkspace); err != nil {
		return Report{}, err
	}

	idx, err = o.host.Choose(ctx, "Select an API", lo.Map(apis, func(api domain.API, _ int) string {
		return api.Label
	}))
	if err != nil {
		return Report{}, err
	}
	sess.API = apis[idx]
	if err := o.store.Append(sess.Workspace.ID, domain.APIRecord(sess.API), domain.KindAPI); err != nil {
		return Report{}, err
	}

	done = o.host.Progress("Fetching versions of the selected API")
	versions, err := o.client.ListVersions(ctx, sess.APIKey, sess.API)
	done()
	if err != nil {
		return Report{}, fmt.Errorf("list versions: %w", err)
	}
	records := lo.Map(versions, func(v domain.APIVersion, _ int) domain.Record {
		return domain.VersionRecord(v)
	})
	if err := o.store.SetList(sess.API.ID, records, domain.KindAPIVersion); err != nil {
		return Report{}, err
	}
	o.tree.Refresh()
	if len(versions) == 0 {
		return Report{}, apperrors.Empty("API versions")
	}

	logger.Info("fetching schemas",
		slog.String("workspace", sess.Workspace.Name),
		slog.String("api", sess.API.Name),
		slog.Int("versions", len(versions)))

	done = o.host.Progress("Fetching schemas of the API")
	report := o.fanOut(ctx, logger, records, func(ctx context.Context, v domain.Record) error {
		return o.download(ctx, sess.APIKey, sess.API, v.APIVersion())
	})
	done()

	if err := report.Err(); err != nil {
		return report, err
	}
	o.host.Info(fmt.Sprintf("Fetched %d versions of %s", report.Succeeded, sess.API.Name))
	return report, nil
}

// download fetches one version's schema into a fresh mirror file and records
// its metadata. Nothing is written when the fetch fails.
func (o *Orchestrator) download(ctx context.Context, apiKey string, api domain.API, version domain.APIVersion) error {
	schema, err := o.client.FetchSchema(ctx, apiKey, api.ID, version.ID)
	if err != nil {
		return err
	}

	rel, err := o.files.Write(api.Name, version.Name, schema.Language, schema.Content)
	if err != nil {
		return err
	}
	if err := o.store.PutMetadata(version.ID, domain.MetaFor(api, version, schema, rel)); err != nil {
		return err
	}
	o.tree.Refresh()
	return nil
}

// pull refreshes an already mirrored version in place. The stored file path
// is kept; the schema fields of the metadata are replaced.
func (o *Orchestrator) pull(ctx context.Context, apiKey, versionID string, meta domain.VersionMeta) error {
	schema, err := o.client.FetchSchema(ctx, apiKey, meta.APIID, versionID)
	if err != nil {
		return err
	}
	if err := o.files.Overwrite(meta.FilePath, schema.Content); err != nil {
		return err
	}

	meta.SchemaID = schema.ID
	meta.SchemaType = schema.Type
	meta.SchemaLanguage = schema.Language
	return o.store.PutMetadata(versionID, meta)
}

// SyncVersionFromRemote replaces the local copy of one version with the
// remote schema after confirmation.
func (o *Orchestrator) SyncVersionFromRemote(ctx context.Context, sess domain.Session, versionID string) error {
	if err := requireKey(sess); err != nil {
		return err
	}
	meta, err := o.store.Metadata(versionID)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Pull changes to API `%s` (version: %s) from Postman? Your local changes will be lost.", meta.APIName, meta.VersionName)
	if err := o.confirm(ctx, msg); err != nil {
		return err
	}

	end, err := o.begin(FlowPullVersion)
	if err != nil {
		return err
	}
	defer end()

	done := o.host.Progress("Fetching schema from Postman")
	err = o.pull(ctx, sess.APIKey, versionID, meta)
	done()
	if err != nil {
		return fmt.Errorf("pull %s %s: %w", meta.APIName, meta.VersionName, err)
	}

	o.flowLogger(FlowPullVersion, sess).Info("pulled version",
		slog.String("version_id", versionID),
		slog.String("file", meta.FilePath))
	o.tree.Refresh()
	o.host.Info("Successfully fetched schema from Postman!")
	return nil
}

// SyncAPIFromRemote pulls every cached version of an API after one
// confirmation. Versions that succeed stay applied when others fail.
func (o *Orchestrator) SyncAPIFromRemote(ctx context.Context, sess domain.Session, api domain.Record) (Report, error) {
	if err := requireKey(sess); err != nil {
		return Report{}, err
	}
	versions, err := o.cachedVersions(api)
	if err != nil {
		return Report{}, err
	}

	msg := fmt.Sprintf("Pull changes to all versions of API `%s` from Postman? Your local changes will be lost.", api.Name)
	if err := o.confirm(ctx, msg); err != nil {
		return Report{}, err
	}

	end, err := o.begin(FlowPullAPI)
	if err != nil {
		return Report{}, err
	}
	defer end()

	logger := o.flowLogger(FlowPullAPI, sess)
	done := o.host.Progress("Fetching API from Postman")
	report := o.fanOut(ctx, logger, versions, func(ctx context.Context, v domain.Record) error {
		meta, err := o.store.Metadata(v.ID)
		if err != nil {
			return err
		}
		return o.pull(ctx, sess.APIKey, v.ID, meta)
	})
	done()
	o.tree.Refresh()

	if err := report.Err(); err != nil {
		return report, err
	}
	o.host.Info("Successfully fetched API from Postman!")
	return report, nil
}

// OpenVersion loads the mirrored schema of a version and returns it together
// with a session selecting that version for publishing.
func (o *Orchestrator) OpenVersion(_ context.Context, sess domain.Session, versionID string) (Document, error) {
	meta, err := o.store.Metadata(versionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Document{}, fmt.Errorf("version %s has not been fetched yet: %w", versionID, err)
		}
		return Document{}, err
	}

	content, err := o.files.Read(meta.FilePath)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Session: sess.WithSelection(versionID, meta),
		Path:    meta.FilePath,
		Content: content,
	}, nil
}

// Document is a mirrored schema opened for editing
type Document struct {
	Session domain.Session
	Path    string
	Content string
}

func (o *Orchestrator) cachedVersions(api domain.Record) ([]domain.Record, error) {
	versions, err := o.store.Get(api.ID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, apperrors.Empty("API versions")
	}
	return versions, nil
}
