package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shhac/schemadesk/internal/domain"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/remote"
	"github.com/shhac/schemadesk/internal/schema"
)

// PublishActive uploads the active document as the schema selected in sess.
// Without an open document it fails before any request is made.
func (o *Orchestrator) PublishActive(ctx context.Context, sess domain.Session) error {
	content, ok := o.host.ActiveDocument()
	if !ok {
		return apperrors.ErrNoActiveDocument
	}
	if !sess.HasSelection() {
		return apperrors.ErrNoSelection
	}
	if err := requireKey(sess); err != nil {
		return err
	}

	end, err := o.begin(FlowPublish)
	if err != nil {
		return err
	}
	defer end()

	done := o.host.Progress("Uploading the schema to Postman")
	err = o.publish(ctx, sess.APIKey, remote.PublishRequest{
		APIID:     sess.API.ID,
		VersionID: sess.Version.ID,
		SchemaID:  sess.Schema.ID,
		Type:      sess.Schema.Type,
		Language:  sess.Schema.Language,
		Content:   content,
	})
	done()
	if err != nil {
		return fmt.Errorf("publish %s %s: %w", sess.API.Name, sess.Version.Name, err)
	}

	o.flowLogger(FlowPublish, sess).Info("published schema",
		slog.String("api_id", sess.API.ID),
		slog.String("version_id", sess.Version.ID),
		slog.Int("bytes", len(content)))
	o.host.Info("Successfully published the updated schema to Postman!")
	return nil
}

// SyncVersionToRemote publishes the mirrored file of one version after
// confirmation.
func (o *Orchestrator) SyncVersionToRemote(ctx context.Context, sess domain.Session, versionID string) error {
	if err := requireKey(sess); err != nil {
		return err
	}
	meta, err := o.store.Metadata(versionID)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Publish changes to API `%s` (version: %s) to Postman?", meta.APIName, meta.VersionName)
	if err := o.confirm(ctx, msg); err != nil {
		return err
	}

	end, err := o.begin(FlowPushVersion)
	if err != nil {
		return err
	}
	defer end()

	done := o.host.Progress("Uploading the schema to Postman")
	err = o.push(ctx, sess.APIKey, versionID, meta)
	done()
	if err != nil {
		return fmt.Errorf("push %s %s: %w", meta.APIName, meta.VersionName, err)
	}

	o.flowLogger(FlowPushVersion, sess).Info("pushed version",
		slog.String("version_id", versionID),
		slog.String("file", meta.FilePath))
	o.host.Info("Successfully published updated schema to Postman!")
	return nil
}

// SyncAPIToRemote publishes the mirrored file of every cached version of an
// API after one confirmation.
func (o *Orchestrator) SyncAPIToRemote(ctx context.Context, sess domain.Session, api domain.Record) (Report, error) {
	if err := requireKey(sess); err != nil {
		return Report{}, err
	}
	versions, err := o.cachedVersions(api)
	if err != nil {
		return Report{}, err
	}

	msg := fmt.Sprintf("Publish all the versions of the API `%s` to Postman?", api.Name)
	if err := o.confirm(ctx, msg); err != nil {
		return Report{}, err
	}

	end, err := o.begin(FlowPushAPI)
	if err != nil {
		return Report{}, err
	}
	defer end()

	logger := o.flowLogger(FlowPushAPI, sess)
	done := o.host.Progress("Uploading the API to Postman")
	report := o.fanOut(ctx, logger, versions, func(ctx context.Context, v domain.Record) error {
		meta, err := o.store.Metadata(v.ID)
		if err != nil {
			return err
		}
		return o.push(ctx, sess.APIKey, v.ID, meta)
	})
	done()

	if err := report.Err(); err != nil {
		return report, err
	}
	o.host.Info("Successfully published API to Postman!")
	return report, nil
}

// push publishes the mirrored file of a version
func (o *Orchestrator) push(ctx context.Context, apiKey, versionID string, meta domain.VersionMeta) error {
	content, err := o.files.Read(meta.FilePath)
	if err != nil {
		return err
	}
	return o.publish(ctx, apiKey, remote.PublishRequest{
		APIID:     meta.APIID,
		VersionID: versionID,
		SchemaID:  meta.SchemaID,
		Type:      meta.SchemaType,
		Language:  meta.SchemaLanguage,
		Content:   content,
	})
}

// publish validates and uploads one schema body. Both a transport failure
// and a rejected request are errors.
func (o *Orchestrator) publish(ctx context.Context, apiKey string, req remote.PublishRequest) error {
	if req.SchemaID == "" {
		return apperrors.ErrNoSchemaID
	}
	if o.cfg.ValidateBeforePublish {
		if _, err := schema.Validate(req.Language, req.Content); err != nil {
			return err
		}
	}

	result, err := o.client.PublishSchema(ctx, apiKey, req)
	if err != nil {
		return err
	}
	return result.Err()
}
