package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shhac/schemadesk/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Failure is one version that did not complete
type Failure struct {
	VersionID   string
	VersionName string
	Err         error
}

// Report is the joined outcome of a per-version fan-out. Versions that
// succeeded stay applied even when others failed.
type Report struct {
	Total     int
	Succeeded int
	Failures  []Failure
}

// OK reports whether every version succeeded
func (r Report) OK() bool {
	return len(r.Failures) == 0 && r.Succeeded == r.Total
}

// Err returns nil when every version succeeded, otherwise an error joining
// each version's failure.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("version %s: %w", f.VersionName, f.Err))
	}
	return fmt.Errorf("%d of %d versions failed: %w", len(r.Failures), r.Total, errors.Join(errs...))
}

// fanOut runs fn for every version, at most cfg.FanoutLimit at a time, and
// returns once all of them have finished. A failing version never stops the
// others.
func (o *Orchestrator) fanOut(ctx context.Context, logger *slog.Logger, versions []domain.Record, fn func(context.Context, domain.Record) error) Report {
	results := make([]error, len(versions))

	var g errgroup.Group
	g.SetLimit(o.cfg.FanoutLimit)
	for i, v := range versions {
		g.Go(func() error {
			results[i] = fn(ctx, v)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Total: len(versions)}
	for i, err := range results {
		if err == nil {
			report.Succeeded++
			continue
		}
		logger.Warn("version failed",
			slog.String("version_id", versions[i].ID),
			slog.String("version", versions[i].Name),
			slog.Any("error", err))
		report.Failures = append(report.Failures, Failure{
			VersionID:   versions[i].ID,
			VersionName: versions[i].Name,
			Err:         err,
		})
	}

	logger.Info("fan-out joined",
		slog.Int("total", report.Total),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", len(report.Failures)))
	return report
}
