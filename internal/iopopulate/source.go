package iopopulate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/p1data/p1db/internal/iofs"
	"github.com/p1data/p1db/pkg/reconcile"
	"github.com/p1data/p1db/pkg/score"
	"github.com/p1data/p1db/pkg/sources"
)

// processSource reads one source into col and returns the number of
// source records it had. Statistics records are scored, registry shaped
// records are kept for enrichment only.
func (p *populator) processSource(
	ctx context.Context,
	year int,
	source sources.DataSourceConfig,
	col *collected,
) (int, error) {
	shape, err := source.ParsedShape()
	if err != nil {
		return 0, SourceDecodeError(source.ID, err)
	}

	srcs, err := p.read(ctx, source)
	if err != nil {
		return 0, err
	}

	rc := reconcile.New(year)
	for i, src := range srcs {
		sh := shape
		if sh == reconcile.ShapeUnknown {
			sh = reconcile.DetectShape(src)
		}

		rec, issues, err := rc.Reconcile(src)
		if errors.Is(err, reconcile.ErrNoName) {
			col.report.Skipped++
			slog.Warn("Skipping source record without a name",
				"data_source_id", source.ID, "index", i)
			continue
		}
		for _, v := range issues {
			slog.Warn("Reconciliation issue",
				"data_source_id", source.ID, "issue", v.String())
		}
		col.report.Issues += len(issues)

		if sh == reconcile.ShapeRegistry {
			if prev, ok := col.enrich[rec.Key]; ok {
				rec = reconcile.Merge(prev, rec)
			}
			col.enrich[rec.Key] = rec
			continue
		}

		score.Apply(&rec)
		col.stats = append(col.stats, rec)
	}
	return len(srcs), nil
}

// read returns decoded records of a source file or of the registry.
func (p *populator) read(
	ctx context.Context,
	source sources.DataSourceConfig,
) ([]reconcile.Source, error) {
	if source.Registry {
		if p.registry == nil {
			return nil, NoRegistryError(source.ID)
		}
		return p.registry.Schools(ctx)
	}

	data, err := iofs.ReadFile(source.Path)
	if err != nil {
		return nil, err
	}
	res, err := reconcile.Decode(data)
	if err != nil {
		return nil, SourceDecodeError(source.ID, err)
	}
	return res, nil
}
