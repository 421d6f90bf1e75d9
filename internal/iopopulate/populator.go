// Package iopopulate implements the Populator interface. It reads the
// sources listed in sources.yaml, turns them into scored school records,
// enriches them with registry and geocoding data and replaces the content
// of the store.
package iopopulate

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/p1data/p1db/internal/iosources"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/geo"
	"github.com/p1data/p1db/pkg/lifecycle"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/sources"
	"github.com/p1data/p1db/pkg/store"
)

// populator implements the Populator interface.
type populator struct {
	store    store.Store
	geocoder geo.Geocoder
	registry sources.Registry
}

// New creates a new Populator. The geocoder and the registry are optional,
// without them records are stored as read from source files.
func New(
	st store.Store,
	gc geo.Geocoder,
	reg sources.Registry,
) lifecycle.Populator {
	return &populator{store: st, geocoder: gc, registry: reg}
}

// collected keeps what sources gave so far.
type collected struct {
	stats  []school.Record
	enrich map[string]school.Record
	report lifecycle.Report
}

// Populate imports all selected sources and replaces stored records.
func (p *populator) Populate(
	ctx context.Context,
	cfg *config.Config,
) (lifecycle.Report, error) {
	var res lifecycle.Report
	if p.store == nil {
		return res, NoStoreError()
	}

	startTime := time.Now()
	slog.Info("Starting database population")

	sourcesConfig, err := iosources.New(cfg).Load()
	if err != nil {
		return res, err
	}
	for _, w := range sourcesConfig.Warnings {
		slog.Warn("Sources configuration", "field", w.Field, "message", w.Message)
	}

	sourcesToProcess, err := collectSources(sourcesConfig, cfg.Populate.SourceIDs)
	if err != nil {
		return res, err
	}

	col, err := p.processSources(ctx, sourcesConfig.Year, sourcesToProcess)
	if err != nil {
		return col.report, err
	}
	res = col.report

	records, dups := store.Dedupe(col.stats)
	for _, d := range dups {
		slog.Warn("Duplicate school record, keeping the last one",
			"key", d.Key, "previous", d.Previous, "current", d.Current)
	}
	res.Duplicates = len(dups)

	records = enrich(records, col.enrich)

	if cfg.Populate.GeocodingEnabled() && p.geocoder != nil {
		gn.Info("Geocoding schools without coordinates...")
		res.Geocoded, err = geocode(ctx, p.geocoder, records, cfg.JobsNumber)
		if err != nil {
			return res, err
		}
	}

	if len(records) == 0 {
		return res, NoRecordsError(len(sourcesToProcess))
	}

	res.Records, err = p.store.Replace(ctx, records)
	if err != nil {
		return res, err
	}

	dur := gnfmt.TimeString(time.Since(startTime).Seconds())
	slog.Info("Population complete",
		"sources", res.Sources,
		"records", res.Records,
		"duplicates", res.Duplicates,
		"issues", res.Issues,
		"skipped", res.Skipped,
		"geocoded", res.Geocoded,
		"duration", dur,
	)
	gn.Info(`Population complete
Stored <em>%s</em> schools from %d sources (%s geocoded).
Issues: %s, skipped records: %s, duplicates: %s.
Elapsed time: <em>%s</em>
`,
		humanize.Comma(int64(res.Records)),
		res.Sources,
		humanize.Comma(int64(res.Geocoded)),
		humanize.Comma(int64(res.Issues)),
		humanize.Comma(int64(res.Skipped)),
		humanize.Comma(int64(res.Duplicates)),
		dur,
	)
	return res, nil
}

// collectSources keeps sources with requested IDs, or all of them when no
// IDs are given.
func collectSources(
	sourcesConfig *sources.SourcesConfig,
	ids []int,
) ([]sources.DataSourceConfig, error) {
	if len(ids) == 0 {
		slog.Info("Processing all sources",
			"count", len(sourcesConfig.DataSources))
		return sourcesConfig.DataSources, nil
	}

	var res []sources.DataSourceConfig
	for _, src := range sourcesConfig.DataSources {
		if slices.Contains(ids, src.ID) {
			res = append(res, src)
		}
	}
	if len(res) == 0 {
		return nil, NoSourcesError(ids)
	}
	return res, nil
}

func (p *populator) processSources(
	ctx context.Context,
	year int,
	sourcesToProcess []sources.DataSourceConfig,
) (collected, error) {
	col := collected{enrich: make(map[string]school.Record)}
	var errorCount int

	for _, source := range sourcesToProcess {
		if err := ctx.Err(); err != nil {
			return col, err
		}

		fmt.Println(strings.Repeat("─", 60))
		gn.Info("Data Source [%d]: %s", source.ID, source.Label())

		srcStart := time.Now()
		n, err := p.processSource(ctx, year, source, &col)
		if err != nil {
			errorCount++
			slog.Error("Failed to process source",
				"data_source_id", source.ID,
				"title", source.Label(),
				"error", err,
			)
			gn.PrintErrorMessage(err)
			continue
		}

		col.report.Sources++
		gn.Message("<em>Read %s records in %s</em>",
			humanize.Comma(int64(n)),
			gnfmt.TimeString(time.Since(srcStart).Seconds()))
	}

	if errorCount > 0 && col.report.Sources == 0 {
		return col, AllSourcesFailedError(errorCount)
	}
	if errorCount > 0 {
		slog.Warn("Some sources failed to process",
			"failed", errorCount,
			"succeeded", col.report.Sources)
	}
	return col, nil
}
