package iopopulate

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync/atomic"

	"github.com/cheggaaa/pb/v3"
	"github.com/p1data/p1db/pkg/geo"
	"github.com/p1data/p1db/pkg/match"
	"github.com/p1data/p1db/pkg/reconcile"
	"github.com/p1data/p1db/pkg/school"
	"golang.org/x/sync/errgroup"
)

// enrichRules resolve registry names that differ from the statistics
// names, like "AI TONG SCHOOL" and "Ai Tong". Looser rules would attach
// contacts of one school to another.
var enrichRules = []match.Rule{match.ExactKey, match.Substring, match.SuffixStripped}

// enrich merges registry data into records. Registry entries are matched
// by key first, the rest by name. Every record takes at most one registry
// entry. Registry entries without statistics are dropped.
func enrich(
	records []school.Record,
	reg map[string]school.Record,
) []school.Record {
	if len(reg) == 0 {
		return records
	}
	done := make([]bool, len(records))
	var rest []school.Record
	for i := range records {
		if e, ok := reg[records[i].Key]; ok {
			records[i] = reconcile.Merge(records[i], e)
			done[i] = true
		}
	}
	byKey := make(map[string]struct{}, len(records))
	for _, r := range records {
		byKey[r.Key] = struct{}{}
	}
	for _, k := range slices.Sorted(maps.Keys(reg)) {
		if _, ok := byKey[k]; !ok {
			rest = append(rest, reg[k])
		}
	}

	var fuzzy int
	for _, e := range rest {
		var idx []int
		var cands []school.Record
		for i, r := range records {
			if !done[i] {
				idx = append(idx, i)
				cands = append(cands, r)
			}
		}
		if len(cands) == 0 {
			break
		}
		for _, rule := range enrichRules {
			j, ok := rule.Apply(e.Name, cands)
			if !ok {
				continue
			}
			i := idx[j]
			slog.Info("Matched registry school by name",
				"registry", e.Name,
				"school", records[i].Name,
				"rule", rule.String(),
			)
			records[i] = reconcile.Merge(records[i], e)
			done[i] = true
			fuzzy++
			break
		}
	}

	matched := len(reg) - len(rest) + fuzzy
	slog.Info("Merged registry data",
		"matched", matched,
		"by_name", fuzzy,
		"registry_only", len(reg)-matched,
	)
	return records
}

// geocode looks up coordinates of records without them, jobs requests at a
// time. Failed lookups are logged and leave the record unchanged. It
// returns the number of geocoded records.
func geocode(
	ctx context.Context,
	gc geo.Geocoder,
	records []school.Record,
	jobs int,
) (int, error) {
	var todo []int
	for i, r := range records {
		if !r.HasLocation() {
			todo = append(todo, i)
		}
	}
	if len(todo) == 0 {
		return 0, nil
	}

	bar := pb.Full.Start(len(todo))
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	locs := make([]*geo.Location, len(todo))
	var count atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for j, idx := range todo {
		r := records[idx]
		g.Go(func() error {
			defer bar.Increment()
			loc, err := gc.Geocode(gctx, query(r))
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("Cannot geocode school",
					"key", r.Key, "error", err)
				return nil
			}
			locs[j] = &loc
			count.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for j, idx := range todo {
		if loc := locs[j]; loc != nil {
			lat, lng := loc.Latitude, loc.Longitude
			records[idx].Latitude, records[idx].Longitude = &lat, &lng
			if records[idx].Address == "" {
				records[idx].Address = loc.Address
			}
		}
	}
	return int(count.Load()), nil
}

// query prefers the postal address, falling back to the school name.
func query(r school.Record) string {
	if r.PostalCode != "" {
		return r.PostalCode
	}
	if r.Address != "" {
		return r.Address
	}
	return r.Name
}
