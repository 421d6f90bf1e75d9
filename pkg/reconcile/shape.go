package reconcile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/p1data/p1db/pkg/school"
)

// Shape is the layout of a source record.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeScraped
	ShapeCurated
	ShapeRegistry
)

var shapeNames = map[Shape]string{
	ShapeUnknown:  "unknown",
	ShapeScraped:  "scraped",
	ShapeCurated:  "curated",
	ShapeRegistry: "registry",
}

func (s Shape) String() string {
	if res, ok := shapeNames[s]; ok {
		return res
	}
	return shapeNames[ShapeUnknown]
}

// ParseShape converts a shape name from sources.yaml. The name "auto" (and
// the empty string) mean ShapeUnknown, which asks callers to detect the
// shape of every record.
func ParseShape(s string) (Shape, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" {
		return ShapeUnknown, nil
	}
	for k, v := range shapeNames {
		if v == s && k != ShapeUnknown {
			return k, nil
		}
	}
	return ShapeUnknown, fmt.Errorf("unknown source shape %q", s)
}

var (
	scrapedMarkers = []string{"vacancies", "applicants", "balloting", "balloting_details"}
	curatedMarkers = []string{"vacancy", "applied", "taken", "ballot_notes"}
)

// DetectShape guesses the layout of a source record from its field names.
func DetectShape(src Source) Shape {
	if src == nil {
		return ShapeUnknown
	}
	phases, _ := src["phases"].(map[string]any)
	for _, label := range slices.Sorted(maps.Keys(phases)) {
		ph, ok := phases[label].(map[string]any)
		if !ok {
			continue
		}
		if hasAny(ph, curatedMarkers) {
			return ShapeCurated
		}
		if hasAny(ph, scrapedMarkers) {
			return ShapeScraped
		}
	}
	switch {
	case hasAny(src, []string{"total_vacancies"}):
		return ShapeScraped
	case hasAny(src, []string{"total_vacancy"}) || phases != nil:
		return ShapeCurated
	case hasAny(src, []string{"school_name", "address", "postal_code"}):
		return ShapeRegistry
	}
	return ShapeUnknown
}

func hasAny(m map[string]any, fields []string) bool {
	_, _, ok := lookup(m, fields)
	return ok
}

// ErrNotJSON is returned by Decode for content that is not a JSON object or
// array.
var ErrNotJSON = errors.New("source content is not a JSON object or array")

// Decode splits the content of a source file into records. Accepted
// layouts are a bare array of records, {"schools": [...]}, a keyed object
// {"schools": {key: {...}}} or a keyed object at the top level. Keyed
// records without a name take the key as their name, non-object values of
// keyed layouts are skipped. Records of keyed objects come out in key order.
func Decode(data []byte) ([]Source, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode source: %w", err)
	}
	if m, ok := raw.(map[string]any); ok {
		if inner, ok := m["schools"]; ok {
			raw = inner
		} else if _, _, ok := lookup(m, nameFields); ok {
			return []Source{m}, nil
		}
	}

	switch v := raw.(type) {
	case []any:
		res := make([]Source, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("record %d is not an object", i)
			}
			res = append(res, m)
		}
		return res, nil
	case map[string]any:
		res := make([]Source, 0, len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			m, ok := v[k].(map[string]any)
			if !ok {
				// metadata such as "year" or "source"
				continue
			}
			if _, _, ok := lookup(m, nameFields); !ok {
				m["name"] = k
			}
			res = append(res, m)
		}
		return res, nil
	}
	return nil, ErrNotJSON
}

// Merge overlays contact and location fields of enrich onto base. Phase
// statistics, score and tier of base are never touched, and empty fields
// of enrich never overwrite present ones.
func Merge(base, enrich school.Record) school.Record {
	res := base
	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	pick(&res.Address, enrich.Address)
	pick(&res.PostalCode, enrich.PostalCode)
	pick(&res.Phone, enrich.Phone)
	pick(&res.Email, enrich.Email)
	pick(&res.Website, enrich.Website)
	pick(&res.MRTDesc, enrich.MRTDesc)
	pick(&res.BusDesc, enrich.BusDesc)
	if enrich.HasLocation() {
		lat, lng := *enrich.Latitude, *enrich.Longitude
		res.Latitude, res.Longitude = &lat, &lng
	}
	return res
}
