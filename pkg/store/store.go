// Package store defines the persistence contract for school records.
package store

import (
	"context"
	"slices"
	"strings"

	"github.com/p1data/p1db/pkg/school"
)

// Store keeps the canonical school records. Implementations live in
// internal/iostore.
type Store interface {
	// Replace removes every stored record and saves records instead, in
	// one transaction. It returns the number of saved records.
	Replace(ctx context.Context, records []school.Record) (int, error)

	// All returns every record sorted by key.
	All(ctx context.Context) ([]school.Record, error)

	// Get returns the record with the given key.
	Get(ctx context.Context, key string) (school.Record, bool, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}

// Duplicate describes a record that replaced an earlier one with the same
// key.
type Duplicate struct {
	Key      string
	Previous string
	Current  string
}

// Dedupe keeps the last record for every key and returns the result
// sorted by key, together with the replaced duplicates in input order.
func Dedupe(records []school.Record) ([]school.Record, []Duplicate) {
	idx := make(map[string]int, len(records))
	res := make([]school.Record, 0, len(records))
	var dups []Duplicate
	for _, r := range records {
		if i, ok := idx[r.Key]; ok {
			dups = append(dups, Duplicate{
				Key:      r.Key,
				Previous: res[i].Name,
				Current:  r.Name,
			})
			res[i] = r
			continue
		}
		idx[r.Key] = len(res)
		res = append(res, r)
	}
	SortByKey(res)
	return res, dups
}

// SortByKey sorts records by key in byte order.
func SortByKey(records []school.Record) {
	slices.SortFunc(records, func(a, b school.Record) int {
		return strings.Compare(a.Key, b.Key)
	})
}
