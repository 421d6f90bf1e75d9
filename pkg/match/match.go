// Package match resolves a free-text school name to a canonical record.
//
// Rules are tried in a fixed order and the first rule that finds a record
// wins. Within a rule the first matching record in slice order wins, so the
// result depends only on the query and on the order of records.
package match

import (
	"github.com/p1data/p1db/pkg/school"
)

// Rule is one matching strategy.
type Rule int

const (
	// NoMatch is reported when no rule found a record.
	NoMatch Rule = iota

	// ExactKey compares the normalized query with record keys.
	ExactKey

	// Substring looks for the query inside a record name or a record name
	// inside the query, ignoring case.
	Substring

	// SuffixStripped removes institutional suffixes such as " primary
	// school" from both sides and compares again.
	SuffixStripped

	// WordOverlap requires the query words to occur in a record name.
	WordOverlap

	// TokenInKey accepts a record whose key contains any query word.
	TokenInKey

	// Pattern rewrites known name variants (CHIJ, St/Saint, ACS...) and
	// compares the rewritten forms.
	Pattern
)

// Rules lists all matching rules in precedence order.
var Rules = []Rule{
	ExactKey, Substring, SuffixStripped, WordOverlap, TokenInKey, Pattern,
}

var ruleNames = map[Rule]string{
	NoMatch:        "no_match",
	ExactKey:       "exact_key",
	Substring:      "substring",
	SuffixStripped: "suffix_stripped",
	WordOverlap:    "word_overlap",
	TokenInKey:     "token_in_key",
	Pattern:        "pattern",
}

func (r Rule) String() string {
	if res, ok := ruleNames[r]; ok {
		return res
	}
	return ruleNames[NoMatch]
}

// Apply runs a single rule against records and returns the index of the
// first matching record.
func (r Rule) Apply(query string, records []school.Record) (int, bool) {
	q := newQuery(query)
	if q.lower == "" {
		return -1, false
	}
	switch r {
	case ExactKey:
		return q.exactKey(records)
	case Substring:
		return q.substring(records)
	case SuffixStripped:
		return q.suffixStripped(records)
	case WordOverlap:
		return q.wordOverlap(records)
	case TokenInKey:
		return q.tokenInKey(records)
	case Pattern:
		return q.pattern(records)
	}
	return -1, false
}

// Matcher resolves names against a fixed set of records.
type Matcher struct {
	records []school.Record
}

// New creates a Matcher. Records are used in the given order, callers
// pass them sorted by key to get stable results.
func New(records []school.Record) *Matcher {
	return &Matcher{records: records}
}

// Records returns the records known to the matcher.
func (m *Matcher) Records() []school.Record {
	return m.records
}

// Match finds the record for a free-text school name. The returned rule
// tells which strategy succeeded. On failure the rule is NoMatch and the
// boolean is false.
func (m *Matcher) Match(query string) (school.Record, Rule, bool) {
	for _, r := range Rules {
		if i, ok := r.Apply(query, m.records); ok {
			return m.records[i], r, true
		}
	}
	return school.Record{}, NoMatch, false
}
