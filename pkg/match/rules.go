package match

import (
	"strings"

	"github.com/p1data/p1db/pkg/school"
)

// Suffixes are institutional endings removed by SuffixStripped, tried in
// this order. Only the first matching suffix is removed.
var Suffixes = []string{
	" school (primary)",
	" primary school",
	" school",
	" primary",
	" (primary)",
	" (pri)",
	" pri",
}

// stopWords never count as evidence in word based rules.
var stopWords = map[string]struct{}{
	"primary": {}, "school": {}, "pri": {}, "the": {},
}

// Alias is a known family of name variants, written in key form.
type Alias struct {
	Canonical string
	Variants  []string
}

// Aliases is the ordered alias table used by the Pattern rule.
var Aliases = []Alias{
	{Canonical: "chij", Variants: []string{
		"convent_of_the_holy_infant_jesus",
		"convent_of_holy_infant_jesus",
		"holy_infant_jesus",
	}},
	{Canonical: "saint", Variants: []string{"st"}},
	{Canonical: "anglo_chinese_school", Variants: []string{"acs"}},
	{Canonical: "methodist_girls_school", Variants: []string{"mgs"}},
	{Canonical: "ang_mo_kio", Variants: []string{"amk"}},
	{Canonical: "singapore_chinese_girls", Variants: []string{"scgs"}},
}

const minTokenLen = 3

type query struct {
	lower    string
	key      string
	stripped string
}

func newQuery(s string) query {
	lower := strings.ToLower(strings.TrimSpace(s))
	return query{
		lower:    lower,
		key:      school.NormalizeKey(lower),
		stripped: stripSuffix(lower),
	}
}

func stripSuffix(s string) string {
	for _, v := range Suffixes {
		if res, ok := strings.CutSuffix(s, v); ok && res != "" {
			return strings.TrimSpace(res)
		}
	}
	return s
}

var cleanReplacer = strings.NewReplacer(
	"'", "",
	"(", " ",
	")", " ",
	".", " ",
	",", " ",
	"&", " ",
	"-", " ",
	"_", " ",
)

// clean lowercases s and reduces punctuation so that word comparisons do
// not depend on it.
func clean(s string) string {
	s = cleanReplacer.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

func words(s string) []string {
	var res []string
	for _, w := range strings.Fields(clean(s)) {
		if len(w) < minTokenLen {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		res = append(res, w)
	}
	return res
}

func (q query) exactKey(records []school.Record) (int, bool) {
	for i, r := range records {
		if r.Key == q.key {
			return i, true
		}
	}
	return -1, false
}

// substring leaves names that differ from the query only by an
// institutional suffix to SuffixStripped.
func (q query) substring(records []school.Record) (int, bool) {
	for i, r := range records {
		name := strings.ToLower(strings.TrimSpace(r.Name))
		if name == "" {
			continue
		}
		if !strings.Contains(name, q.lower) && !strings.Contains(q.lower, name) {
			continue
		}
		if stripSuffix(name) == q.stripped {
			continue
		}
		return i, true
	}
	return -1, false
}

func (q query) suffixStripped(records []school.Record) (int, bool) {
	if q.stripped == "" {
		return -1, false
	}
	strippedKey := school.NormalizeKey(q.stripped)
	for i, r := range records {
		name := stripSuffix(strings.ToLower(strings.TrimSpace(r.Name)))
		if name == q.stripped || r.Key == strippedKey {
			return i, true
		}
	}
	for i, r := range records {
		name := stripSuffix(strings.ToLower(strings.TrimSpace(r.Name)))
		if name == "" {
			continue
		}
		if strings.Contains(name, q.stripped) || strings.Contains(q.stripped, name) {
			return i, true
		}
	}
	return -1, false
}

// wordOverlap first looks for a record whose lowercased name holds every
// query word, then for one holding at least 80% of them (rounded down, at
// least one). Names keep their punctuation here, TokenInKey covers the
// punctuation-free form.
func (q query) wordOverlap(records []school.Record) (int, bool) {
	ws := words(q.stripped)
	if len(ws) == 0 {
		return -1, false
	}
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = strings.ToLower(r.Name)
	}
	count := func(name string) int {
		var res int
		for _, w := range ws {
			if strings.Contains(name, w) {
				res++
			}
		}
		return res
	}

	for i, name := range names {
		if count(name) == len(ws) {
			return i, true
		}
	}
	need := max(1, len(ws)*8/10)
	for i, name := range names {
		if count(name) >= need {
			return i, true
		}
	}
	return -1, false
}

func (q query) tokenInKey(records []school.Record) (int, bool) {
	ws := words(school.NormalizeKey(q.stripped))
	if len(ws) == 0 {
		return -1, false
	}
	for i, r := range records {
		for _, w := range ws {
			if strings.Contains(r.Key, w) {
				return i, true
			}
		}
	}
	return -1, false
}

// pattern applies only to queries that mention a known alias. Both query
// and record names are rewritten to canonical alias forms and compared,
// first for equality and then for containment.
func (q query) pattern(records []school.Record) (int, bool) {
	qk := school.NormalizeKey(q.stripped)
	if !mentionsAlias(qk) {
		return -1, false
	}
	qk = canonicalize(qk)

	keys := make([]string, len(records))
	for i, r := range records {
		name := stripSuffix(strings.ToLower(strings.TrimSpace(r.Name)))
		keys[i] = canonicalize(school.NormalizeKey(name))
	}
	for i, k := range keys {
		if k == qk {
			return i, true
		}
	}
	for i, k := range keys {
		if k == "" {
			continue
		}
		if strings.Contains(k, qk) || strings.Contains(qk, k) {
			return i, true
		}
	}
	return -1, false
}

func mentionsAlias(key string) bool {
	padded := "_" + key + "_"
	for _, a := range Aliases {
		if strings.Contains(padded, "_"+a.Canonical+"_") {
			return true
		}
		for _, v := range a.Variants {
			if strings.Contains(padded, "_"+v+"_") {
				return true
			}
		}
	}
	return false
}

func canonicalize(key string) string {
	res := "_" + key + "_"
	for _, a := range Aliases {
		for _, v := range a.Variants {
			res = strings.ReplaceAll(res, "_"+v+"_", "_"+a.Canonical+"_")
		}
	}
	return strings.Trim(res, "_")
}
