// Package reconcile turns loosely structured P1 source records into
// canonical school.Record values.
//
// Three source shapes are understood:
//
//   - scraped: per-phase "vacancies", "applicants", "balloting" and a
//     "balloting_details" object, as produced by the MOE page extractor;
//   - curated: per-phase "vacancy", "applied", "taken", "ballot_notes";
//   - registry: the government school directory (name, address, contacts),
//     without admission statistics.
//
// Field aliases are resolved once, here, against an explicit table.
// Nothing downstream of Reconcile ever sees a source-specific field name.
package reconcile

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/p1data/p1db/pkg/school"
)

// DefaultYear is the registration year assumed when neither the source
// record nor the Reconciler provides one.
const DefaultYear = 2024

// ErrNoName is returned for source records that do not carry a school name.
// Such a record cannot be keyed and is structurally invalid.
var ErrNoName = errors.New("source record has no school name")

// Source is a decoded JSON object describing one school.
type Source map[string]any

// Issue describes a data problem found during reconciliation. Issues never
// stop reconciliation, the offending value is replaced by its zero state.
type Issue struct {
	// Key of the school the issue belongs to.
	Key string

	// Phase is empty for record-level issues.
	Phase school.PhaseID

	// Field is the source field name that caused the issue.
	Field string

	// Reason is a human readable description.
	Reason string
}

func (i Issue) String() string {
	if i.Phase == "" {
		return fmt.Sprintf("%s: %s: %s", i.Key, i.Field, i.Reason)
	}
	return fmt.Sprintf("%s: %s.%s: %s", i.Key, i.Phase, i.Field, i.Reason)
}

// Reconciler converts Source values to school records.
type Reconciler struct {
	// Year is used for records that do not mention a year.
	Year int
}

// New creates a Reconciler for a registration year. Non-positive years
// fall back to DefaultYear.
func New(year int) Reconciler {
	if year <= 0 {
		year = DefaultYear
	}
	return Reconciler{Year: year}
}

// Reconcile converts src with DefaultYear as the fallback year.
func Reconcile(src Source) (school.Record, []Issue, error) {
	return New(DefaultYear).Reconcile(src)
}

// Reconcile converts one source record to the canonical form. The result
// always holds all canonical phases, missing ones in zero state. Malformed
// phases are zeroed and reported as issues. The only error is ErrNoName.
func (rc Reconciler) Reconcile(src Source) (school.Record, []Issue, error) {
	var issues []Issue
	name, _ := lookupString(src, nameFields)
	name = strings.TrimSpace(name)
	if name == "" {
		return school.Record{}, nil, ErrNoName
	}

	year := rc.Year
	if year <= 0 {
		year = DefaultYear
	}

	res := school.Record{
		Key:    school.NormalizeKey(name),
		Name:   name,
		Year:   year,
		Phases: school.NewPhases(),
	}

	issue := func(phase school.PhaseID, field, reason string) {
		issues = append(issues, Issue{
			Key: res.Key, Phase: phase, Field: field, Reason: reason,
		})
	}

	if v, field, ok := lookup(src, yearFields); ok {
		if n, ok := toCount(v); ok && n > 0 {
			res.Year = n
		} else {
			issue("", field, fmt.Sprintf("invalid year %v", v))
		}
	}

	if v, field, ok := lookup(src, totalVacancyFields); ok {
		if n, ok := toCount(v); ok {
			res.TotalVacancy = n
		} else {
			issue("", field, fmt.Sprintf("invalid count %v", v))
		}
	}

	raws := rawPhases(src, issue)
	for _, id := range school.PhaseIDs {
		raw, ok := raws[id]
		if !ok {
			continue
		}
		stat, notes, reason := reconcilePhase(raw)
		if reason != "" {
			issue(id, "phases", reason)
		}
		for _, n := range notes {
			issue(id, n.field, n.reason)
		}
		res.Phases[id] = stat
	}

	explicit := false
	if v, field, ok := lookup(src, ballotedFields); ok {
		b, ok := toBool(v)
		if !ok {
			issue("", field, fmt.Sprintf("invalid flag %v", v))
		}
		explicit = b
	}
	res.Balloted = res.Phases.Balloted() || explicit

	applyContacts(&res, src, issue)
	return res, issues, nil
}

// rawPhases finds per-phase objects either under "phases" or at the top
// level of the record. When a canonical label and its alias both occur, the
// canonical label wins, otherwise the first label in sorted order.
func rawPhases(
	src Source,
	issue func(school.PhaseID, string, string),
) map[school.PhaseID]any {
	container := map[string]any(src)
	nested := false
	if v, ok := src["phases"]; ok {
		m, ok := v.(map[string]any)
		if !ok {
			issue("", "phases", "phases is not an object")
			return nil
		}
		container, nested = m, true
	}

	res := make(map[school.PhaseID]any)
	chosen := make(map[school.PhaseID]string)
	for _, label := range slices.Sorted(maps.Keys(container)) {
		id, ok := school.ParsePhaseID(label)
		if !ok {
			if nested {
				issue("", label, "unknown phase ignored")
			}
			continue
		}
		if prev, seen := chosen[id]; seen {
			if school.NormalizeKey(prev) == string(id) ||
				school.NormalizeKey(label) != string(id) {
				continue
			}
		}
		chosen[id] = label
		res[id] = container[label]
	}
	return res
}

// note is a non-fatal correction applied to a phase.
type note struct {
	field, reason string
}

// reconcilePhase converts a raw phase object. A non-empty reason means the
// phase was malformed and has been zeroed. Notes report values that were
// corrected to keep the phase consistent.
//
// Balloting happens only for oversubscribed phases, and then every vacancy
// is filled. Otherwise the number of taken places is the smaller of
// applicants and vacancies. When vacancies are unknown a supplied taken
// count is kept, capped by applicants.
func reconcilePhase(raw any) (school.PhaseStat, []note, string) {
	var zero school.PhaseStat
	var notes []note
	m, ok := raw.(map[string]any)
	if !ok {
		if raw == nil {
			return zero, nil, ""
		}
		return zero, nil, fmt.Sprintf("phase is not an object: %v", raw)
	}

	vac, hasVac, err := countField(m, vacanciesFields)
	if err != "" {
		return zero, nil, err
	}
	app, _, err := countField(m, applicantsFields)
	if err != "" {
		return zero, nil, err
	}
	taken, hasTaken, err := countField(m, takenFields)
	if err != "" {
		return zero, nil, err
	}

	details := ballotDetails(m)

	var balloting bool
	if v, field, ok := lookup(m, ballotingFields); ok {
		b, ok := toBool(v)
		if !ok {
			return zero, nil, fmt.Sprintf("%s: invalid flag %v", field, v)
		}
		if b && app <= vac {
			notes = append(notes, note{field, fmt.Sprintf(
				"balloting without oversubscription (%d applicants, %d vacancies) ignored",
				app, vac,
			)})
			b = false
		}
		balloting = b
	} else {
		balloting = details != nil && details.ConductedFor != "" && app > vac
	}

	want := min(app, vac)
	switch {
	case balloting:
		want = vac
	case !hasVac && hasTaken:
		want = min(taken, app)
	}
	if hasTaken && taken != want {
		_, field, _ := lookup(m, takenFields)
		notes = append(notes, note{field, fmt.Sprintf(
			"taken %d adjusted to %d", taken, want,
		)})
	}

	res := school.PhaseStat{
		Vacancies:  vac,
		Applicants: app,
		Taken:      want,
		Balloting:  balloting,
	}
	if !details.IsZero() {
		res.BallotingDetails = details
	}
	return res, notes, ""
}

func countField(m map[string]any, fields []string) (int, bool, string) {
	v, field, ok := lookup(m, fields)
	if !ok {
		return 0, false, ""
	}
	n, ok := toCount(v)
	if !ok {
		return 0, false, fmt.Sprintf("%s: non-numeric counter %v", field, v)
	}
	return n, true, ""
}

func ballotDetails(m map[string]any) *school.BallotDetails {
	var res school.BallotDetails
	v, _, ok := lookup(m, ballotDetailsFields)
	if ok {
		switch d := v.(type) {
		case string:
			res.ConductedFor = strings.TrimSpace(d)
		case map[string]any:
			res.ConductedFor, _ = lookupString(d, conductedForFields)
			if n, _, ok := lookup(d, ballotVacanciesFields); ok {
				res.VacanciesForBallot, _ = toCount(n)
			}
			if n, _, ok := lookup(d, ballotApplicantsFields); ok {
				res.BallotingApplicants, _ = toCount(n)
			}
			res.Note, _ = lookupString(d, noteFields)
		}
	}
	if res.Note == "" {
		res.Note, _ = lookupString(m, noteFields)
	}
	if res.IsZero() {
		return nil
	}
	return &res
}

func applyContacts(
	r *school.Record,
	src Source,
	issue func(school.PhaseID, string, string),
) {
	r.Address, _ = lookupString(src, addressFields)
	r.PostalCode, _ = lookupString(src, postalCodeFields)
	r.Phone, _ = lookupString(src, phoneFields)
	r.Email, _ = lookupString(src, emailFields)
	r.Website, _ = lookupString(src, websiteFields)
	r.MRTDesc, _ = lookupString(src, mrtFields)
	r.BusDesc, _ = lookupString(src, busFields)

	lat, latField, hasLat := lookup(src, latitudeFields)
	lng, lngField, hasLng := lookup(src, longitudeFields)
	if !hasLat || !hasLng {
		return
	}
	la, ok1 := toFloat(lat)
	lo, ok2 := toFloat(lng)
	switch {
	case !ok1:
		issue("", latField, fmt.Sprintf("invalid coordinate %v", lat))
	case !ok2:
		issue("", lngField, fmt.Sprintf("invalid coordinate %v", lng))
	default:
		r.Latitude, r.Longitude = &la, &lo
	}
}
