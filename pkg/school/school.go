// Package school defines the canonical Primary-1 registration record of a
// Singapore primary school, together with the phase vocabulary and the key
// normalization that identifies a school across data sources.
//
// The package is pure: no I/O, no global state.
package school

import "strings"

// PhaseID identifies a P1 registration phase.
type PhaseID string

// Canonical phase identifiers, in registration order.
const (
	Phase1      PhaseID = "phase_1"
	Phase2A     PhaseID = "phase_2a"
	Phase2B     PhaseID = "phase_2b"
	Phase2C     PhaseID = "phase_2c"
	Phase2CSupp PhaseID = "phase_2c_supp"
	Phase3      PhaseID = "phase_3"
)

// PhaseIDs lists every canonical phase in registration order. Code that
// iterates phases uses this slice so that output never depends on map
// iteration order.
var PhaseIDs = []PhaseID{
	Phase1, Phase2A, Phase2B, Phase2C, Phase2CSupp, Phase3,
}

var phaseAliases = map[string]PhaseID{
	"phase_1":                Phase1,
	"phase_2a":               Phase2A,
	"phase_2b":               Phase2B,
	"phase_2c":               Phase2C,
	"phase_2c_supp":          Phase2CSupp,
	"phase_2c_supplementary": Phase2CSupp,
	"phase_2csupp":           Phase2CSupp,
	"phase_3":                Phase3,
}

// ParsePhaseID converts a phase label found in source data to its canonical
// identifier. Labels are compared after key normalization, so "Phase 2C",
// "phase-2c" and "phase_2c" are the same phase.
func ParsePhaseID(s string) (PhaseID, bool) {
	id, ok := phaseAliases[NormalizeKey(s)]
	return id, ok
}

// BallotDetails describes how a ballot was run in a phase.
type BallotDetails struct {
	// ConductedFor is the cutoff criteria text, for example
	// "SC<1km" or "SC<161/58".
	ConductedFor string `json:"conducted_for,omitempty"`

	// VacanciesForBallot is the number of places that went to ballot.
	VacanciesForBallot int `json:"vacancies_for_ballot,omitempty"`

	// BallotingApplicants is the number of applicants in the ballot.
	BallotingApplicants int `json:"balloting_applicants,omitempty"`

	// Note keeps any narrative about the phase.
	Note string `json:"note,omitempty"`
}

// IsZero reports if details carry no information.
func (b *BallotDetails) IsZero() bool {
	return b == nil || *b == BallotDetails{}
}

// PhaseStat holds the statistics of one registration phase.
type PhaseStat struct {
	Vacancies        int            `json:"vacancies"`
	Applicants       int            `json:"applicants"`
	Taken            int            `json:"taken"`
	Balloting        bool           `json:"balloting"`
	BallotingDetails *BallotDetails `json:"balloting_details,omitempty"`
}

// HasData is true when the phase reports any applicants or vacancies.
func (p PhaseStat) HasData() bool {
	return p.Applicants > 0 || p.Vacancies > 0
}

// Phases maps phase identifiers to their statistics.
type Phases map[PhaseID]PhaseStat

// NewPhases returns a mapping holding all canonical phases in zero state.
func NewPhases() Phases {
	res := make(Phases, len(PhaseIDs))
	for _, id := range PhaseIDs {
		res[id] = PhaseStat{}
	}
	return res
}

// Balloted is true if any phase went to ballot.
func (p Phases) Balloted() bool {
	for _, id := range PhaseIDs {
		if p[id].Balloting {
			return true
		}
	}
	return false
}

// Record is the canonical, source-independent description of one school.
type Record struct {
	// Key is derived from Name by NormalizeKey and identifies the school.
	Key string `json:"key"`

	// Name is the display name of the school.
	Name string `json:"name"`

	// TotalVacancy is the total number of P1 places.
	TotalVacancy int `json:"total_vacancy"`

	// Year of the registration exercise.
	Year int `json:"year"`

	// Balloted is true if any phase went to ballot or the source said so.
	Balloted bool `json:"balloted"`

	// Phases always holds all canonical phases.
	Phases Phases `json:"phases"`

	// Score is the weighted competitiveness score, from 0 to 100.
	Score float64 `json:"competitiveness_score"`

	// Tier is the competitiveness label derived from Score.
	Tier string `json:"competitiveness_tier"`

	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Website    string `json:"website,omitempty"`
	MRTDesc    string `json:"mrt_desc,omitempty"`
	BusDesc    string `json:"bus_desc,omitempty"`

	// Latitude and Longitude are nil when the location is unknown.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasLocation reports if both coordinates of the school are known.
func (r Record) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// HasStats is true if at least one phase carries data.
func (r Record) HasStats() bool {
	for _, id := range PhaseIDs {
		if r.Phases[id].HasData() {
			return true
		}
	}
	return r.TotalVacancy > 0
}

var keyReplacer = strings.NewReplacer(
	" ", "_",
	"-", "_",
	"(", "",
	")", "",
	".", "",
	"'", "",
	",", "",
	"&", "and",
)

// NormalizeKey converts a school name to its storage key: the name is
// trimmed and lowercased, spaces and hyphens become underscores, brackets,
// dots, apostrophes and commas are removed and "&" becomes "and".
// Normalizing a key again returns the same key.
//
//	NormalizeKey("CHIJ (Kellock)")        // "chij_kellock"
//	NormalizeKey("St. Hilda's Primary")   // "st_hildas_primary"
//	NormalizeKey("Maris Stella High-Pri") // "maris_stella_high_pri"
func NormalizeKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return keyReplacer.Replace(name)
}
