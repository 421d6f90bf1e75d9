// Package payload builds the P1 data responses served for a school.
package payload

import (
	"encoding/json"
	"fmt"

	"github.com/p1data/p1db/pkg/match"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/score"
)

// NoDataMessage is returned with a NoData payload.
const NoDataMessage = "No P1 registration data is available for this school"

// Phase is the response form of a phase with its derived rates.
type Phase struct {
	school.PhaseStat
	SuccessRate     float64 `json:"success_rate"`
	Competitiveness float64 `json:"competitiveness"`
}

// P1Data is the response for a matched school.
type P1Data struct {
	Year                 int                      `json:"year"`
	SchoolName           string                   `json:"school_name"`
	MatchedName          string                   `json:"matched_name,omitempty"`
	MatchRule            string                   `json:"match_rule,omitempty"`
	TotalVacancy         int                      `json:"total_vacancy"`
	Balloted             bool                     `json:"balloted"`
	Phases               map[school.PhaseID]Phase `json:"phases"`
	CompetitivenessScore float64                  `json:"competitiveness_score"`
	CompetitivenessTier  string                   `json:"competitiveness_tier"`
	DataAvailable        bool                     `json:"data_available"`
	Message              string                   `json:"message,omitempty"`
}

// New creates the payload of a record. The requested name is echoed back
// as SchoolName. Score and tier are recomputed when the record has none.
func New(name string, r school.Record) P1Data {
	if r.Tier == "" {
		score.Apply(&r)
	}
	res := P1Data{
		Year:                 r.Year,
		SchoolName:           name,
		MatchedName:          r.Name,
		TotalVacancy:         r.TotalVacancy,
		Balloted:             r.Balloted,
		Phases:               make(map[school.PhaseID]Phase, len(school.PhaseIDs)),
		CompetitivenessScore: score.Round(r.Score, 2),
		CompetitivenessTier:  r.Tier,
		DataAvailable:        true,
	}
	for _, id := range school.PhaseIDs {
		p := r.Phases[id]
		m := score.PhaseMetrics(p)
		res.Phases[id] = Phase{
			PhaseStat:       p,
			SuccessRate:     score.Round(m.SuccessRate, 1),
			Competitiveness: score.Round(m.Competitiveness, 1),
		}
	}
	return res
}

// NoData creates the payload for a school without matching data.
func NoData(name string) P1Data {
	return P1Data{
		SchoolName: name,
		Message:    NoDataMessage,
	}
}

// Lookup resolves a school name with the matcher and returns its payload.
// When nothing matches the NoData payload is returned.
func Lookup(m *match.Matcher, name string) (P1Data, match.Rule) {
	rec, rule, ok := m.Match(name)
	if !ok {
		return NoData(name), rule
	}
	res := New(name, rec)
	res.MatchRule = rule.String()
	return res, rule
}

// Phase2C returns applicants, taken and success rate of phase 2C, the
// distance based phase most families compete in.
func (d P1Data) Phase2C() (int, int, float64) {
	p := d.Phases[school.Phase2C]
	return p.Applicants, p.Taken, p.SuccessRate
}

type noData struct {
	SchoolName    string `json:"school_name"`
	DataAvailable bool   `json:"data_available"`
	Message       string `json:"message"`
}

// MarshalJSON keeps the NoData payload down to name, flag and message.
func (d P1Data) MarshalJSON() ([]byte, error) {
	if !d.DataAvailable {
		return json.Marshal(noData{SchoolName: d.SchoolName, Message: d.Message})
	}
	type plain P1Data
	return json.Marshal(plain(d))
}

func (d P1Data) String() string {
	if !d.DataAvailable {
		return fmt.Sprintf("%s: no data", d.SchoolName)
	}
	return fmt.Sprintf("%s: %.2f (%s)", d.SchoolName,
		d.CompetitivenessScore, d.CompetitivenessTier)
}
