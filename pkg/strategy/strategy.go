// Package strategy analyzes the competitiveness of a family's target schools
// and renders the registration strategy prompt and its offline fallback.
package strategy

import (
	"cmp"
	"slices"

	"github.com/p1data/p1db/pkg/geo"
	"github.com/p1data/p1db/pkg/payload"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/score"
)

// Level is the competition level derived from the phase 2C ratio of
// applicants to admitted children.
type Level string

const (
	LevelVeryHigh Level = "Very High"
	LevelHigh     Level = "High"
	LevelMedium   Level = "Medium"
	LevelLow      Level = "Low"
	LevelUnknown  Level = "Unknown"
)

// Recommendations given by Recommend.
const (
	RecExcellent  = "Excellent choice - high chance of success"
	RecNearby     = "Good option - within 1km gives priority"
	RecGood       = "Good choice - reasonable chance of success"
	RecBackup     = "Consider as backup option"
	RecHighRisk   = "High risk - consider alternatives"
	RecTooFar     = "Not recommended - too far and competitive"
	RecNoData     = "No data available - research manually or consider as backup option"
	SummaryAdvice = "Focus on schools within 1km with medium or low competition levels for best chances."
	noDataMessage = "No P1 data available"
)

// School is a target school as sent by a client: registry data, distance
// from the family's address and the P1 payload.
type School struct {
	Name     string          `json:"name"`
	Distance *float64        `json:"distance,omitempty"`
	Address  string          `json:"address,omitempty"`
	Phone    string          `json:"phone,omitempty"`
	Website  string          `json:"website,omitempty"`
	P1Data   *payload.P1Data `json:"p1_data,omitempty"`
}

// HasData reports if the school carries P1 statistics.
func (s School) HasData() bool {
	return s.P1Data != nil && s.P1Data.DataAvailable
}

// Km returns the distance, or 0 when it is unknown.
func (s School) Km() float64 {
	if s.Distance == nil {
		return 0
	}
	return *s.Distance
}

// Analysis is the competitiveness assessment of one school.
type Analysis struct {
	SchoolName           string   `json:"school_name"`
	Distance             float64  `json:"distance"`
	Band                 geo.Band `json:"distance_band"`
	CompetitionRatio     float64  `json:"competition_ratio"`
	CompetitivenessLevel Level    `json:"competitiveness_level"`
	CompetitivenessScore float64  `json:"competitiveness_score"`
	CompetitivenessTier  string   `json:"competitiveness_tier,omitempty"`
	Balloted             bool     `json:"balloted"`
	TotalVacancy         int      `json:"total_vacancy"`
	DataAvailable        bool     `json:"data_available"`
	Message              string   `json:"message,omitempty"`
	Recommendation       string   `json:"recommendation"`
}

// Summary aggregates an analysis.
type Summary struct {
	TotalSchoolsAnalyzed     int    `json:"total_schools_analyzed"`
	HighlyCompetitiveSchools int    `json:"highly_competitive_schools"`
	SchoolsWithin1Km         int    `json:"schools_within_1km"`
	Recommendation           string `json:"recommendation"`
}

// Result is the outcome of Analyze.
type Result struct {
	Analysis []Analysis `json:"analysis"`
	Summary  Summary    `json:"summary"`
}

// LevelFor maps the applicants to taken ratio of phase 2C to a level.
func LevelFor(ratio float64) Level {
	switch {
	case ratio > 2:
		return LevelVeryHigh
	case ratio > 1.5:
		return LevelHigh
	case ratio > 1.2:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Ratio returns applicants per admitted child in phase 2C. It is 1 when
// nobody was admitted.
func Ratio(p school.PhaseStat) float64 {
	if p.Taken <= 0 {
		return 1
	}
	return float64(p.Applicants) / float64(p.Taken)
}

// Recommend combines a competition level with the distance to the school.
func Recommend(l Level, km float64) string {
	switch geo.BandFor(km) {
	case geo.BandWithin1Km:
		if l == LevelLow || l == LevelMedium {
			return RecExcellent
		}
		return RecNearby
	case geo.Band1To2Km:
		switch l {
		case LevelLow:
			return RecGood
		case LevelMedium:
			return RecBackup
		default:
			return RecHighRisk
		}
	default:
		return RecTooFar
	}
}

// Analyze assesses every school. Results are ordered by competitiveness
// score and then by distance, schools without data keep a zero score.
func Analyze(schools []School) Result {
	res := Result{Analysis: make([]Analysis, 0, len(schools))}
	for _, s := range schools {
		res.Analysis = append(res.Analysis, analyze(s))
	}
	slices.SortStableFunc(res.Analysis, func(a, b Analysis) int {
		return cmp.Or(
			cmp.Compare(a.CompetitivenessScore, b.CompetitivenessScore),
			cmp.Compare(a.Distance, b.Distance),
		)
	})
	res.Summary = summarize(res.Analysis)
	return res
}

func analyze(s School) Analysis {
	km := s.Km()
	res := Analysis{
		SchoolName: s.Name,
		Distance:   km,
		Band:       geo.BandFor(km),
	}
	if !s.HasData() {
		res.CompetitivenessLevel = LevelUnknown
		res.Message = noDataMessage
		if s.P1Data != nil && s.P1Data.Message != "" {
			res.Message = s.P1Data.Message
		}
		res.Recommendation = RecNoData
		return res
	}

	d := s.P1Data
	ratio := Ratio(d.Phases[school.Phase2C].PhaseStat)
	res.CompetitionRatio = score.Round(ratio, 2)
	res.CompetitivenessLevel = LevelFor(ratio)
	res.CompetitivenessScore = d.CompetitivenessScore
	res.CompetitivenessTier = d.CompetitivenessTier
	res.Balloted = d.Balloted
	res.TotalVacancy = d.TotalVacancy
	res.DataAvailable = true
	res.Recommendation = Recommend(res.CompetitivenessLevel, km)
	return res
}

func summarize(as []Analysis) Summary {
	res := Summary{
		TotalSchoolsAnalyzed: len(as),
		Recommendation:       SummaryAdvice,
	}
	for _, v := range as {
		if v.CompetitivenessLevel == LevelHigh ||
			v.CompetitivenessLevel == LevelVeryHigh {
			res.HighlyCompetitiveSchools++
		}
		if v.Distance <= 1 {
			res.SchoolsWithin1Km++
		}
	}
	return res
}
