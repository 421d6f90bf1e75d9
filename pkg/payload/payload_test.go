package payload_test

import (
	"encoding/json"
	"testing"

	"github.com/p1data/p1db/pkg/match"
	"github.com/p1data/p1db/pkg/payload"
	"github.com/p1data/p1db/pkg/school"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosyth() school.Record {
	ph := school.NewPhases()
	ph[school.Phase1] = school.PhaseStat{Vacancies: 100, Applicants: 50, Taken: 50}
	ph[school.Phase2C] = school.PhaseStat{
		Vacancies: 69, Applicants: 134, Taken: 69, Balloting: true,
	}
	return school.Record{
		Key:          "rosyth_school",
		Name:         "Rosyth School",
		Year:         2024,
		TotalVacancy: 210,
		Balloted:     true,
		Phases:       ph,
	}
}

func TestNew(t *testing.T) {
	assert := assert.New(t)
	res := payload.New("rosyth", rosyth())

	assert.True(res.DataAvailable)
	assert.Equal("rosyth", res.SchoolName)
	assert.Equal("Rosyth School", res.MatchedName)
	assert.Equal(2024, res.Year)
	assert.Equal(210, res.TotalVacancy)
	assert.True(res.Balloted)
	assert.Len(res.Phases, len(school.PhaseIDs))

	p := res.Phases[school.Phase2C]
	assert.Equal(51.5, p.SuccessRate)
	assert.Equal(48.5, p.Competitiveness)
	assert.Equal(100.0, res.Phases[school.Phase3].SuccessRate)

	// (0*0.1 + 48.507*0.4) / 0.5
	assert.Equal(38.81, res.CompetitivenessScore)
	assert.Equal("Moderately Competitive", res.CompetitivenessTier)

	app, taken, rate := res.Phase2C()
	assert.Equal(134, app)
	assert.Equal(69, taken)
	assert.Equal(51.5, rate)
}

func TestNewKeepsStoredScore(t *testing.T) {
	r := rosyth()
	r.Score = 12.346
	r.Tier = "Less Competitive"
	res := payload.New("Rosyth School", r)
	assert.Equal(t, 12.35, res.CompetitivenessScore)
	assert.Equal(t, "Less Competitive", res.CompetitivenessTier)
}

func TestJSON(t *testing.T) {
	bs, err := json.Marshal(payload.New("Rosyth School", rosyth()))
	require.Nil(t, err)
	var m map[string]any
	require.Nil(t, json.Unmarshal(bs, &m))
	for _, v := range []string{
		"year", "school_name", "total_vacancy", "balloted", "phases",
		"competitiveness_score", "competitiveness_tier", "data_available",
	} {
		assert.Contains(t, m, v)
	}
	ph := m["phases"].(map[string]any)["phase_2c"].(map[string]any)
	assert.Equal(t, 134.0, ph["applicants"])
	assert.Equal(t, 51.5, ph["success_rate"])

	bs, err = json.Marshal(payload.NoData("Xyz Nonexistent School"))
	require.Nil(t, err)
	m = nil
	require.Nil(t, json.Unmarshal(bs, &m))
	assert.Len(t, m, 3)
	assert.Equal(t, false, m["data_available"])
	assert.Equal(t, payload.NoDataMessage, m["message"])
	assert.Equal(t, "Xyz Nonexistent School", m["school_name"])
}

func TestLookup(t *testing.T) {
	m := match.New([]school.Record{rosyth()})

	res, rule := payload.Lookup(m, "Rosyth")
	assert.True(t, res.DataAvailable)
	assert.Equal(t, match.SuffixStripped, rule)
	assert.Equal(t, "suffix_stripped", res.MatchRule)

	res, rule = payload.Lookup(m, "Xyz Nonexistent School")
	assert.False(t, res.DataAvailable)
	assert.Equal(t, match.NoMatch, rule)
	assert.Equal(t, "Xyz Nonexistent School: no data", res.String())
}
