package strategy_test

import (
	"testing"

	"github.com/p1data/p1db/pkg/geo"
	"github.com/p1data/p1db/pkg/payload"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func km(v float64) *float64 { return &v }

func withData(name string, applicants, taken int, balloted bool) strategy.School {
	ph := school.NewPhases()
	ph[school.Phase2C] = school.PhaseStat{
		Vacancies: taken, Applicants: applicants, Taken: taken,
	}
	rec := school.Record{
		Key: school.NormalizeKey(name), Name: name, Year: 2024,
		TotalVacancy: 180, Balloted: balloted, Phases: ph,
	}
	p := payload.New(name, rec)
	return strategy.School{Name: name, P1Data: &p}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		ratio float64
		level strategy.Level
	}{
		{2.5, strategy.LevelVeryHigh},
		{2, strategy.LevelHigh},
		{1.6, strategy.LevelHigh},
		{1.3, strategy.LevelMedium},
		{1.2, strategy.LevelLow},
		{0.5, strategy.LevelLow},
	}
	for _, v := range tests {
		assert.Equal(t, v.level, strategy.LevelFor(v.ratio), v.ratio)
	}
	assert.Equal(t, 1.0, strategy.Ratio(school.PhaseStat{Applicants: 10}))
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		level strategy.Level
		km    float64
		rec   string
	}{
		{strategy.LevelLow, 0.5, strategy.RecExcellent},
		{strategy.LevelMedium, 1, strategy.RecExcellent},
		{strategy.LevelVeryHigh, 0.9, strategy.RecNearby},
		{strategy.LevelLow, 1.5, strategy.RecGood},
		{strategy.LevelMedium, 2, strategy.RecBackup},
		{strategy.LevelHigh, 1.8, strategy.RecHighRisk},
		{strategy.LevelLow, 2.5, strategy.RecTooFar},
	}
	for _, v := range tests {
		assert.Equal(t, v.rec, strategy.Recommend(v.level, v.km), v)
	}
}

func TestAnalyze(t *testing.T) {
	assert := assert.New(t)
	far := withData("Far Primary School", 60, 50, false)
	far.Distance = km(3)
	hot := withData("Hot Primary School", 150, 50, true)
	hot.Distance = km(0.8)
	easy := withData("Easy Primary School", 40, 40, false)
	easy.Distance = km(1.5)
	nd := payload.NoData("Unknown School")
	none := strategy.School{Name: "Unknown School", Distance: km(0.5), P1Data: &nd}

	res := strategy.Analyze([]strategy.School{far, hot, easy, none})
	require.Len(t, res.Analysis, 4)

	// zero scores first, closer first among equal scores
	names := make([]string, 4)
	for i, v := range res.Analysis {
		names[i] = v.SchoolName
	}
	assert.Equal([]string{
		"Unknown School", "Easy Primary School",
		"Far Primary School", "Hot Primary School",
	}, names)

	a := res.Analysis[0]
	assert.False(a.DataAvailable)
	assert.Equal(strategy.LevelUnknown, a.CompetitivenessLevel)
	assert.Equal(payload.NoDataMessage, a.Message)
	assert.Equal(strategy.RecNoData, a.Recommendation)

	a = res.Analysis[3]
	assert.Equal(3.0, a.CompetitionRatio)
	assert.Equal(strategy.LevelVeryHigh, a.CompetitivenessLevel)
	assert.Equal(geo.BandWithin1Km, a.Band)
	assert.True(a.Balloted)
	assert.Equal(strategy.RecNearby, a.Recommendation)

	assert.Equal(strategy.RecGood, res.Analysis[1].Recommendation)
	assert.Equal(strategy.RecTooFar, res.Analysis[2].Recommendation)

	assert.Equal(4, res.Summary.TotalSchoolsAnalyzed)
	assert.Equal(1, res.Summary.HighlyCompetitiveSchools)
	assert.Equal(2, res.Summary.SchoolsWithin1Km)
}

func TestPrompt(t *testing.T) {
	hot := withData("Hot Primary School", 150, 50, true)
	hot.Distance = km(0.8)
	hot.Address = "1 Hot Street"
	none := strategy.School{Name: "Unknown School"}
	req := strategy.Request{
		Address:       "Blk 123 Bishan St 12",
		TargetSchools: []string{"Hot Primary School", "Unknown School"},
		HasSiblings:   true,
		Priorities:    []string{"distance", "SAP"},
		SchoolsData:   []strategy.School{hot, none},
	}

	res, err := strategy.Prompt(req, 2024)
	require.Nil(t, err)
	assert := assert.New(t)
	assert.Contains(res, "Current Address: Blk 123 Bishan St 12")
	assert.Contains(res, "Target Schools: Hot Primary School, Unknown School")
	assert.Contains(res, "Application Year: 2025")
	assert.Contains(res, "### Hot Primary School")
	assert.Contains(res, "Distance from your address: 0.80 km")
	assert.Contains(res, "150 applied, 50 accepted (Success Rate: 33.3%)")
	assert.Contains(res, "Phase 2C Priority 1 (within 1km)")
	assert.Contains(res, "BALLOTED")
	assert.Contains(res, "No 2024 data available - No P1 data available")
	assert.Contains(res, "Distance from your address: Unknown")

	res, err = strategy.Fallback(req)
	require.Nil(t, err)
	assert.Contains(res, "# P1 Registration Strategy for 2025")
	assert.Contains(res, "**Eligibility:** Eligible")
	assert.Contains(res, "**Hot Primary School:** 0.80 km (Phase 2C Priority 1 (within 1km))")
	assert.Contains(res, "**Not Applicable:**")

	assert.NotEmpty(t, strategy.SystemMessage())
}
