package school_test

import (
	"testing"

	"github.com/p1data/p1db/pkg/school"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		msg, name, key string
	}{
		{"simple", "Ai Tong School", "ai_tong_school"},
		{"brackets", "CHIJ (Kellock)", "chij_kellock"},
		{"apostrophe and dot", "St. Hilda's Primary School", "st_hildas_primary_school"},
		{"hyphen", "Anglo-Chinese School (Junior)", "anglo_chinese_school_junior"},
		{"ampersand", "Holy Innocents & Co", "holy_innocents_and_co"},
		{"comma", "Maris Stella, Primary", "maris_stella_primary"},
		{"surrounding spaces", "  Rosyth School ", "rosyth_school"},
		{"empty", "", ""},
	}

	for _, v := range tests {
		res := school.NormalizeKey(v.name)
		assert.Equal(t, v.key, res, v.msg)
	}
}

func TestNormalizeKeyIdempotent(t *testing.T) {
	names := []string{
		"Ai Tong School",
		"CHIJ Our Lady of the Nativity",
		"St. Anthony's Canossian Primary School",
		"Anglo-Chinese School (Primary)",
		"Kranji & Co. (Pri)",
	}
	for _, v := range names {
		key := school.NormalizeKey(v)
		assert.Equal(t, key, school.NormalizeKey(key), v)
	}
}

func TestParsePhaseID(t *testing.T) {
	tests := []struct {
		msg   string
		label string
		id    school.PhaseID
		ok    bool
	}{
		{"canonical", "phase_2c", school.Phase2C, true},
		{"supplementary alias", "phase_2c_supplementary", school.Phase2CSupp, true},
		{"spaces and case", "Phase 2A", school.Phase2A, true},
		{"hyphen", "phase-3", school.Phase3, true},
		{"unknown", "phase_4", "", false},
	}

	for _, v := range tests {
		id, ok := school.ParsePhaseID(v.label)
		assert.Equal(t, v.ok, ok, v.msg)
		assert.Equal(t, v.id, id, v.msg)
	}
}

func TestNewPhases(t *testing.T) {
	ph := school.NewPhases()
	assert.Len(t, ph, len(school.PhaseIDs))
	for _, id := range school.PhaseIDs {
		assert.False(t, ph[id].HasData(), string(id))
	}
	assert.False(t, ph.Balloted())

	ph[school.Phase2B] = school.PhaseStat{Vacancies: 20, Applicants: 30, Taken: 20, Balloting: true}
	assert.True(t, ph.Balloted())
}

func TestRecordHelpers(t *testing.T) {
	lat, lng := 1.35, 103.8
	r := school.Record{Name: "Ai Tong School", Phases: school.NewPhases()}
	assert.False(t, r.HasLocation())
	assert.False(t, r.HasStats())

	r.Latitude = &lat
	assert.False(t, r.HasLocation())
	r.Longitude = &lng
	assert.True(t, r.HasLocation())

	r.Phases[school.Phase1] = school.PhaseStat{Vacancies: 10}
	assert.True(t, r.HasStats())

	var bd *school.BallotDetails
	assert.True(t, bd.IsZero())
	bd = &school.BallotDetails{Note: "no ballot"}
	assert.False(t, bd.IsZero())
}
