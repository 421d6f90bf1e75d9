package ioweb_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/p1data/p1db/internal/iogeo"
	"github.com/p1data/p1db/internal/iostore"
	"github.com/p1data/p1db/internal/iotesting"
	"github.com/p1data/p1db/internal/ioweb"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/geo"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct{}

func (fakeGeocoder) Geocode(_ context.Context, q string) (geo.Location, error) {
	switch q {
	case "nowhere":
		return geo.Location{}, iogeo.NotFoundError(q)
	case "down":
		return geo.Location{}, errors.New("connection refused")
	}
	return geo.Location{Latitude: 1.3600, Longitude: 103.8350, Address: q}, nil
}

type fakeGen struct {
	err error
}

func (fakeGen) Service() string { return "fake" }

func (f fakeGen) Generate(context.Context, string, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "Register in phase 2C.", nil
}

func ptr(f float64) *float64 { return &f }

func record(name string, app, taken int, lat, lng *float64) school.Record {
	res := school.Record{
		Key:          school.NormalizeKey(name),
		Name:         name,
		Year:         2024,
		TotalVacancy: 210,
		Phases:       school.NewPhases(),
		Latitude:     lat,
		Longitude:    lng,
	}
	res.Phases[school.Phase2C] = school.PhaseStat{
		Vacancies: taken, Applicants: app, Taken: taken,
	}
	score.Apply(&res)
	return res
}

func testRouter(t *testing.T, gen fakeGen, withGen bool) http.Handler {
	t.Helper()
	cfg := iotesting.GetSQLiteConfig(t)
	cfg.Update([]config.Option{config.OptServerMode("test")})

	ctx := context.Background()
	st, err := iostore.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, err = st.Replace(ctx, []school.Record{
		record("Ai Tong School", 134, 69, ptr(1.3602), ptr(103.8352)),
		record("Rosyth School", 60, 40, ptr(1.3725), ptr(103.8735)),
		record("Henry Park Primary School", 200, 50, nil, nil),
	})
	require.NoError(t, err)

	if !withGen {
		return ioweb.Router(cfg, st, fakeGeocoder{}, nil)
	}
	return ioweb.Router(cfg, st, fakeGeocoder{}, gen)
}

func call(
	t *testing.T,
	h http.Handler,
	method, path string,
	body any,
) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return w.Code, res
}

func TestHealth(t *testing.T) {
	h := testRouter(t, fakeGen{}, false)
	code, res := call(t, h, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", res["status"])
	assert.Equal(t, 3.0, res["schools"])
}

func TestListSchools(t *testing.T) {
	h := testRouter(t, fakeGen{}, false)
	code, res := call(t, h, http.MethodGet, "/api/schools", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3.0, res["total"])
	schools := res["schools"].([]any)
	require.Len(t, schools, 3)
	assert.Equal(t, "ai_tong_school", schools[0].(map[string]any)["key"])
}

func TestSchoolP1Data(t *testing.T) {
	h := testRouter(t, fakeGen{}, false)

	code, res := call(t, h, http.MethodGet,
		"/api/schools/school/AI%20TONG/p1-data", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, res["data_available"])
	assert.Equal(t, "AI TONG", res["school_name"])
	assert.Equal(t, 2024.0, res["year"])
	assert.Contains(t, res["phases"], "phase_2c")

	code, res = call(t, h, http.MethodGet,
		"/api/schools/school/Unknown%20Academy/p1-data", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, res["data_available"])
	assert.NotEmpty(t, res["message"])
	assert.Len(t, res, 3)
}

func TestSearch(t *testing.T) {
	h := testRouter(t, fakeGen{}, false)

	tests := []struct {
		msg  string
		body map[string]any
		code int
		keys []string
	}{
		{"default radius", map[string]any{"address": "Bright Hill"},
			http.StatusOK, []string{"ai_tong_school"}},
		{"wide radius", map[string]any{"address": "Bright Hill", "radius": 10},
			http.StatusOK, []string{"ai_tong_school", "rosyth_school"}},
		{"no address", map[string]any{"radius": 3},
			http.StatusBadRequest, nil},
		{"not found", map[string]any{"address": "nowhere"},
			http.StatusBadRequest, nil},
	}

	for _, v := range tests {
		code, res := call(t, h, http.MethodPost, "/api/schools/search", v.body)
		assert.Equal(t, v.code, code, v.msg)
		if v.code != http.StatusOK {
			assert.NotEmpty(t, res["error"], v.msg)
			continue
		}
		schools := res["schools"].([]any)
		keys := make([]string, len(schools))
		for i, s := range schools {
			keys[i] = s.(map[string]any)["key"].(string)
		}
		assert.Equal(t, v.keys, keys, v.msg)
		first := schools[0].(map[string]any)
		assert.Equal(t, string(geo.BandWithin1Km), first["distance_band"], v.msg)
		assert.Equal(t, true,
			first["p1_data"].(map[string]any)["data_available"], v.msg)
	}
}

func TestSearchServiceDown(t *testing.T) {
	h := testRouter(t, fakeGen{}, false)
	code, res := call(t, h, http.MethodPost, "/api/schools/search",
		map[string]any{"address": "down"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, res["available"])
	assert.Equal(t, iogeo.Service, res["service"])
	assert.Empty(t, res["schools"])
}

func TestGeocode(t *testing.T) {
	h := testRouter(t, fakeGen{}, false)

	code, res := call(t, h, http.MethodPost, "/api/schools/geocode",
		map[string]any{"address": "Bright Hill"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.36, res["latitude"])

	code, _ = call(t, h, http.MethodPost, "/api/schools/geocode",
		map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = call(t, h, http.MethodPost, "/api/schools/geocode",
		map[string]any{"address": "down"})
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, false, res["available"])
}

func TestGenerateStrategy(t *testing.T) {
	body := map[string]any{
		"address":        "Bright Hill",
		"target_schools": []string{"Ai Tong", "Unknown Academy"},
		"has_siblings":   true,
	}

	t.Run("required fields", func(t *testing.T) {
		h := testRouter(t, fakeGen{}, false)
		code, res := call(t, h, http.MethodPost, "/api/strategy/generate",
			map[string]any{"target_schools": []string{"Ai Tong"}})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "address is required", res["error"])

		code, res = call(t, h, http.MethodPost, "/api/strategy/generate",
			map[string]any{"address": "Bright Hill"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "target_schools is required", res["error"])
	})

	t.Run("generated", func(t *testing.T) {
		h := testRouter(t, fakeGen{}, true)
		code, res := call(t, h, http.MethodPost, "/api/strategy/generate", body)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Register in phase 2C.", res["strategy"])
		assert.NotContains(t, res, "available")
		assert.NotEmpty(t, res["generated_at"])
		user := res["user_data"].(map[string]any)
		assert.Equal(t, "2025", user["application_year"])
		assert.Equal(t, true, user["has_siblings"])
	})

	t.Run("fallback", func(t *testing.T) {
		for _, withGen := range []bool{false, true} {
			h := testRouter(t, fakeGen{err: errors.New("quota")}, withGen)
			code, res := call(t, h, http.MethodPost, "/api/strategy/generate", body)
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, false, res["available"])
			assert.NotEmpty(t, res["service"])
			assert.NotEmpty(t, res["message"])
			assert.NotEmpty(t, res["strategy"])
		}
	})
}

func TestAnalyzeCompetitiveness(t *testing.T) {
	h := testRouter(t, fakeGen{}, false)
	body := map[string]any{
		"schools_data": []map[string]any{
			{
				"name":     "Ai Tong School",
				"distance": 0.8,
				"p1_data": map[string]any{
					"data_available":        true,
					"competitiveness_score": 48.5,
					"phases": map[string]any{
						"phase_2c": map[string]any{"applicants": 134, "taken": 69},
					},
				},
			},
			{
				"name":     "Unknown Academy",
				"distance": 1.5,
				"p1_data":  map[string]any{"data_available": false},
			},
		},
	}
	code, res := call(t, h, http.MethodPost,
		"/api/strategy/analyze-competitiveness", body)
	assert.Equal(t, http.StatusOK, code)

	analysis := res["analysis"].([]any)
	require.Len(t, analysis, 2)
	first := analysis[0].(map[string]any)
	assert.Equal(t, "Unknown Academy", first["school_name"])
	assert.Equal(t, "Unknown", first["competitiveness_level"])

	second := analysis[1].(map[string]any)
	assert.Equal(t, "High", second["competitiveness_level"])
	assert.Equal(t, 1.94, second["competition_ratio"])

	summary := res["summary"].(map[string]any)
	assert.Equal(t, 2.0, summary["total_schools_analyzed"])
	assert.Equal(t, 1.0, summary["schools_within_1km"])
	assert.Equal(t, 1.0, summary["highly_competitive_schools"])
}
