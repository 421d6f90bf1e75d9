package iostore_test

import (
	"context"
	"testing"

	"github.com/p1data/p1db/internal/iostore"
	"github.com/p1data/p1db/internal/iotesting"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/score"
	"github.com/p1data/p1db/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, applicants, vacancies int) school.Record {
	ph := school.NewPhases()
	ph[school.Phase2C] = school.PhaseStat{
		Vacancies:  vacancies,
		Applicants: applicants,
		Taken:      min(applicants, vacancies),
	}
	res := school.Record{
		Key:          school.NormalizeKey(name),
		Name:         name,
		Year:         2024,
		TotalVacancy: 180,
		Phases:       ph,
	}
	score.Apply(&res)
	return res
}

func openSQLite(t *testing.T) store.Store {
	t.Helper()
	st, err := iostore.NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openSQLite(t)

	rosyth := record("Rosyth School", 60, 40)
	lat, lng := 1.3721, 103.8741
	rosyth.Latitude, rosyth.Longitude = &lat, &lng
	rosyth.Address = "21 Serangoon North Avenue 4"
	rosyth.Phases[school.Phase2C] = school.PhaseStat{
		Vacancies: 40, Applicants: 60, Taken: 40, Balloting: true,
		BallotingDetails: &school.BallotDetails{Note: "SC < 1km"},
	}
	rosyth.Balloted = true
	ai := record("Ai Tong School", 30, 50)

	n, err := st.Replace(ctx, []school.Record{rosyth, ai})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := st.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, ai.Key, all[0].Key, "sorted by key")
	assert.Equal(t, ai, all[0])
	assert.Equal(t, rosyth, all[1])
	assert.Len(t, all[1].Phases, len(school.PhaseIDs))

	got, ok, err := st.Get(ctx, rosyth.Key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.HasLocation())
	assert.Equal(t, "SC < 1km", got.Phases[school.Phase2C].BallotingDetails.Note)

	_, ok, err = st.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteReplaceClearsTable(t *testing.T) {
	ctx := context.Background()
	st := openSQLite(t)

	_, err := st.Replace(ctx, []school.Record{
		record("Rosyth School", 60, 40),
		record("Ai Tong School", 30, 50),
	})
	require.NoError(t, err)

	n, err := st.Replace(ctx, []school.Record{record("Nanyang Primary School", 10, 20)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// replacing with nothing empties the store
	_, err = st.Replace(ctx, nil)
	require.NoError(t, err)
	count, err = st.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteReplaceDuplicates(t *testing.T) {
	ctx := context.Background()
	st := openSQLite(t)

	first := record("Rosyth School", 60, 40)
	last := record("ROSYTH SCHOOL", 10, 40)
	n, err := st.Replace(ctx, []school.Record{first, last})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, ok, err := st.Get(ctx, first.Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ROSYTH SCHOOL", got.Name, "last write wins")
}

func TestOpenSQLiteFromConfig(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.GetSQLiteConfig(t)

	st, err := iostore.Open(ctx, cfg)
	require.NoError(t, err)
	_, err = st.Replace(ctx, []school.Record{record("Rosyth School", 60, 40)})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	// data survives reopening the file
	st, err = iostore.Open(ctx, cfg)
	require.NoError(t, err)
	defer st.Close()
	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := iotesting.GetTestConfig()
	cfg.Store.Driver = "mysql"
	_, err := iostore.Open(context.Background(), cfg)
	assert.Error(t, err)
}
