package iogeo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/internal/iogeo"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneMapServer(t *testing.T, calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(calls, 1)
			q := r.URL.Query()
			assert.Equal(t, "Y", q.Get("returnGeom"))
			assert.Equal(t, "Y", q.Get("getAddrDetails"))
			if q.Get("searchVal") == "nowhere" {
				w.Write([]byte(`{"found": 0, "results": []}`))
				return
			}
			w.Write([]byte(`{"found": 2, "results": [
				{"ADDRESS": "21 SERANGOON NORTH AVENUE 4 ROSYTH SCHOOL",
				 "LATITUDE": "1.37207", "LONGITUDE": "103.87453"},
				{"ADDRESS": "OTHER", "LATITUDE": "1", "LONGITUDE": "103"}
			]}`))
		}))
}

func testConfig(url string) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptServicesGeocodeURL(url)})
	return cfg
}

func TestGeocode(t *testing.T) {
	var calls int32
	srv := oneMapServer(t, &calls)
	defer srv.Close()

	gc := iogeo.New(testConfig(srv.URL))
	ctx := context.Background()

	loc, err := gc.Geocode(ctx, "Rosyth School")
	require.NoError(t, err)
	assert.InDelta(t, 1.37207, loc.Latitude, 1e-9)
	assert.InDelta(t, 103.87453, loc.Longitude, 1e-9)
	assert.Contains(t, loc.Address, "ROSYTH SCHOOL")

	// cached, with normalized spacing and case
	_, err = gc.Geocode(ctx, "  rosyth   SCHOOL ")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeocodeNotFound(t *testing.T) {
	var calls int32
	srv := oneMapServer(t, &calls)
	defer srv.Close()

	gc := iogeo.New(testConfig(srv.URL))
	for range 2 {
		_, err := gc.Geocode(context.Background(), "nowhere")
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr)
		assert.Equal(t, errcode.GeocodeNotFoundError, gnErr.Code)
		assert.True(t, iogeo.IsNotFound(err))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeocodeServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusBadGateway)
		}))
	defer srv.Close()

	gc := iogeo.New(testConfig(srv.URL))
	_, err := gc.Geocode(context.Background(), "Rosyth School")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ServiceStatusError, gnErr.Code)
	assert.False(t, iogeo.IsNotFound(err))
}
