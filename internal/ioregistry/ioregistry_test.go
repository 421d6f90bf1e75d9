package ioregistry_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/p1data/p1db/internal/ioregistry"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptServicesRegistryURL(url)})
	return cfg
}

func TestSchools(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			q := r.URL.Query()
			assert.Equal(t, "d_688b934f82c1059ed0a6993d2a829089", q.Get("resource_id"))
			assert.Equal(t, "1000", q.Get("limit"))
			w.Write([]byte(`{"success": true, "result": {"total": 3, "records": [
				{"school_name": "ROSYTH SCHOOL", "mainlevel_code": "PRIMARY",
				 "address": "21 SERANGOON NORTH AVENUE 4", "postal_code": "555855",
				 "telephone_no": "64823001", "email_address": "rosyth_ps@moe.edu.sg"},
				{"school_name": "ANDERSON SECONDARY SCHOOL", "mainlevel_code": "SECONDARY"},
				{"school_name": "NANYANG PRIMARY SCHOOL"}
			]}}`))
		}))
	defer srv.Close()

	reg := ioregistry.New(testConfig(srv.URL))
	ctx := context.Background()
	res, err := reg.Schools(ctx)
	require.NoError(t, err)
	require.Len(t, res, 2)

	rec, issues, err := reconcile.Reconcile(res[0])
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, "ROSYTH SCHOOL", rec.Name)
	assert.Equal(t, "64823001", rec.Phone)
	assert.Equal(t, "555855", rec.PostalCode)
	assert.Equal(t, reconcile.ShapeRegistry, reconcile.DetectShape(res[0]))

	_, err = reg.Schools(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second call is cached")
}

func TestSchoolsPages(t *testing.T) {
	total := 1500
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
			n := min(1000, total-offset)
			recs := make([]string, n)
			for i := range recs {
				recs[i] = fmt.Sprintf(`{"school_name": "S%d PRIMARY SCHOOL"}`, offset+i)
			}
			fmt.Fprintf(w, `{"success": true, "result": {"total": %d, "records": [%s]}}`,
				total, strings.Join(recs, ","))
		}))
	defer srv.Close()

	res, err := ioregistry.New(testConfig(srv.URL)).Schools(context.Background())
	require.NoError(t, err)
	assert.Len(t, res, total)
}

func TestSchoolsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": false}`))
		}))
	defer srv.Close()

	_, err := ioregistry.New(testConfig(srv.URL)).Schools(context.Background())
	assert.Error(t, err)

	cfg := testConfig(srv.URL)
	cfg.Services.RegistryResourceID = ""
	_, err = ioregistry.New(cfg).Schools(context.Background())
	assert.Error(t, err)
}
