// Package ioregistry pulls the general information of primary schools
// from the data.gov.sg datastore.
package ioregistry

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/p1data/p1db/internal/iohttp"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/reconcile"
	"github.com/p1data/p1db/pkg/sources"
	"github.com/patrickmn/go-cache"
)

// Service is the name used in errors and logs.
const Service = "data.gov.sg"

// pageSize is the largest page the datastore returns.
const pageSize = 1000

const cacheKey = "registry:schools"

type registry struct {
	url        string
	resourceID string
	client     *iohttp.Client
	cache      *cache.Cache
}

type searchResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Total   int              `json:"total"`
		Records []map[string]any `json:"records"`
	} `json:"result"`
}

// New creates a registry client. The school list is cached for
// cfg.Services.CacheTTL minutes.
func New(cfg *config.Config) sources.Registry {
	ttl := time.Duration(cfg.Services.CacheTTL) * time.Minute
	timeout := time.Duration(cfg.Services.Timeout) * time.Second
	return &registry{
		url:        cfg.Services.RegistryURL,
		resourceID: cfg.Services.RegistryResourceID,
		client:     iohttp.New(Service, timeout),
		cache:      cache.New(ttl, 2*ttl),
	}
}

// Schools returns registry records of primary schools, following the
// datastore pages until all records are read.
func (r *registry) Schools(ctx context.Context) ([]reconcile.Source, error) {
	if v, ok := r.cache.Get(cacheKey); ok {
		return v.([]reconcile.Source), nil
	}
	if r.resourceID == "" {
		return nil, iohttp.NotConfiguredError(
			Service, "services.registry_resource_id",
		)
	}

	var res []reconcile.Source
	var total int
	for offset := 0; ; offset += pageSize {
		page, err := r.page(ctx, offset)
		if err != nil {
			return nil, err
		}
		total += len(page.Result.Records)
		for _, v := range page.Result.Records {
			if isPrimary(v) {
				res = append(res, reconcile.Source(v))
			}
		}
		if len(page.Result.Records) < pageSize ||
			total >= page.Result.Total {
			break
		}
	}

	slog.Info("Registry schools loaded", "records", total, "primary", len(res))
	r.cache.SetDefault(cacheKey, res)
	return res, nil
}

func (r *registry) page(
	ctx context.Context,
	offset int,
) (searchResponse, error) {
	q := url.Values{}
	q.Set("resource_id", r.resourceID)
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("offset", strconv.Itoa(offset))

	var res searchResponse
	if err := r.client.Get(ctx, r.url+"?"+q.Encode(), &res); err != nil {
		return res, err
	}
	if !res.Success {
		return res, iohttp.DecodeError(Service,
			errors.New("datastore reported failure"))
	}
	return res, nil
}

// isPrimary keeps schools with a primary level. Records without a level
// code are kept when their name mentions PRIMARY.
func isPrimary(rec map[string]any) bool {
	if lvl, ok := rec["mainlevel_code"].(string); ok && lvl != "" {
		return strings.Contains(strings.ToUpper(lvl), "PRIMARY")
	}
	name, _ := rec["school_name"].(string)
	return strings.Contains(strings.ToUpper(name), "PRIMARY")
}
