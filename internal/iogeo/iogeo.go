// Package iogeo geocodes Singapore addresses with the OneMap search API.
package iogeo

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/p1data/p1db/internal/iohttp"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/geo"
	"github.com/patrickmn/go-cache"
)

// Service is the name used in errors and unavailable payloads.
const Service = "onemap"

type oneMap struct {
	url    string
	client *iohttp.Client
	cache  *cache.Cache
}

type searchResponse struct {
	Found   int `json:"found"`
	Results []struct {
		Latitude  float64 `json:"LATITUDE,string"`
		Longitude float64 `json:"LONGITUDE,string"`
		Address   string  `json:"ADDRESS"`
	} `json:"results"`
}

// New creates a OneMap geocoder. Answers, including failed lookups of
// unknown addresses, are cached for cfg.Services.CacheTTL minutes.
func New(cfg *config.Config) geo.Geocoder {
	ttl := time.Duration(cfg.Services.CacheTTL) * time.Minute
	timeout := time.Duration(cfg.Services.Timeout) * time.Second
	return &oneMap{
		url:    cfg.Services.GeocodeURL,
		client: iohttp.New(Service, timeout),
		cache:  cache.New(ttl, 2*ttl),
	}
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Geocode returns the best OneMap match for address.
func (o *oneMap) Geocode(
	ctx context.Context,
	address string,
) (geo.Location, error) {
	key := cacheKey(address)
	if v, ok := o.cache.Get(key); ok {
		if loc, ok := v.(geo.Location); ok {
			return loc, nil
		}
		return geo.Location{}, NotFoundError(address)
	}

	q := url.Values{}
	q.Set("searchVal", address)
	q.Set("returnGeom", "Y")
	q.Set("getAddrDetails", "Y")
	q.Set("pageNum", "1")

	var resp searchResponse
	if err := o.client.Get(ctx, o.url+"?"+q.Encode(), &resp); err != nil {
		return geo.Location{}, err
	}

	if resp.Found == 0 || len(resp.Results) == 0 {
		o.cache.SetDefault(key, false)
		return geo.Location{}, NotFoundError(address)
	}

	r := resp.Results[0]
	res := geo.Location{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Address:   r.Address,
	}
	o.cache.SetDefault(key, res)
	return res, nil
}
