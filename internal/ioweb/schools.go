package ioweb

import (
	"cmp"
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/p1data/p1db/internal/iogeo"
	p1db "github.com/p1data/p1db/pkg"
	"github.com/p1data/p1db/pkg/geo"
	"github.com/p1data/p1db/pkg/match"
	"github.com/p1data/p1db/pkg/payload"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/score"
)

const geocodeFailed = "Could not geocode address"

type searchInput struct {
	Address string   `json:"address"`
	Radius  *float64 `json:"radius"`
}

type geocodeInput struct {
	Address string `json:"address"`
}

// found is a school near the searched address.
type found struct {
	school.Record
	Distance float64        `json:"distance"`
	Band     geo.Band       `json:"distance_band"`
	P1Data   payload.P1Data `json:"p1_data"`
}

func (s *server) health(c *gin.Context) {
	n, err := s.store.Count(c.Request.Context())
	if err != nil {
		slog.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "record store is unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": p1db.Version,
		"schools": n,
	})
}

func (s *server) listSchools(c *gin.Context) {
	recs, err := s.store.All(c.Request.Context())
	if err != nil {
		slog.Error("Cannot list schools", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read schools"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schools": recs, "total": len(recs)})
}

// schoolP1Data answers with the matched payload or the no-data payload,
// always with status 200.
func (s *server) schoolP1Data(c *gin.Context) {
	name := c.Param("name")
	m, err := s.matcher(c.Request.Context())
	if err != nil {
		slog.Error("Cannot load records for matching", "error", err)
		c.JSON(http.StatusOK, payload.NoData(name))
		return
	}
	res, rule := payload.Lookup(m, name)
	slog.Debug("Matched school", "query", name, "rule", rule.String())
	c.JSON(http.StatusOK, res)
}

func (s *server) search(c *gin.Context) {
	var in searchInput
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Address) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}
	radius := geo.DefaultRadiusKm
	if in.Radius != nil && *in.Radius > 0 {
		radius = *in.Radius
	}

	ctx := c.Request.Context()
	loc, err := s.geocoder.Geocode(ctx, in.Address)
	switch {
	case iogeo.IsNotFound(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": geocodeFailed})
		return
	case err != nil:
		slog.Warn("Geocoding service failed", "error", err)
		c.JSON(http.StatusOK, gin.H{
			"schools":     []found{},
			"total_found": 0,
			"service":     iogeo.Service,
			"available":   false,
			"message":     "Geocoding service is unavailable, try again later",
		})
		return
	}

	recs, err := s.store.All(ctx)
	if err != nil {
		slog.Error("Cannot read schools", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read schools"})
		return
	}
	res := nearby(recs, loc, radius)
	c.JSON(http.StatusOK, gin.H{
		"user_location": loc,
		"radius":        radius,
		"schools":       res,
		"total_found":   len(res),
	})
}

// nearby returns records with coordinates within radius km of loc, closest
// first.
func nearby(recs []school.Record, loc geo.Location, radius float64) []found {
	res := make([]found, 0)
	for _, r := range recs {
		if !r.HasLocation() {
			continue
		}
		km := geo.Distance(loc.Latitude, loc.Longitude, *r.Latitude, *r.Longitude)
		if km > radius {
			continue
		}
		res = append(res, found{
			Record:   r,
			Distance: score.Round(km, 2),
			Band:     geo.BandFor(km),
			P1Data:   payload.New(r.Name, r),
		})
	}
	slices.SortStableFunc(res, func(a, b found) int {
		return cmp.Or(
			cmp.Compare(a.Distance, b.Distance),
			cmp.Compare(a.Key, b.Key),
		)
	})
	return res
}

// geocode is the only endpoint that reports a failing service with 502.
func (s *server) geocode(c *gin.Context) {
	var in geocodeInput
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Address) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}
	loc, err := s.geocoder.Geocode(c.Request.Context(), in.Address)
	switch {
	case iogeo.IsNotFound(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": geocodeFailed})
	case err != nil:
		slog.Warn("Geocoding service failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     geocodeFailed,
			"service":   iogeo.Service,
			"available": false,
		})
	default:
		c.JSON(http.StatusOK, loc)
	}
}

func (s *server) matcher(ctx context.Context) (*match.Matcher, error) {
	recs, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return match.New(recs), nil
}
