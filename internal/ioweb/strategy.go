package ioweb

import (
	"cmp"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/p1data/p1db/internal/iostrategy"
	"github.com/p1data/p1db/pkg/match"
	"github.com/p1data/p1db/pkg/payload"
	"github.com/p1data/p1db/pkg/reconcile"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/strategy"
)

const fallbackMessage = "Strategy service is unavailable, the strategy was made from a template"

type strategyInput struct {
	strategy.Request
	// pointers tell a missing field from an empty one
	Address       *string   `json:"address"`
	TargetSchools *[]string `json:"target_schools"`
}

type analyzeInput struct {
	SchoolsData []strategy.School `json:"schools_data"`
}

func (s *server) generateStrategy(c *gin.Context) {
	var in strategyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not valid JSON"})
		return
	}
	switch {
	case in.Address == nil || strings.TrimSpace(*in.Address) == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	case in.TargetSchools == nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_schools is required"})
		return
	}

	req := in.Request
	req.Address = *in.Address
	req.TargetSchools = *in.TargetSchools
	req.Normalize()

	ctx := c.Request.Context()
	year := reconcile.DefaultYear
	if recs, err := s.store.All(ctx); err != nil {
		slog.Warn("Cannot read schools for strategy", "error", err)
	} else {
		year = dataYear(recs, year)
		if len(req.SchoolsData) == 0 {
			req.SchoolsData = targets(recs, req.TargetSchools)
		}
	}

	out, err := strategy.Generate(ctx, s.gen, req, year)
	if err != nil {
		slog.Error("Cannot render strategy", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot render strategy"})
		return
	}

	userData := req
	userData.SchoolsData = nil
	res := gin.H{
		"strategy":     out.Strategy,
		"user_data":    userData,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if out.Fallback {
		res["service"] = cmp.Or(out.Service, iostrategy.Service)
		res["available"] = false
		res["message"] = fallbackMessage
	}
	c.JSON(http.StatusOK, res)
}

func (s *server) analyzeCompetitiveness(c *gin.Context) {
	var in analyzeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not valid JSON"})
		return
	}
	c.JSON(http.StatusOK, strategy.Analyze(in.SchoolsData))
}

// targets builds school data for target names when a client sent none.
func targets(recs []school.Record, names []string) []strategy.School {
	m := match.New(recs)
	res := make([]strategy.School, 0, len(names))
	for _, name := range names {
		d, _ := payload.Lookup(m, name)
		sch := strategy.School{Name: name, P1Data: &d}
		if rec, _, ok := m.Match(name); ok {
			sch.Address = rec.Address
			sch.Phone = rec.Phone
			sch.Website = rec.Website
		}
		res = append(res, sch)
	}
	return res
}

// dataYear is the latest registration year among records.
func dataYear(recs []school.Record, def int) int {
	var res int
	for _, r := range recs {
		res = max(res, r.Year)
	}
	if res == 0 {
		return def
	}
	return res
}
