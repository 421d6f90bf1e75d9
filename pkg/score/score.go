// Package score computes the competitiveness of a school from its P1 phase
// statistics.
//
// Every phase gets a success rate (the share of applicants that got a
// place) and its complement, the competitiveness. The school score is the
// weighted mean of phase competitiveness over phases 1, 2A, 2B and 2C.
// Phase 2C supplementary and phase 3 do not count.
package score

import (
	"math"

	"github.com/p1data/p1db/pkg/school"
)

// Tier is a human-readable competitiveness band.
type Tier string

const (
	TierExtreme  Tier = "Extremely Competitive"
	TierHigh     Tier = "Highly Competitive"
	TierModerate Tier = "Moderately Competitive"
	TierLess     Tier = "Less Competitive"
	TierNot      Tier = "Not Competitive"
)

// Weight assigns a phase its share in the school score.
type Weight struct {
	Phase  school.PhaseID
	Weight float64
}

// Weights lists the weighted phases in registration order. Summation
// follows this order, so results do not depend on map iteration.
var Weights = []Weight{
	{school.Phase1, 0.1},
	{school.Phase2A, 0.2},
	{school.Phase2B, 0.3},
	{school.Phase2C, 0.4},
}

var thresholds = []struct {
	min  float64
	tier Tier
}{
	{70, TierExtreme},
	{50, TierHigh},
	{30, TierModerate},
	{10, TierLess},
}

// Metrics are per-phase rates in percent.
type Metrics struct {
	SuccessRate     float64
	Competitiveness float64
}

// PhaseMetrics computes success rate and competitiveness of one phase. A
// phase without applicants counts as fully successful. The success rate is
// kept within [0, 100], so competitiveness is never negative.
func PhaseMetrics(p school.PhaseStat) Metrics {
	if p.Applicants <= 0 {
		return Metrics{SuccessRate: 100}
	}
	success := float64(p.Taken) / float64(p.Applicants) * 100
	success = min(max(success, 0), 100)
	return Metrics{SuccessRate: success, Competitiveness: 100 - success}
}

// Score returns the weighted competitiveness of a school and its tier.
// Only weighted phases that are present and carry data (applicants or
// vacancies) take part. Without such phases the score is 0.
func Score(phases school.Phases) (float64, Tier) {
	var sum, weights float64
	for _, w := range Weights {
		p, ok := phases[w.Phase]
		if !ok || !p.HasData() {
			continue
		}
		sum += PhaseMetrics(p).Competitiveness * w.Weight
		weights += w.Weight
	}
	if weights == 0 {
		return 0, TierNot
	}
	res := sum / weights
	return res, TierFor(res)
}

// TierFor maps a score to its tier.
func TierFor(score float64) Tier {
	for _, v := range thresholds {
		if score >= v.min {
			return v.tier
		}
	}
	return TierNot
}

// Apply fills Score and Tier of a record from its phases.
func Apply(r *school.Record) {
	s, t := Score(r.Phases)
	r.Score = s
	r.Tier = string(t)
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
