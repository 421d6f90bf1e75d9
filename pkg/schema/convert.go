package schema

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gnames/gnuuid"
	"github.com/p1data/p1db/pkg/school"
)

// FromRecord converts a record to its row.
func FromRecord(r school.Record, updated time.Time) (School, error) {
	phases, err := json.Marshal(r.Phases)
	if err != nil {
		return School{}, fmt.Errorf("cannot encode phases of %s: %w", r.Key, err)
	}
	res := School{
		ID:           gnuuid.New(r.Key).String(),
		Key:          r.Key,
		Name:         r.Name,
		TotalVacancy: r.TotalVacancy,
		Year:         r.Year,
		Balloted:     r.Balloted,
		Phases:       phases,
		Score:        r.Score,
		Tier:         r.Tier,
		Address:      r.Address,
		PostalCode:   r.PostalCode,
		Phone:        r.Phone,
		Email:        r.Email,
		Website:      r.Website,
		MRTDesc:      r.MRTDesc,
		BusDesc:      r.BusDesc,
		Latitude:     nullFloat(r.Latitude),
		Longitude:    nullFloat(r.Longitude),
		UpdatedAt:    updated,
	}
	return res, nil
}

// ToRecord converts a row back to a record. Phases missing in the stored
// JSON come back as zero stats.
func (s School) ToRecord() (school.Record, error) {
	phases := school.NewPhases()
	if len(s.Phases) > 0 {
		var stored school.Phases
		if err := json.Unmarshal(s.Phases, &stored); err != nil {
			return school.Record{}, fmt.Errorf("cannot decode phases of %s: %w", s.Key, err)
		}
		for k, v := range stored {
			phases[k] = v
		}
	}
	res := school.Record{
		Key:          s.Key,
		Name:         s.Name,
		TotalVacancy: s.TotalVacancy,
		Year:         s.Year,
		Balloted:     s.Balloted,
		Phases:       phases,
		Score:        s.Score,
		Tier:         s.Tier,
		Address:      s.Address,
		PostalCode:   s.PostalCode,
		Phone:        s.Phone,
		Email:        s.Email,
		Website:      s.Website,
		MRTDesc:      s.MRTDesc,
		BusDesc:      s.BusDesc,
		Latitude:     floatPtr(s.Latitude),
		Longitude:    floatPtr(s.Longitude),
	}
	return res, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
