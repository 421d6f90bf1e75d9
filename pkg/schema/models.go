// Package schema provides the database model of p1db.
package schema

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// DDLGenerator defines how Go models generate SQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// School is one row of the schools table, a persisted school.Record.
type School struct {
	// ID is UUID v5 generated from the school key.
	ID string `db:"id" ddl:"UUID PRIMARY KEY" gorm:"column:id;type:uuid;primaryKey"`

	// Key is the normalized school name.
	Key string `db:"school_key" ddl:"VARCHAR(255) NOT NULL UNIQUE" gorm:"column:school_key;type:varchar(255);not null;uniqueIndex"`

	// Name is the display name of the school.
	Name string `db:"name" ddl:"VARCHAR(255) NOT NULL" gorm:"column:name;type:varchar(255);not null"`

	TotalVacancy int `db:"total_vacancy" ddl:"INT NOT NULL DEFAULT 0" gorm:"column:total_vacancy;not null;default:0"`

	// Year of the registration exercise.
	Year int `db:"year" ddl:"INT NOT NULL DEFAULT 0" gorm:"column:year;not null;default:0"`

	Balloted bool `db:"balloted" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:balloted;not null;default:false"`

	// Phases keeps school.Phases as JSON.
	Phases datatypes.JSON `db:"phases" ddl:"JSONB" gorm:"column:phases;type:jsonb"`

	// Score is the weighted competitiveness, Tier its band.
	Score float64 `db:"score" ddl:"DOUBLE PRECISION NOT NULL DEFAULT 0" gorm:"column:score;not null;default:0"`
	Tier  string  `db:"tier" ddl:"VARCHAR(50)" gorm:"column:tier;type:varchar(50)"`

	// Registry and geocoding enrichment.
	Address    string          `db:"address" ddl:"TEXT" gorm:"column:address"`
	PostalCode string          `db:"postal_code" ddl:"VARCHAR(20)" gorm:"column:postal_code;type:varchar(20)"`
	Phone      string          `db:"phone" ddl:"VARCHAR(50)" gorm:"column:phone;type:varchar(50)"`
	Email      string          `db:"email" ddl:"VARCHAR(255)" gorm:"column:email;type:varchar(255)"`
	Website    string          `db:"website" ddl:"VARCHAR(255)" gorm:"column:website;type:varchar(255)"`
	MRTDesc    string          `db:"mrt_desc" ddl:"TEXT" gorm:"column:mrt_desc"`
	BusDesc    string          `db:"bus_desc" ddl:"TEXT" gorm:"column:bus_desc"`
	Latitude   sql.NullFloat64 `db:"latitude" ddl:"DOUBLE PRECISION" gorm:"column:latitude"`
	Longitude  sql.NullFloat64 `db:"longitude" ddl:"DOUBLE PRECISION" gorm:"column:longitude"`

	// UpdatedAt records the time of the import that wrote the row.
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMP" gorm:"column:updated_at"`
}
