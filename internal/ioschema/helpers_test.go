package ioschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCollationSQL(t *testing.T) {
	template := `ALTER TABLE %s ALTER COLUMN %s ` +
		`TYPE VARCHAR(%d) COLLATE "C"`

	tests := []struct {
		name     string
		col      columnDef
		expected string
	}{
		{
			name: "school key",
			col:  columnDef{"schools", "school_key", 255},
			expected: `ALTER TABLE schools ALTER COLUMN ` +
				`school_key TYPE VARCHAR(255) COLLATE "C"`,
		},
		{
			name: "short column",
			col:  columnDef{"schools", "tier", 50},
			expected: `ALTER TABLE schools ALTER COLUMN ` +
				`tier TYPE VARCHAR(50) COLLATE "C"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatCollationSQL(template,
				tt.col.table, tt.col.column, tt.col.varchar)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Collated columns must match the width declared by the model,
// otherwise ALTER TABLE would silently change it.
func TestCollatedColumns(t *testing.T) {
	for _, v := range collated {
		assert.Equal(t, "schools", v.table)
		assert.Equal(t, 255, v.varchar, v.column)
	}
}
