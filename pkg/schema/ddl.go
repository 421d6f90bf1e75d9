package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	var columns []string
	for _, f := range taggedFields(model) {
		columns = append(columns, fmt.Sprintf("    %s %s", f.db, f.ddl))
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

type field struct {
	db, ddl string
	idx     int
}

func taggedFields(model any) []field {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var res []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		dbTag := f.Tag.Get("db")
		ddlTag := f.Tag.Get("ddl")
		if dbTag != "" && ddlTag != "" {
			res = append(res, field{db: dbTag, ddl: ddlTag, idx: i})
		}
	}
	return res
}

// School DDL methods
func (s School) TableDDL() string {
	return generateDDL(s, s.TableName())
}

func (s School) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_schools_name ON schools(name);",
		"CREATE INDEX idx_schools_tier ON schools(tier);",
	}
}

func (s School) TableName() string {
	return "schools"
}

// Columns lists column names in table order.
func (s School) Columns() []string {
	fs := taggedFields(s)
	res := make([]string, len(fs))
	for i, f := range fs {
		res[i] = f.db
	}
	return res
}

// Values lists field values in the order of Columns.
func (s School) Values() []any {
	v := reflect.ValueOf(s)
	fs := taggedFields(s)
	res := make([]any, len(fs))
	for i, f := range fs {
		res[i] = v.Field(f.idx).Interface()
	}
	return res
}

// Pointers lists pointers to fields in the order of Columns, for row
// scanning.
func (s *School) Pointers() []any {
	v := reflect.ValueOf(s).Elem()
	fs := taggedFields(s)
	res := make([]any, len(fs))
	for i, f := range fs {
		res[i] = v.Field(f.idx).Addr().Interface()
	}
	return res
}
