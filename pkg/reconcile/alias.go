package reconcile

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Alias table. For every canonical attribute the accepted source field
// names are listed in priority order: when a record carries more than one
// of them, the first one wins.
var (
	nameFields         = []string{"name", "school_name"}
	yearFields         = []string{"year"}
	totalVacancyFields = []string{"total_vacancy", "total_vacancies"}
	ballotedFields     = []string{"balloted"}

	vacanciesFields  = []string{"vacancies", "vacancy"}
	applicantsFields = []string{"applicants", "applied"}
	takenFields      = []string{"taken", "accepted"}
	ballotingFields  = []string{"balloting"}

	ballotDetailsFields    = []string{"balloting_details", "ballot_notes"}
	conductedForFields     = []string{"conducted_for", "ballot_notes"}
	ballotVacanciesFields  = []string{"vacancies_for_ballot"}
	ballotApplicantsFields = []string{"balloting_applicants"}
	noteFields             = []string{"note", "special_note", "status"}

	addressFields    = []string{"address"}
	postalCodeFields = []string{"postal_code"}
	phoneFields      = []string{"telephone_no", "phone"}
	emailFields      = []string{"email_address", "email"}
	websiteFields    = []string{"url_address", "website"}
	mrtFields        = []string{"mrt_desc"}
	busFields        = []string{"bus_desc"}
	latitudeFields   = []string{"latitude", "lat"}
	longitudeFields  = []string{"longitude", "lng", "long"}
)

// lookup returns the value of the first field from fields present in m,
// together with the field name that matched. Null values count as absent.
func lookup(m map[string]any, fields []string) (any, string, bool) {
	for _, f := range fields {
		if v, ok := m[f]; ok && v != nil {
			return v, f, true
		}
	}
	return nil, "", false
}

func lookupString(m map[string]any, fields []string) (string, bool) {
	v, _, ok := lookup(m, fields)
	if !ok {
		return "", false
	}
	return toString(v), true
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// toCount converts a counter to a non-negative integer. Blank strings and
// the dash used on MOE pages mean zero. Negative, fractional and
// non-numeric values are rejected.
func toCount(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case int:
		return n, n >= 0
	case int64:
		return int(n), n >= 0
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		return toCount(string(n))
	case string:
		s := strings.TrimSpace(n)
		switch strings.ToLower(s) {
		case "", "-", "na", "n/a":
			return 0, true
		}
		s = strings.ReplaceAll(s, ",", "")
		if i, err := strconv.Atoi(s); err == nil {
			return i, i >= 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return toCount(f)
	default:
		return 0, false
	}
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0", "":
			return false, true
		}
		return false, false
	case json.Number, float64, int, int64:
		n, ok := toCount(b)
		return n > 0, ok
	default:
		return false, false
	}
}

func toFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	case int:
		return float64(f), true
	case json.Number:
		res, err := f.Float64()
		return res, err == nil
	case string:
		res, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		return res, err == nil
	default:
		return 0, false
	}
}
