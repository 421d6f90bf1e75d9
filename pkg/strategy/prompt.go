package strategy

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/p1data/p1db/pkg/geo"
	"github.com/p1data/p1db/pkg/templates"
)

// DefaultApplicationYear is used when a request does not name one.
const DefaultApplicationYear = "2025"

// Request describes a family asking for a registration strategy.
type Request struct {
	Address            string   `json:"address"`
	TargetSchools      []string `json:"target_schools"`
	HasSiblings        bool     `json:"has_siblings"`
	IsAlumni           bool     `json:"is_alumni"`
	WillingToVolunteer bool     `json:"willing_to_volunteer"`
	CanRelocate        bool     `json:"can_relocate"`
	Priorities         []string `json:"priorities"`
	ApplicationYear    string   `json:"application_year"`
	SchoolsData        []School `json:"schools_data,omitempty"`
}

// Normalize fills defaults of optional fields.
func (r *Request) Normalize() {
	if r.ApplicationYear == "" {
		r.ApplicationYear = DefaultApplicationYear
	}
}

type schoolView struct {
	School
	Applicants  int
	Taken       int
	SuccessRate float64
	Message     string
}

type promptView struct {
	Request
	DataYear int
	Schools  []schoolView
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"distance": func(km *float64) string {
		if km == nil {
			return "Unknown"
		}
		return fmt.Sprintf("%.2f km", *km)
	},
	"priority": func(km *float64) string {
		if km == nil {
			return "Phase 2C priority unknown"
		}
		switch geo.BandFor(*km).Priority() {
		case 1:
			return "Phase 2C Priority 1 (within 1km)"
		case 2:
			return "Phase 2C Priority 2 (1-2km)"
		default:
			return "Phase 2C Priority 3+ (beyond 2km)"
		}
	},
}

var (
	promptTmpl   = template.Must(template.New("prompt").Funcs(funcs).Parse(templates.StrategyPrompt))
	fallbackTmpl = template.Must(template.New("fallback").Funcs(funcs).Parse(templates.StrategyFallback))
)

// SystemMessage returns the system instruction for the text generation
// service.
func SystemMessage() string {
	return strings.TrimSpace(templates.StrategySystem)
}

// Prompt renders the strategy request for the text generation service.
// dataYear is the year of the statistics in the store.
func Prompt(r Request, dataYear int) (string, error) {
	return render(promptTmpl, r, dataYear)
}

// Fallback renders the strategy returned when no text generation service
// answered.
func Fallback(r Request) (string, error) {
	return render(fallbackTmpl, r, 0)
}

func render(t *template.Template, r Request, dataYear int) (string, error) {
	r.Normalize()
	v := promptView{Request: r, DataYear: dataYear}
	for _, s := range r.SchoolsData {
		sv := schoolView{School: s, Message: noDataMessage}
		if s.HasData() {
			sv.Applicants, sv.Taken, sv.SuccessRate = s.P1Data.Phase2C()
		} else if s.P1Data != nil && s.P1Data.Message != "" {
			sv.Message = s.P1Data.Message
		}
		v.Schools = append(v.Schools, sv)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("cannot render %s template: %w", t.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}
