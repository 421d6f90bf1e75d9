package strategy

import (
	"context"
	"log/slog"
)

// Generator produces strategy text with a text generation service.
type Generator interface {
	// Service is the name of the backing service.
	Service() string

	// Generate answers prompt following the system instruction.
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Outcome is a generated strategy.
type Outcome struct {
	// Strategy is the text returned to the family.
	Strategy string

	// Fallback is true when the text comes from the offline template.
	Fallback bool

	// Service names the generation service, Err tells why it was not used.
	Service string
	Err     error
}

// Generate asks gen for a strategy and falls back to the offline template
// when gen is nil or fails. Only template errors are returned.
func Generate(
	ctx context.Context,
	gen Generator,
	r Request,
	dataYear int,
) (Outcome, error) {
	var res Outcome
	if gen != nil {
		res.Service = gen.Service()
		prompt, err := Prompt(r, dataYear)
		if err != nil {
			return res, err
		}
		res.Strategy, res.Err = gen.Generate(ctx, SystemMessage(), prompt)
		if res.Err == nil && res.Strategy != "" {
			return res, nil
		}
		slog.Warn("Strategy service failed, using fallback",
			"service", res.Service, "error", res.Err)
	}

	var err error
	res.Fallback = true
	res.Strategy, err = Fallback(r)
	return res, err
}
