// Package templates provides embedded configuration and text templates.
package templates

import _ "embed"

// SourcesYAML contains the default sources.yaml template for P1 data
// sources.
//
//go:embed sources.yaml
var SourcesYAML string

// ConfigYAML contains the default config.yaml template for application configuration.
//
//go:embed config.yaml
var ConfigYAML string

// StrategySystem is the system message sent to the text generation
// service.
//
//go:embed strategy_system.txt
var StrategySystem string

// StrategyPrompt is the text/template of the strategy request.
//
//go:embed strategy_prompt.tmpl
var StrategyPrompt string

// StrategyFallback is the text/template of the strategy returned when the
// text generation service is not available.
//
//go:embed strategy_fallback.tmpl
var StrategyFallback string
