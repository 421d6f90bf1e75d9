package lifecycle

import "context"

// Server serves the school records over HTTP.
type Server interface {
	// Run listens on the configured port until ctx is canceled.
	Run(ctx context.Context) error
}
