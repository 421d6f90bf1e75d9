// Package p1db keeps build information for the p1db application.
package p1db

var (
	// Version of p1db, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
