// Package config resolves client configuration from the environment.
//
// The dashboard client is configured entirely through environment
// variables, mirroring the deployed frontend:
//   - NEXT_PUBLIC_BASE_URL selects the API origin (same variable the
//     web dashboard builds against)
//   - ENCORE_TOKEN supplies a bearer token directly
//   - ENCORE_LOG_LEVEL controls logging verbosity
package config

import (
	"os"
	"strings"
	"time"
)

const (
	// defaultBaseURL is used when NEXT_PUBLIC_BASE_URL is not set.
	defaultBaseURL = "http://localhost:5000"

	// DefaultTimeout is the HTTP client timeout for API calls.
	DefaultTimeout = 30 * time.Second
)

// BaseURL returns the API origin, without a trailing slash.
func BaseURL() string {
	base := os.Getenv("NEXT_PUBLIC_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return strings.TrimRight(base, "/")
}
