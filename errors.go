package prerender

import "github.com/cockroachdb/errors"

// Sentinel errors for library operations.
var (
	// Content server construction and lifecycle errors.
	ErrInvalidSource = errors.New("invalid source reference")
	ErrInvalidPort   = errors.New("port must be a positive integer")

	// Render-time errors.
	ErrRenderTimeout = errors.New("render did not complete within timeout")
	ErrRenderFailure = errors.New("render failed")

	// Browser-level errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Post-render errors.
	ErrPolicyHalt  = errors.New("halt policy triggered")
	ErrWriteOutput = errors.New("failed to write output")
)
