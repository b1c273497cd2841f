package integration

import "errors"

// Platform error taxonomy. Configuration problems are surfaced distinctly
// from runtime network failures so callers can tell "misconfigured" from
// "upstream down" before any request is attempted.
var (
	// ErrPlatformNotConfigured indicates missing credentials or base URL;
	// detected at construction time, before any network call.
	ErrPlatformNotConfigured = errors.New("commerce platform is not configured")
	// ErrPlatformUnavailable indicates the upstream could not be reached
	ErrPlatformUnavailable = errors.New("commerce platform is unavailable")
	// ErrPlatformRequestFailed indicates the upstream rejected the request
	ErrPlatformRequestFailed = errors.New("commerce platform request failed")
	// ErrPlatformInvalidResponse indicates an unparsable upstream payload
	ErrPlatformInvalidResponse = errors.New("commerce platform returned an invalid response")
)
