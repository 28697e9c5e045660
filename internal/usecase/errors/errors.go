package errors

import "errors"

// Transcript pipeline errors
var (
	// ErrSourceUnavailable marks a captions or audio failure the resolver may
	// recover from by falling back one hop. Adapters wrap every expected provider
	// failure (disabled captions, missing video, absent language, download or
	// transcription failure) in this sentinel.
	ErrSourceUnavailable = errors.New("transcript source unavailable")

	// ErrNotConfigured marks missing provider credentials. Fatal, never retried,
	// and never treated as a transient unavailability.
	ErrNotConfigured = errors.New("provider not configured")

	ErrInvalidVideoURL = errors.New("invalid video url")
)

// Anonymous usage metering errors
var (
	// ErrUsageTokenInvalid is returned for a forged or corrupted usage token.
	// It is never downgraded to a fresh counter.
	ErrUsageTokenInvalid = errors.New("usage token invalid")

	// ErrQuotaExceeded is the expected free-tier exhaustion outcome.
	ErrQuotaExceeded = errors.New("free quota exceeded")
)

// Translation errors
var (
	ErrTranslationFailed = errors.New("translation failed")
)

// Auth errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrOAuthStateMismatch = errors.New("oauth state mismatch")
)

// Billing errors
var (
	ErrNoSubscription = errors.New("no subscription found")
	ErrUnknownPlan    = errors.New("unknown payment plan")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
)
