package core

import "errors"

var (
	// ErrProviderUnavailable means the provider is cooling down and was skipped.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderCallFailed wraps a transport, quota or model error.
	ErrProviderCallFailed = errors.New("provider call failed")
	// ErrAllProvidersExhausted is never returned to callers of Generate;
	// it is mapped to the apology text.
	ErrAllProvidersExhausted = errors.New("all providers exhausted")
	ErrNoPreferredModel      = errors.New("no preferred model available")
	ErrNoCredentials         = errors.New("no credentials configured")
	ErrMemoryStore           = errors.New("memory store failure")
	ErrIntentParse           = errors.New("intent parse failure")
)
