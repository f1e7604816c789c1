package concierge

import "errors"

// Session errors. Busy is returned synchronously and never queued; the
// provider failures leave the history as it was before the send.
var (
	ErrAuthRequired   = errors.New("concierge: authentication required")
	ErrBusy           = errors.New("concierge: a reply is already in progress")
	ErrEmptyUtterance = errors.New("concierge: message is empty")
	ErrTimeout        = errors.New("concierge: provider timed out")
	ErrRateLimited    = errors.New("concierge: provider rate limited the request")
	ErrProviderError  = errors.New("concierge: provider error")
	ErrAbandoned      = errors.New("concierge: request abandoned")
	ErrSessionReset   = errors.New("concierge: session was reset while the reply was pending")

	ErrSessionNotFound = errors.New("concierge session not found or expired")

	// errSessionEvicted is returned by a Session that left the registry while
	// a caller still held it. The service looks the session up again.
	errSessionEvicted = errors.New("concierge: session evicted from memory")
)

// Auth gate errors, one per prompt the UI shows.
var (
	ErrValidationPending = errors.New("concierge: credential validation already in progress")
	ErrInvalidCredential = errors.New("concierge: invalid credential")
	ErrBillingRequired   = errors.New("concierge: billing must be enabled for this credential")
	ErrTransport         = errors.New("concierge: could not reach the credential validator")
)
