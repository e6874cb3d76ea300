package domain

import "errors"

var (
	// ErrUnknownFeed means the requested category or feed name is not in
	// the catalog. User input error, never retried.
	ErrUnknownFeed = errors.New("unknown feed")

	// ErrUpstream means a network fetch or feed parse failed with no
	// usable cache entry to fall back on.
	ErrUpstream = errors.New("upstream fetch failed")

	// ErrAuthentication means the credential exchange rejected the
	// supplied credentials.
	ErrAuthentication = errors.New("authentication failed")

	// ErrSessionInvalid means the session token is missing, expired, or
	// its stored record could not be decrypted. All three are treated the
	// same as "no session provided".
	ErrSessionInvalid = errors.New("invalid or expired session")
)
