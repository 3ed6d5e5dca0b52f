package domain

import (
	"errors"
	"fmt"
)

// ErrAuthRequired means the request carried no usable Authorization header.
var ErrAuthRequired = errors.New("authentication required")

// ErrAuthInvalid is the umbrella for every way a presented token can fail:
// bad signature, expired, malformed, revoked, or pointing at a deleted user.
// The specific sentinels below all wrap it, so callers that only care about
// the unauthenticated outcome can errors.Is against ErrAuthInvalid while
// logs and metrics keep the precise reason.
var ErrAuthInvalid = errors.New("invalid authentication")

var (
	ErrTokenExpired          = fmt.Errorf("%w: token expired", ErrAuthInvalid)
	ErrTokenMalformed        = fmt.Errorf("%w: token malformed", ErrAuthInvalid)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: token signature mismatch", ErrAuthInvalid)
	ErrTokenRevoked          = fmt.Errorf("%w: token revoked", ErrAuthInvalid)
	ErrTokenUnknownUser      = fmt.Errorf("%w: user no longer exists", ErrAuthInvalid)
)
