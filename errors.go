package sqlidentity

import "github.com/goliatone/go-errors"

const (
	TextCodeSessionNotFound  = "identity_session_not_found"
	TextCodeStateViolation   = "identity_state_violation"
	TextCodeTokenUnsendable  = "identity_token_unsendable"
	TextCodeTokenMintFailed  = "identity_token_mint_failed"
	TextCodeStoreFailure     = "identity_store_failure"
	TextCodeStoreUnreachable = "identity_store_unreachable"
	TextCodeBadConfig        = "identity_bad_config"
)

// ErrSessionNotFound is returned when a token does not resolve to exactly one
// stored session.
var ErrSessionNotFound = errors.New("session not found", errors.CategoryNotFound).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeNotFound)

// ErrStateViolation is returned by Write when the buffered state breaks the
// caller contract, e.g. a Forget with no session token to address.
var ErrStateViolation = errors.New("identity state violates caller contract", errors.CategoryBadInput).
	WithTextCode(TextCodeStateViolation).
	WithCode(errors.CodeBadRequest)

// ErrTokenUnsendable is returned when a session token cannot travel as an
// HTTP header value. The store is never touched in that case, so no session
// exists that the client could not have been told about.
var ErrTokenUnsendable = errors.New("session token is not a valid header value", errors.CategoryInternal).
	WithTextCode(TextCodeTokenUnsendable).
	WithCode(errors.CodeInternal)

// ErrMissingStore is returned when an identity reaches Write without a
// session store behind it.
var ErrMissingStore = errors.New("session store is required", errors.CategoryInternal).
	WithTextCode(TextCodeBadConfig).
	WithCode(errors.CodeInternal)
