package sqlidentity

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type identityState string

const (
	stateUnchanged identityState = "unchanged"
	stateChanged   identityState = "changed"
	stateDeleted   identityState = "deleted"
)

// Identity is the per-request session view. The middleware resolves one
// before the handler runs; the handler records intent through Remember and
// Forget; Write, driven by the middleware after the handler returns, is the
// only place the store is touched.
//
// An Identity is request scoped and not safe for concurrent use.
type Identity struct {
	store     Sessions
	header    string
	token     string
	subject   string
	recordID  uuid.UUID
	createdAt *time.Time
	ip        string
	userAgent string
	state     identityState
}

// IdentityOption customizes identity construction.
type IdentityOption func(*Identity)

// WithResolvedSession seeds the identity from a stored session record, as
// the middleware does when the request token resolves.
func WithResolvedSession(record *SessionRecord) IdentityOption {
	return func(i *Identity) {
		if record == nil {
			return
		}
		i.token = record.Token
		i.subject = record.Subject
		i.recordID = record.ID
		i.createdAt = record.CreatedAt
	}
}

// WithRequestMetadata records the client address and user agent persisted
// alongside the session on the next Write.
func WithRequestMetadata(ip, userAgent string) IdentityOption {
	return func(i *Identity) {
		i.ip = ip
		i.userAgent = userAgent
	}
}

// WithResponseHeader overrides the response header the session token is
// written to. Defaults to DefaultHeaderName.
func WithResponseHeader(name string) IdentityOption {
	return func(i *Identity) {
		if name != "" {
			i.header = name
		}
	}
}

// NewIdentity returns an anonymous identity bound to the given store. Apply
// WithResolvedSession to start from an authenticated state.
func NewIdentity(store Sessions, opts ...IdentityOption) *Identity {
	identity := &Identity{
		store:  store,
		header: DefaultHeaderName,
		state:  stateUnchanged,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(identity)
		}
	}
	return identity
}

// CurrentSubject returns the subject this request is acting as: the resolved
// session's subject, the value of the latest Remember, or the empty string
// after a Forget or when the request carried no usable credential.
func (i *Identity) CurrentSubject() string {
	return i.subject
}

// CreatedAt returns when the resolved session was first established, or nil
// for an anonymous identity.
func (i *Identity) CreatedAt() *time.Time {
	return i.createdAt
}

// Remember records the intent to start a session for subject, minting a
// fresh token. Nothing is persisted until Write runs; calling Remember again
// before then discards the earlier token, so only the last call survives.
//
// An empty subject breaks the caller contract: the identity is left in a
// state Write answers with a bad-request outcome and zero store calls.
func (i *Identity) Remember(subject string) error {
	if subject == "" {
		i.token = ""
		i.subject = ""
		i.state = stateChanged
		return ErrStateViolation.WithMetadata(map[string]any{
			"reason": "subject is empty",
		})
	}

	token, err := MintToken()
	if err != nil {
		return err
	}

	i.token = token
	i.subject = subject
	i.state = stateChanged
	return nil
}

// Forget records the intent to end the current session. The token is kept so
// Write can address the delete; the subject is cleared immediately so the
// rest of the handler observes an anonymous identity.
func (i *Identity) Forget() {
	i.subject = ""
	i.state = stateDeleted
}

// Write flushes the buffered state change to the store and stamps the token
// on the response. It is driven by the middleware after the handler returns;
// whatever the outcome, the state resets to unchanged so a second call is a
// pure pass-through.
//
// A changed identity validates its token as a header value before any store
// call: a token the client could never be told about must not create a
// session. Deletes that match no rows succeed; a revoked token being already
// gone is the desired end state.
func (i *Identity) Write(ctx context.Context, headers HeaderWriter) error {
	state := i.state
	i.state = stateUnchanged

	switch state {
	case stateChanged:
		if i.token == "" || i.subject == "" {
			return ErrStateViolation.WithMetadata(map[string]any{
				"state":  string(stateChanged),
				"reason": "token and subject are required",
			})
		}
		if !validHeaderValue(i.token) {
			return ErrTokenUnsendable
		}
		if i.store == nil {
			return ErrMissingStore
		}

		record := i.record()
		if i.recordID != uuid.Nil {
			if _, err := i.store.Update(ctx, record); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "unable to rotate session").
					WithTextCode(TextCodeStoreFailure).
					WithCode(errors.CodeInternal)
			}
		} else {
			created, err := i.store.Create(ctx, record)
			if err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "unable to save session").
					WithTextCode(TextCodeStoreFailure).
					WithCode(errors.CodeInternal)
			}
			if created != nil {
				i.recordID = created.ID
				i.createdAt = created.CreatedAt
			}
		}

		headers.Set(i.header, i.token)
		return nil

	case stateDeleted:
		if i.token == "" {
			return ErrStateViolation.WithMetadata(map[string]any{
				"state":  string(stateDeleted),
				"reason": "no session token to delete",
			})
		}
		if i.store == nil {
			return ErrMissingStore
		}

		if _, err := i.store.DeleteByToken(ctx, i.token); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "unable to delete session").
				WithTextCode(TextCodeStoreFailure).
				WithCode(errors.CodeInternal)
		}

		i.token = ""
		i.recordID = uuid.Nil
		i.createdAt = nil
		return nil

	default:
		return nil
	}
}

func (i *Identity) record() *SessionRecord {
	return &SessionRecord{
		ID:        i.recordID,
		Token:     i.token,
		Subject:   i.subject,
		IP:        nilIfEmpty(i.ip),
		UserAgent: nilIfEmpty(i.userAgent),
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
