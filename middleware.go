package sqlidentity

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

const (
	// DefaultHeaderName is the response header freshly minted session
	// tokens are written to.
	DefaultHeaderName = "X-Actix-Auth"
	// DefaultContextKey is the fiber locals key the request identity is
	// stored under.
	DefaultContextKey = "identity"
)

// Config holds identity middleware options.
type Config struct {
	// Store resolves and persists sessions. Required.
	Store Sessions

	// HeaderName is the response header minted tokens are written to.
	// Defaults to DefaultHeaderName.
	HeaderName string

	// ContextKey is the fiber locals key for the request identity.
	// Defaults to DefaultContextKey.
	ContextKey string

	// Filter skips identity handling for matching requests.
	Filter func(*fiber.Ctx) bool

	// ErrorHandler turns a Write failure into the replacement response.
	// The default maps the error code to the HTTP status.
	ErrorHandler func(*fiber.Ctx, error) error

	Logger Logger
}

// New returns the identity middleware. Before the handler runs it resolves
// the Authorization token into an Identity, exposed through fiber locals and
// the request context; after the handler returns it drives Identity.Write so
// pending session changes land before the response is sent.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		identity := cfg.resolveIdentity(c)

		c.Locals(cfg.ContextKey, identity)
		c.SetUserContext(WithContext(c.UserContext(), identity))

		if err := c.Next(); err != nil {
			// the handler aborted the pipeline; pending identity
			// changes are discarded
			return err
		}

		if err := identity.Write(c.UserContext(), c); err != nil {
			return cfg.ErrorHandler(c, err)
		}

		return nil
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Store == nil {
		panic("IDENTITY: middleware configuration: Store is required.")
	}

	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultHeaderName
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = cfg.defaultErrorHandler
	}

	return cfg
}

// resolveIdentity never fails: an absent, malformed, or unresolvable
// credential yields an anonymous identity, and so does a store failure
// during lookup. Routing always proceeds.
func (cfg Config) resolveIdentity(c *fiber.Ctx) *Identity {
	opts := []IdentityOption{
		WithResponseHeader(cfg.HeaderName),
		WithRequestMetadata(c.IP(), c.Get(fiber.HeaderUserAgent)),
	}

	token := tokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return NewIdentity(cfg.Store, opts...)
	}

	record, err := cfg.Store.FindByToken(c.UserContext(), token)
	if err != nil {
		if !errors.IsNotFound(err) {
			cfg.Logger.Warn("session lookup failed, continuing unauthenticated: %v", err)
		}
		return NewIdentity(cfg.Store, opts...)
	}

	return NewIdentity(cfg.Store, append(opts, WithResolvedSession(record))...)
}

func (cfg Config) defaultErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "unable to finalize identity").
			WithCode(errors.CodeInternal)
	}

	cfg.Logger.Error("identity write error: %s category=%v details=%s",
		richErr.Message, richErr.Category, print.MaybePrettyJSON(richErr.Metadata))

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).SendString(richErr.Message)
}

// tokenFromHeader splits `Authorization: <scheme> <token>`. The scheme must
// be present but is otherwise ignored; a missing or empty token reads as no
// credential at all.
func tokenFromHeader(header string) string {
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 3)
	if len(parts) < 2 {
		return ""
	}

	return parts[1]
}
