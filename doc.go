// Package sqlidentity provides a pluggable identity and session layer for
// Fiber applications backed by a relational store.
//
// Request flow:
//   - The middleware reads `Authorization: <scheme> <token>` and resolves the
//     token against the identities table. An absent, malformed, or
//     unresolvable credential yields an anonymous identity; routing always
//     proceeds. Being unauthenticated is a state, not an error.
//   - Handlers read the resolved subject with Identity.CurrentSubject and
//     record intent with Remember (start or refresh a session) and Forget
//     (end one). Intent is buffered on the Identity and never hits the store
//     mid-handler.
//   - After the handler returns, the middleware drives Identity.Write, which
//     persists the pending change and stamps the fresh token on the response
//     header (X-Actix-Auth by default) before the response goes out.
//
// Storage:
//   - SessionRecord is a Bun model persisted to the identities table. The
//     Sessions repository runs unchanged on SQLite, PostgreSQL, and MySQL;
//     Builder selects the engine and owns the connection pool.
//
// The package answers "who, if anyone, is this request" and nothing more.
// Roles, scopes, and permission checks belong to the embedding application.
package sqlidentity
