// Package authgate is the authentication and token-lifecycle core for a
// multi-role user system: it issues, validates, refreshes, and revokes
// signed bearer session tokens under a single-active-token-per-user
// invariant.
//
// # Architecture
//
// The [Engine] orchestrates four collaborators:
//
//   - the token codec (package jwt): signing, verification, structural decode
//   - the token store (package token): one persisted record per user,
//     Redis- or Postgres-backed
//   - the credential verifier: username/password authentication against an
//     external user store through [UserProvider] and a password-hashing
//     primitive (package password)
//   - error signaling: a closed set of sentinel kinds rendered into
//     localized messages (package language) as [*AuthError]
//
// HTTP routing, request validation, user CRUD, and persistence schema are
// external collaborators reached through narrow interfaces; the engine is an
// embeddable library, not a server.
//
// # Session state machine
//
// Per user: NoSession → Active → (Expired | LoggedOut) → NoSession. Login
// reuses a live token, reissues over an expired one, and mints otherwise.
// Validation is stateless (signature+expiry only); revocation is enforced at
// the logout and refresh boundaries.
//
// # Usage
//
//	engine, err := authgate.New().
//		WithConfig(cfg).
//		WithRedis(rdb).
//		WithUserProvider(provider).
//		Build()
//	if err != nil { ... }
//	defer engine.Close()
//
//	tok, err := engine.Login(ctx, "en", "alice", "secret")
package authgate
