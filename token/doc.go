// Package token persists the one-live-token-per-user records backing the
// authentication core.
//
// # Invariant
//
// At most one [Record] exists per user id at any time. Both backends enforce
// the replace-on-save atomically at the storage layer (Redis inside a single
// Lua script, Postgres through a unique index plus an ON CONFLICT upsert), so
// two concurrent logins for the same user can never leave two live records
// behind, regardless of application-level interleaving.
//
// Records are retained for a grace window past their token's expiry so the
// expired-token branches of login and refresh can observe and delete them;
// after the window the backend reclaims them on its own.
//
// # What this package must NOT do
//
//   - Decide token validity: expiry and signature checks belong to the codec
//     and the engine. Stores only persist and look up.
//   - Import any other authgate package.
package token
