// Package jwt implements the token codec for the authentication core:
// issuing, verifying, refreshing, and structurally decoding signed bearer
// tokens.
//
// # Claims
//
// Issued tokens carry the subject username plus the display name, role name,
// and authority codes of the authenticated identity:
//
//	{"sub":"alice","name":"Alice","role":"ADMIN","authorities":["READ_ALL"],...}
//
// # Trust boundaries
//
// [Manager.Verify] is the only authorization-grade check: it validates the
// signature, expiry, and registered claims. [Manager.ExtractUsername] and
// [Manager.ExtractExpiration] decode without verifying the signature and must
// never be treated as authorization decisions on their own; they exist for
// the refresh path, which needs the subject of an already-expired token.
//
// # What this package must NOT do
//
//   - Persist tokens or consult the token store.
//   - Import any other authgate package.
package jwt
