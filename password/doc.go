// Package password implements the external password-hashing primitive the
// authentication core delegates to, with Argon2id defaults.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Verification recomputes the digest with the parameters embedded in the
// stored hash and compares in constant time, so parameter upgrades never
// invalidate existing credentials. [Argon2.NeedsUpgrade] reports whether a
// stored hash is weaker than the configured parameters so the caller can
// re-hash on the next successful login.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length,
// reuse history) belongs to the external user store; user lookup belongs to
// the credential verifier.
package password
