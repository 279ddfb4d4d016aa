package authgate

import (
	"context"
	"fmt"

	"github.com/MrEthical07/authgate/internal/flows"
	"github.com/MrEthical07/authgate/logging"
)

// dummyPassword is hashed once at construction so that Authenticate can run
// a verification of equal cost for unknown usernames.
const dummyPassword = "authgate-dummy-credential"

// Verifier resolves usernames against the configured UserProvider and checks
// passwords with the configured hasher.
type Verifier struct {
	users     UserProvider
	hasher    PasswordHasher
	log       logging.Logger
	dummyHash string
}

// NewVerifier builds a Verifier. The dummy hash used to equalize timing for
// unknown users is computed here, so construction cost mirrors a single Hash
// call.
func NewVerifier(users UserProvider, hasher PasswordHasher, log logging.Logger) (*Verifier, error) {
	if users == nil {
		return nil, fmt.Errorf("verifier: user provider required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("verifier: password hasher required")
	}
	if log == nil {
		log = logging.Nop{}
	}
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("verifier: hashing dummy credential: %w", err)
	}
	return &Verifier{users: users, hasher: hasher, log: log, dummyHash: dummy}, nil
}

// Authenticate checks the credentials and returns the account's principal.
// Unknown usernames, disabled accounts, and wrong passwords all come back as
// ErrAuthenticationFailed. A password verification runs even for unknown
// usernames so response timing does not reveal account existence.
func (v *Verifier) Authenticate(ctx context.Context, username, password string) (*flows.Principal, error) {
	user, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		_, _ = v.hasher.Verify(password, v.dummyHash)
		v.log.Warn(ctx, "authentication failed", "username", username, "reason", "unknown user")
		return nil, ErrAuthenticationFailed
	}
	if user.Disabled {
		_, _ = v.hasher.Verify(password, v.dummyHash)
		v.log.Warn(ctx, "authentication failed", "username", username, "reason", "account disabled")
		return nil, ErrAuthenticationFailed
	}
	ok, err := v.hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		v.log.Warn(ctx, "authentication failed", "username", username, "reason", "bad password")
		return nil, ErrAuthenticationFailed
	}
	return &flows.Principal{
		ID:          user.ID,
		Username:    user.Username,
		Name:        user.Name,
		Role:        user.Role,
		Authorities: user.Permissions,
	}, nil
}

// LoadIdentity fetches the public identity of an account by username.
func (v *Verifier) LoadIdentity(ctx context.Context, username string) (*Identity, error) {
	user, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user.identity(), nil
}

// LoadIdentityByID fetches the public identity of an account by numeric id.
func (v *Verifier) LoadIdentityByID(ctx context.Context, id int64) (*Identity, error) {
	user, err := v.users.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user.identity(), nil
}
