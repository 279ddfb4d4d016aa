package authgate

import "context"

// Identity is the immutable authenticated-user snapshot used to populate
// token claims. It is loaded fresh per authentication event and never
// persisted by this subsystem.
type Identity struct {
	ID          int64
	Username    string
	Name        string
	Role        string
	Permissions []string
}

// UserRecord is the credential-bearing user representation supplied by the
// external user store.
type UserRecord struct {
	ID           int64
	Username     string
	Name         string
	Role         string
	Permissions  []string
	PasswordHash string
	Disabled     bool
}

// UserProvider is the narrow interface to the external identity/role store.
//
// Implementations return [ErrUserNotFound] when no account matches; any other
// error is treated as a backend failure.
type UserProvider interface {
	FindByUsername(ctx context.Context, username string) (*UserRecord, error)
	FindByID(ctx context.Context, id int64) (*UserRecord, error)
}

// PasswordHasher is the external password primitive. [password.Argon2]
// satisfies it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}

func (r *UserRecord) identity() *Identity {
	perms := make([]string, len(r.Permissions))
	copy(perms, r.Permissions)
	return &Identity{
		ID:          r.ID,
		Username:    r.Username,
		Name:        r.Name,
		Role:        r.Role,
		Permissions: perms,
	}
}
