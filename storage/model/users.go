package model

import (
	"slices"
)

// Role is the role of an account
type Role string

// Known roles; the values are the ones written to the users document
const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "comum"
)

// Roles lists all valid roles
var Roles = []Role{
	RoleAdmin,
	RoleRegular,
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// ParseRole returns the Role for s or a ValidationError
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ValidationErrorFmt("invalid role '%s'", s)
	}
	return r, nil
}

// Account is a user of the knowledge base
type Account struct {
	// Username is the primary key; it is the map key in the users document
	Username string `json:"-"`
	// PasswordDigest is the stored digest of the password
	PasswordDigest string `json:"senha"`
	// Role is either admin or comum
	Role Role `json:"tipo"`
}

// UsersStore abstracts the user directory.
type UsersStore interface {
	// Load (re)reads the directory from the underlying storage
	Load() error
	// Count returns the number of accounts present in the store
	Count() (int64, error)
	// List returns all accounts sorted by username (without password digests)
	List() ([]Account, error)
	// Get returns an account by username or a NotFoundError
	Get(username string) (*Account, error)
	// Register creates an account; the implementation must hash the password
	Register(username, password string, role Role) error
}
