// Package auth implements the session based login state of the web
// application: a session is either anonymous or authenticated as one account.
package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"

	"github.com/guidebook-kb/guidebook/storage"
	"github.com/guidebook-kb/guidebook/storage/model"
)

// Session keys
const (
	keyLoggedIn = "logado"
	keyUsername = "usuario"
	keyRole     = "tipo"
)

const localsIdentity = "auth.identity"

// ErrInvalidCredentials is returned for a failed login; it does not tell an
// unknown user from a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is the authentication state of a session
type Identity struct {
	Authenticated bool
	Username      string
	Role          model.Role
}

// IsAdmin reports whether the identity is an authenticated admin
func (i Identity) IsAdmin() bool {
	return i.Authenticated && i.Role == model.RoleAdmin
}

// SessionOptions configure the session cookie
type SessionOptions struct {
	CookieName string
	Lifetime   time.Duration
	Secure     bool
	// Storage may be nil for in-memory sessions
	Storage fiber.Storage
}

// NewSessionStore creates the fiber session store used by a Gate
func NewSessionStore(opts SessionOptions) *session.Store {
	name := opts.CookieName
	if name == "" {
		name = "session"
	}
	lifetime := opts.Lifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return session.New(
		session.Config{
			Expiration:     lifetime,
			Storage:        opts.Storage,
			KeyLookup:      "cookie:" + name,
			CookieSecure:   opts.Secure,
			CookieHTTPOnly: true,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
		},
	)
}

// Gate checks credentials against the user directory and keeps the result in
// the caller's session
type Gate struct {
	sessions *session.Store
	users    model.UsersStore
	hasher   storage.PasswordHasher
}

// NewGate creates a new Gate
func NewGate(sessions *session.Store, users model.UsersStore, hasher storage.PasswordHasher) *Gate {
	if hasher == nil {
		hasher = storage.SHA256Hasher{}
	}
	return &Gate{
		sessions: sessions,
		users:    users,
		hasher:   hasher,
	}
}

// Authenticate checks username and password and returns the account
func (g *Gate) Authenticate(username, password string) (*model.Account, error) {
	account, err := g.users.Get(username)
	if err != nil {
		var nf model.NotFoundError
		if errors.As(err, &nf) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !g.hasher.Verify(account.PasswordDigest, password) {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// Login authenticates the caller and, on success, stores the account in a
// fresh session. On failure the session is left untouched.
func (g *Gate) Login(c *fiber.Ctx, username, password string) (Identity, error) {
	account, err := g.Authenticate(username, password)
	if err != nil {
		return Identity{}, err
	}
	sess, err := g.sessions.Get(c)
	if err != nil {
		return Identity{}, errors.WithStack(err)
	}
	if err = sess.Regenerate(); err != nil {
		return Identity{}, errors.WithStack(err)
	}
	sess.Set(keyLoggedIn, true)
	sess.Set(keyUsername, account.Username)
	sess.Set(keyRole, string(account.Role))
	if err = sess.Save(); err != nil {
		return Identity{}, errors.WithStack(err)
	}
	id := Identity{
		Authenticated: true,
		Username:      account.Username,
		Role:          account.Role,
	}
	c.Locals(localsIdentity, id)
	return id, nil
}

// Logout discards the caller's session
func (g *Gate) Logout(c *fiber.Ctx) error {
	sess, err := g.sessions.Get(c)
	if err != nil {
		return errors.WithStack(err)
	}
	c.Locals(localsIdentity, Identity{})
	return errors.WithStack(sess.Destroy())
}

// Identity returns the authentication state of the caller's session
func (g *Gate) Identity(c *fiber.Ctx) (Identity, error) {
	if id, ok := c.Locals(localsIdentity).(Identity); ok {
		return id, nil
	}
	sess, err := g.sessions.Get(c)
	if err != nil {
		return Identity{}, errors.WithStack(err)
	}
	var id Identity
	if loggedIn, _ := sess.Get(keyLoggedIn).(bool); loggedIn {
		username, _ := sess.Get(keyUsername).(string)
		role, _ := sess.Get(keyRole).(string)
		id = Identity{
			Authenticated: true,
			Username:      username,
			Role:          model.Role(role),
		}
	}
	c.Locals(localsIdentity, id)
	return id, nil
}

// RequireLogin returns a middleware that redirects anonymous callers to
// loginPath
func (g *Gate) RequireLogin(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := g.Identity(c)
		if err != nil {
			return err
		}
		if !id.Authenticated {
			return c.Redirect(loginPath)
		}
		return c.Next()
	}
}

// RequireAdmin returns a middleware that only lets authenticated admins
// through; all other callers are answered by denied
func (g *Gate) RequireAdmin(denied fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := g.Identity(c)
		if err != nil {
			return err
		}
		if !id.IsAdmin() {
			return denied(c)
		}
		return c.Next()
	}
}
