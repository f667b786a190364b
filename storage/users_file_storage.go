package storage

import (
	"maps"
	"slices"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/guidebook-kb/guidebook/storage/model"
)

// UsersFileStorage keeps the user directory in memory and persists it as a
// JSON object mapping usernames to accounts. Every Register rewrites the
// whole file.
type UsersFileStorage struct {
	doc    jsonDocument
	hasher PasswordHasher
	mutex  sync.RWMutex
	users  map[string]model.Account
}

// NewUsersFileStorage creates a new UsersFileStorage for the file at path.
// Load must be called to read existing accounts.
func NewUsersFileStorage(path string, hasher PasswordHasher) *UsersFileStorage {
	if hasher == nil {
		hasher = SHA256Hasher{}
	}
	return &UsersFileStorage{
		doc:    jsonDocument{path: path},
		hasher: hasher,
		users:  make(map[string]model.Account),
	}
}

// Load implements the model.UsersStore interface
func (s *UsersFileStorage) Load() error {
	users := make(map[string]model.Account)
	if _, err := s.doc.read(&users); err != nil {
		return err
	}
	for name, u := range users {
		if name == "" || !u.Role.Valid() {
			log.WithFields(
				log.Fields{
					"user": name,
					"role": u.Role,
					"file": s.doc.path,
				},
			).Warn("ignoring account with invalid username or role")
			delete(users, name)
			continue
		}
		u.Username = name
		users[name] = u
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.users = users
	return nil
}

// Count implements the model.UsersStore interface
func (s *UsersFileStorage) Count() (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return int64(len(s.users)), nil
}

// List implements the model.UsersStore interface
func (s *UsersFileStorage) List() ([]model.Account, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	names := slices.Sorted(maps.Keys(s.users))
	out := make([]model.Account, len(names))
	for i, name := range names {
		u := s.users[name]
		u.PasswordDigest = ""
		out[i] = u
	}
	return out, nil
}

// Get implements the model.UsersStore interface
func (s *UsersFileStorage) Get(username string) (*model.Account, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, model.NotFoundErrorFmt("user not found: %s", username)
	}
	return &u, nil
}

// Register implements the model.UsersStore interface
func (s *UsersFileStorage) Register(username, password string, role model.Role) error {
	if err := validateRegistration(username, password, role); err != nil {
		return err
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	username = strings.Clone(username)
	role = model.Role(strings.Clone(string(role)))

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.users[username]; exists {
		return model.AlreadyExistsErrorFmt("user already exists: %s", username)
	}
	s.users[username] = model.Account{
		Username:       username,
		PasswordDigest: digest,
		Role:           role,
	}
	if err = s.doc.write(s.users); err != nil {
		delete(s.users, username)
		return err
	}
	return nil
}

func validateRegistration(username, password string, role model.Role) error {
	if username == "" || password == "" {
		return model.ValidationError("username and password are required")
	}
	if !role.Valid() {
		return model.ValidationErrorFmt("invalid role '%s'", role)
	}
	return nil
}
