package storage

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/guidebook-kb/guidebook/storage/model"
)

type userRow struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	Username       string `gorm:"uniqueIndex;size:191"`
	PasswordDigest string
	Role           string `gorm:"size:16"`
}

// TableName implements the gorm.Tabler interface
func (userRow) TableName() string {
	return "users"
}

func (r userRow) account() *model.Account {
	return &model.Account{
		Username:       r.Username,
		PasswordDigest: r.PasswordDigest,
		Role:           model.Role(r.Role),
	}
}

// UsersStorage implements model.UsersStore using GORM
type UsersStorage struct {
	db     *gorm.DB
	hasher PasswordHasher
}

// Load implements the model.UsersStore interface; the database needs no
// preloading
func (*UsersStorage) Load() error {
	return nil
}

// Count returns the number of users present in the store
func (s *UsersStorage) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&userRow{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns all users (without password digests)
func (s *UsersStorage) List() ([]model.Account, error) {
	var rows []userRow
	if err := s.db.Order("username").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Account, len(rows))
	for i, r := range rows {
		a := r.account()
		a.PasswordDigest = ""
		out[i] = *a
	}
	return out, nil
}

// Get returns a user by username
func (s *UsersStorage) Get(username string) (*model.Account, error) {
	var r userRow
	if err := s.db.Where("username = ?", username).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("user not found: %s", username)
		}
		return nil, err
	}
	return r.account(), nil
}

// Register creates a user with a hashed password
func (s *UsersStorage) Register(username, password string, role model.Role) error {
	if err := validateRegistration(username, password, role); err != nil {
		return err
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.db.Transaction(
		func(tx *gorm.DB) error {
			var existing int64
			if err := tx.Model(&userRow{}).Where("username = ?", username).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return model.AlreadyExistsErrorFmt("user already exists: %s", username)
			}
			return createUser(
				tx, &userRow{
					Username:       username,
					PasswordDigest: digest,
					Role:           string(role),
				},
			)
		},
	)
}

// createUser inserts row; a unique index violation from a concurrent insert
// is reported as model.AlreadyExistsError
func createUser(db *gorm.DB, row *userRow) error {
	err := db.Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.AlreadyExistsErrorFmt("user already exists: %s", row.Username)
	}
	return err
}
