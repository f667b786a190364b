package storage

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/guidebook-kb/guidebook/storage/model"
)

// Storage is a GORM-based storage implementation
type Storage struct {
	db     *gorm.DB
	hasher PasswordHasher
}

var models = []any{
	&articleRow{},
	&userRow{},
}

// NewStorage creates a new GORM-based storage
func NewStorage(config Config) (*Storage, error) {
	db, err := Connect(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err = db.AutoMigrate(models...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	hasher := config.Hasher
	if hasher == nil {
		hasher = SHA256Hasher{}
	}
	return &Storage{
		db:     db,
		hasher: hasher,
	}, nil
}

// ArticlesStorage returns an ArticlesStorage
func (s *Storage) ArticlesStorage() *ArticlesStorage {
	return &ArticlesStorage{db: s.db}
}

// UsersStorage returns a UsersStorage
func (s *Storage) UsersStorage() *UsersStorage {
	return &UsersStorage{db: s.db, hasher: s.hasher}
}

// LoadStorageBackends creates the configured stores, loads their content and
// returns them grouped.
func LoadStorageBackends(cfg Config) (model.Backends, error) {
	switch cfg.Driver {
	case "", DriverJSON:
		articles := NewArticlesFileStorage(cfg.path(cfg.ArticlesFile, DefaultArticlesFile))
		users := NewUsersFileStorage(cfg.path(cfg.UsersFile, DefaultUsersFile), cfg.Hasher)
		if err := articles.Load(); err != nil {
			return model.Backends{}, err
		}
		if err := users.Load(); err != nil {
			return model.Backends{}, err
		}
		return model.Backends{
			Articles: articles,
			Users:    users,
		}, nil
	default:
		warehouse, err := NewStorage(cfg)
		if err != nil {
			return model.Backends{}, err
		}
		return model.Backends{
			Articles: warehouse.ArticlesStorage(),
			Users:    warehouse.UsersStorage(),
		}, nil
	}
}
