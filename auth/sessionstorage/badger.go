package sessionstorage

import (
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// BadgerStorage stores sessions in an embedded badger database, so they
// survive restarts without an external service
type BadgerStorage struct {
	db *badger.DB
}

var _ fiber.Storage = (*BadgerStorage)(nil)

// NewBadgerStorage opens (or creates) the badger database in dir
func NewBadgerStorage(dir string) (*BadgerStorage, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(log.WithField("component", "session-badger")).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "could not open badger session storage")
	}
	return &BadgerStorage{db: db}, nil
}

// Get implements the fiber.Storage interface
func (s *BadgerStorage) Get(key string) (value []byte, err error) {
	if key == "" {
		return nil, nil
	}
	err = s.db.View(
		func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(key))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return nil
				}
				return err
			}
			value, err = item.ValueCopy(nil)
			return err
		},
	)
	return
}

// Set implements the fiber.Storage interface
func (s *BadgerStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.db.Update(
		func(txn *badger.Txn) error {
			e := badger.NewEntry([]byte(key), val)
			if exp > 0 {
				e = e.WithTTL(exp)
			}
			return txn.SetEntry(e)
		},
	)
}

// Delete implements the fiber.Storage interface
func (s *BadgerStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Update(
		func(txn *badger.Txn) error {
			return txn.Delete([]byte(key))
		},
	)
}

// Reset implements the fiber.Storage interface
func (s *BadgerStorage) Reset() error {
	return s.db.DropAll()
}

// Close implements the fiber.Storage interface
func (s *BadgerStorage) Close() error {
	return s.db.Close()
}
