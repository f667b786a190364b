package storage

import (
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidebook-kb/guidebook/storage/model"
)

func newUsersStore(t *testing.T) (*UsersFileStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultUsersFile)
	s := NewUsersFileStorage(path, nil)
	require.NoError(t, s.Load())
	return s, path
}

func TestUsersFileStorageRegisterAndGet(t *testing.T) {
	s, _ := newUsersStore(t)
	require.NoError(t, s.Register("maria", "s3gredo", model.RoleAdmin))

	u, err := s.Get("maria")
	require.NoError(t, err)
	assert.Equal(t, "maria", u.Username)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, HashPassword("s3gredo"), u.PasswordDigest)

	_, err = s.Get("Maria")
	var nf model.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestUsersFileStorageRegisterValidation(t *testing.T) {
	s, path := newUsersStore(t)
	tests := []struct {
		name     string
		username string
		password string
		role     model.Role
	}{
		{name: "empty username", username: "", password: "x", role: model.RoleRegular},
		{name: "empty password", username: "joao", password: "", role: model.RoleRegular},
		{name: "unknown role", username: "joao", password: "x", role: "superuser"},
		{name: "empty role", username: "joao", password: "x", role: ""},
	}
	for _, test := range tests {
		t.Run(
			test.name, func(t *testing.T) {
				err := s.Register(test.username, test.password, test.role)
				var verr model.ValidationError
				assert.True(t, errors.As(err, &verr))
			},
		)
	}
	count, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestUsersFileStorageRegisterDuplicate(t *testing.T) {
	s, _ := newUsersStore(t)
	require.NoError(t, s.Register("joao", "first", model.RoleRegular))

	err := s.Register("joao", "second", model.RoleAdmin)
	var exists model.AlreadyExistsError
	require.True(t, errors.As(err, &exists))

	u, err := s.Get("joao")
	require.NoError(t, err)
	assert.Equal(t, model.RoleRegular, u.Role)
	assert.Equal(t, HashPassword("first"), u.PasswordDigest)
}

func TestUsersFileStorageRoundTrip(t *testing.T) {
	s, path := newUsersStore(t)
	require.NoError(t, s.Register("ana", "a", model.RoleAdmin))
	require.NoError(t, s.Register("bruno", "b", model.RoleRegular))

	reloaded := NewUsersFileStorage(path, nil)
	require.NoError(t, reloaded.Load())
	list, err := reloaded.List()
	require.NoError(t, err)
	assert.Equal(
		t, []model.Account{
			{Username: "ana", Role: model.RoleAdmin},
			{Username: "bruno", Role: model.RoleRegular},
		}, list,
	)
	u, err := reloaded.Get("bruno")
	require.NoError(t, err)
	assert.Equal(t, HashPassword("b"), u.PasswordDigest)
}

func TestUsersFileStorageReadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultUsersFile)
	doc := `{
    "admin": {
        "senha": "` + HashPassword("admin") + `",
        "tipo": "admin"
    }
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	s := NewUsersFileStorage(path, nil)
	require.NoError(t, s.Load())
	u, err := s.Get("admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.True(t, SHA256Hasher{}.Verify(u.PasswordDigest, "admin"))
}

func TestUsersFileStorageSkipsInvalidRoles(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultUsersFile)
	doc := `{
    "admin": {"senha": "` + HashPassword("admin") + `", "tipo": "admin"},
    "root": {"senha": "` + HashPassword("root") + `", "tipo": "superuser"},
    "": {"senha": "` + HashPassword("x") + `", "tipo": "comum"}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	s := NewUsersFileStorage(path, nil)
	require.NoError(t, s.Load())

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	_, err = s.Get("root")
	var nf model.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestUsersFileStorageCopiesUsername(t *testing.T) {
	s, _ := newUsersStore(t)
	buf := []byte("zzzzzzzz")
	role := []byte("comum")
	require.NoError(
		t, s.Register(
			unsafe.String(&buf[0], len(buf)), "pw",
			model.Role(unsafe.String(&role[0], len(role))),
		),
	)
	copy(buf, "qqqqqqqq")
	copy(role, "admin")

	u, err := s.Get("zzzzzzzz")
	require.NoError(t, err)
	assert.Equal(t, "zzzzzzzz", u.Username)
	assert.Equal(t, model.RoleRegular, u.Role)
	_, err = s.Get("qqqqqqqq")
	assert.Error(t, err)
}
