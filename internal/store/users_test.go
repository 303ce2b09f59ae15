package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "role",
		"phone", "address", "city", "province", "postal_code", "avatar_url",
		"created_at", "updated_at",
	})
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT 1 FROM users WHERE email =").
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	_, err := s.CreateUser(context.Background(), "Someone", "taken@example.com", "hash")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUserDefaultsToUserRole(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT 1 FROM users WHERE email =").
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Someone", "new@example.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	user, err := s.CreateUser(context.Background(), "Someone", "new@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmailNotFound(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("ghost@example.com").
		WillReturnRows(userRows())

	_, err := s.GetUserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertGoogleUserReturnsExisting(t *testing.T) {
	s, mock := newTestStore(t)
	now := testTime(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("known@example.com").
		WillReturnRows(userRows().
			AddRow(7, "Known", "known@example.com", nil, "user",
				nil, nil, nil, nil, nil, nil, now, now))

	user, err := s.UpsertGoogleUser(context.Background(), "Known", "known@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Nil(t, user.PasswordHash)
}

func TestUpsertGoogleUserCreatesWithoutPassword(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("fresh@example.com").
		WillReturnRows(userRows())
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Fresh", "fresh@example.com", "https://lh3.example/avatar.png", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(8, 1))

	user, err := s.UpsertGoogleUser(context.Background(), "Fresh", "fresh@example.com", "https://lh3.example/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, int64(8), user.ID)
	assert.Nil(t, user.PasswordHash)
	require.NotNil(t, user.AvatarURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRoleNotFound(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT role FROM users WHERE id =").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	_, err := s.UserRole(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
