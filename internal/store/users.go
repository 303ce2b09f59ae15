package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iyanhz/gostore/internal/models"
)

const userColumns = `id, name, email, password_hash, role, phone, address, city, province, postal_code, avatar_url, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Phone, &u.Address, &u.City, &u.Province, &u.PostalCode, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser registers a local account. Returns ErrEmailTaken when the
// email is already in use.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	var exists int
	err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, 'user', ?, ?)`,
		name, email, passwordHash, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: &passwordHash,
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// UserRole returns the role of a user, for the role-guard middleware.
func (s *Store) UserRole(ctx context.Context, id int64) (string, error) {
	var role string
	err := s.DB.QueryRowContext(ctx, "SELECT role FROM users WHERE id = ?", id).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return role, nil
}

// UpdateProfile writes the shipping profile fields. The caller reloads
// the user afterwards to get the derived completion flag.
func (s *Store) UpdateProfile(ctx context.Context, id int64, in models.UpdateProfileInput) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE users
		SET name = ?, phone = ?, address = ?, city = ?, province = ?, postal_code = ?, updated_at = ?
		WHERE id = ?`,
		in.Name, in.Phone, in.Address, in.City, in.Province, in.PostalCode, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	res, err := s.DB.ExecContext(ctx,
		"UPDATE users SET avatar_url = ?, updated_at = ? WHERE id = ?",
		avatarURL, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertGoogleUser finds or creates the account for a Google login.
// First logins get a row with a NULL password hash; local login then
// refuses those accounts and points the user back to Google.
func (s *Store) UpsertGoogleUser(ctx context.Context, name, email, avatarURL string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	var avatar *string
	if avatarURL != "" {
		avatar = &avatarURL
	}
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, avatar_url, created_at, updated_at)
		VALUES (?, ?, NULL, 'user', ?, ?, ?)`,
		name, email, avatar, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      "user",
		AvatarURL: avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
