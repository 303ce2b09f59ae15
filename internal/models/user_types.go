package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the model for the 'users' table.
// PasswordHash is a pointer because Google-authenticated accounts have no local password.
type User struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Email        string  `json:"email" db:"email"`
	PasswordHash *string `json:"-" db:"password_hash"`
	Role         string  `json:"role" db:"role"` // 'admin' or 'user'

	// --- Profile Fields (Pointers = Clean JSON) ---
	Phone      *string `json:"phone,omitempty" db:"phone"`
	Address    *string `json:"address,omitempty" db:"address"`
	City       *string `json:"city,omitempty" db:"city"`
	Province   *string `json:"province,omitempty" db:"province"`
	PostalCode *string `json:"postalCode,omitempty" db:"postal_code"`
	AvatarURL  *string `json:"avatarUrl,omitempty" db:"avatar_url"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileComplete reports whether the shipping profile is filled in.
// Checkout requires phone, address, city, province and postal code.
func (u *User) ProfileComplete() bool {
	for _, f := range []*string{u.Phone, u.Address, u.City, u.Province, u.PostalCode} {
		if f == nil || *f == "" {
			return false
		}
	}
	return true
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// --- API Input Structs ---

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileInput struct {
	Name       string  `json:"name" binding:"required"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Province   *string `json:"province"`
	PostalCode *string `json:"postalCode"`
}
