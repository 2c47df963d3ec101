package pokejournal

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles a user can hold.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Credential limits enforced at signup.
const (
	MinPasswordLength = 6
	MinNameLength     = 3
)

// SignupInput is a new account request.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// errBadCredentials is shared by every login failure so callers cannot tell
// unknown emails from wrong passwords.
var errBadCredentials = &ValidationError{Message: "invalid email or password"}

func (in SignupInput) validate() error {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return invalidf("invalid email address")
	}
	if len(in.Password) < MinPasswordLength {
		return invalidf("password must be at least %d characters", MinPasswordLength)
	}
	if len(strings.TrimSpace(in.FirstName)) < MinNameLength || len(strings.TrimSpace(in.LastName)) < MinNameLength {
		return invalidf("first and last name must be at least %d characters", MinNameLength)
	}
	return nil
}

// Signup creates an account with a bcrypt password hash.
func (s *Store) Signup(ctx context.Context, in SignupInput) (*User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := in.validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Unscoped().Model(&User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, invalidf("email address is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Username:     strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         RoleUser,
	}
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the active user with email and password.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return &u, nil
}

// GetUser returns an active user.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	return first[User](s.db.WithContext(ctx), "user", id)
}
