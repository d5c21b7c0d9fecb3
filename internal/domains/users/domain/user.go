package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Role gates access to the admin console.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var (
	ErrNameRequired      = errors.New("Name is required")
	ErrUsernameRequired  = errors.New("Username is required")
	ErrEmailRequired     = errors.New("Email is required")
	ErrInvalidEmail      = errors.New("Email is invalid")
	ErrPasswordRequired  = errors.New("Password is required")
	ErrUsernameTaken     = errors.New("Username already used")
	ErrEmailTaken        = errors.New("Email already used")
	ErrInvalidCredential = errors.New("Invalid credentials")
	ErrInvalidRequest    = errors.New("Invalid request")
	ErrUnknownRole       = errors.New("Role is invalid")
)

// User is a storefront account. PasswordHash is never rendered.
type User struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a user with trimmed, validated identity fields.
func NewUser(name, username, email, passwordHash string, role Role) (*User, error) {
	u := &User{PasswordHash: passwordHash, Role: role}
	if err := u.Rename(name); err != nil {
		return nil, err
	}
	if err := u.ChangeUsername(username); err != nil {
		return nil, err
	}
	if err := u.ChangeEmail(email); err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	u.Name = name
	return nil
}

func (u *User) ChangeUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	u.Username = username
	return nil
}

func (u *User) ChangeEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// IsAdmin reports whether the user may use the admin console.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Validate re-applies identity invariants before persistence.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(u.Username) == "" {
		return ErrUsernameRequired
	}
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmailRequired
	}
	if strings.TrimSpace(u.PasswordHash) == "" {
		return ErrPasswordRequired
	}
	switch u.Role {
	case RoleUser, RoleAdmin:
	default:
		return ErrUnknownRole
	}
	return nil
}

// ParseRole converts a stored role name.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrUnknownRole
	}
}
