package mapper

import (
	userdomain "github.com/finprodb/shop-api/internal/domains/users/domain"
	userports "github.com/finprodb/shop-api/internal/domains/users/ports"
)

// Profile is the public account view returned by /api/me and the admin user list.
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest accepts a username or an email as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// UpdateMeRequest carries optional profile changes.
type UpdateMeRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func ToRegisterInput(req RegisterRequest) userports.RegisterInput {
	return userports.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

func ToProfileUpdate(req *UpdateMeRequest) *userports.ProfileUpdate {
	if req == nil {
		return nil
	}
	return &userports.ProfileUpdate{Name: req.Name, Username: req.Username, Email: req.Email}
}

func FromDomainProfile(user *userdomain.User) Profile {
	if user == nil {
		return Profile{}
	}
	return Profile{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}
}

func FromAuthResult(result *userports.AuthResult) AuthResponse {
	if result == nil || result.User == nil {
		return AuthResponse{}
	}
	return AuthResponse{
		Token:     result.Token,
		TokenType: result.TokenType,
		UserID:    result.User.ID,
		Name:      result.User.Name,
		Username:  result.User.Username,
		Email:     result.User.Email,
		Role:      string(result.User.Role),
	}
}
