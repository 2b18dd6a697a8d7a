package dto

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spec-kit/inventory-service/internal/auth"
	"github.com/spec-kit/inventory-service/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns per-field problems, or nil when the payload is acceptable.
func (r *UserRegisterRequest) Validate() map[string]any {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)

	problems := map[string]any{}
	if r.Username == "" {
		problems["username"] = "required"
	}
	if r.Email == "" {
		problems["email"] = "required"
	} else if !strings.Contains(r.Email, "@") {
		problems["email"] = "must be an email address"
	}
	switch {
	case r.Password == "":
		problems["password"] = "required"
	case !utf8.ValidString(r.Password):
		problems["password"] = "must be valid UTF-8"
	case len(r.Password) > auth.MaxPasswordBytes:
		problems["password"] = "must be at most 72 bytes"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// UserLoginRequest is the OAuth2 password-grant form (or its JSON equivalent).
type UserLoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// UserResponse is the public view of a user; the password hash is never included.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsActive: u.IsActive,
		IsAdmin:  u.IsAdmin,
	}
}

// TokenResponse standard response for the token endpoint.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
