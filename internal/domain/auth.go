package domain

import "time"

// TokenType is the scheme returned to clients alongside an access token.
const TokenType = "bearer"

// AccessToken is the result of a successful login.
type AccessToken struct {
	Token     string
	Subject   string
	ExpiresAt time.Time
}
