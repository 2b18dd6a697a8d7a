package auth

import (
	"errors"
	"maps"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is applied when no positive TTL is configured or requested.
const DefaultTokenTTL = 30 * time.Minute

// Claim keys set by the token manager. Caller claims cannot override them.
const (
	ClaimSubject   = "sub"
	ClaimExpiresAt = "exp"
	ClaimIssuedAt  = "iat"
	ClaimTokenID   = "jti"
)

// ErrEmptySubject is returned when a token is requested without a subject.
var ErrEmptySubject = errors.New("token subject is required")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	ttl := DefaultTokenTTL
	if ttlMinutes > 0 {
		ttl = time.Duration(ttlMinutes) * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the wall clock used for issuing and verifying tokens.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// TTL returns the default token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// GenerateToken issues a token for subject with the default TTL.
func (tm *TokenManager) GenerateToken(subject string, claims map[string]any) (string, time.Time, error) {
	return tm.Issue(subject, claims, tm.ttl)
}

// Issue builds and signs an HS256 JWT carrying subject, the caller claims and an
// absolute UTC expiry of now+ttl. A non-positive ttl falls back to the default.
func (tm *TokenManager) Issue(subject string, claims map[string]any, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrEmptySubject
	}
	if ttl <= 0 {
		ttl = tm.ttl
	}

	issuedAt := tm.now().UTC()
	expiresAt := jwt.NewNumericDate(issuedAt.Add(ttl))

	payload := make(jwt.MapClaims, len(claims)+4)
	maps.Copy(payload, claims)
	if _, ok := payload[ClaimTokenID]; !ok {
		payload[ClaimTokenID] = uuid.NewString()
	}
	payload[ClaimSubject] = subject
	payload[ClaimIssuedAt] = jwt.NewNumericDate(issuedAt)
	payload[ClaimExpiresAt] = expiresAt

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt.Time.UTC(), nil
}

// Verify checks signature, algorithm, expiry and subject presence. It returns the
// decoded claims and true only when every check passes.
func (tm *TokenManager) Verify(tokenStr string) (jwt.MapClaims, bool) {
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, false
	}
	return claims, true
}
