package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inventory-service/internal/domain"
	apperrors "github.com/spec-kit/inventory-service/pkg/util/errorutil"
)

// Rule is a role predicate with the message returned when it denies access.
type Rule struct {
	Allow  func(*domain.User) bool
	Denial string
}

// AdminOnly admits administrators.
var AdminOnly = Rule{
	Allow:  func(u *domain.User) bool { return u.IsAdmin },
	Denial: "requires administrator privileges",
}

// Require returns user when it satisfies rule. A missing user is unauthorized,
// a user failing the rule is forbidden.
func Require(user *domain.User, rule Rule) (*domain.User, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized(CredentialsMessage)
	}
	if rule.Allow == nil || !rule.Allow(user) {
		return nil, apperrors.NewForbidden(rule.Denial)
	}
	return user, nil
}

// RequireRule gates a route on the authenticated user satisfying rule.
func RequireRule(rule Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := UserFromContext(c)
		if _, err := Require(user, rule); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller is an administrator.
func RequireAdmin() fiber.Handler {
	return RequireRule(AdminOnly)
}

// RequireAnyRole ensures a caller has been authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserFromContext(c); !ok {
			return apperrors.NewUnauthorized(CredentialsMessage)
		}
		return c.Next()
	}
}
