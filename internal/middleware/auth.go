package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"github.com/KaitoZan/fnm-dashboard/internal/db"
	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

// AuthMiddleware handles user authentication via sessions and gates
// privileged routes on the admin role.
type AuthMiddleware struct {
	db *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{db: database}
}

// RequireAuth resolves the session to a user profile and stores it in
// request locals. Requests without a valid session get 401.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthenticated")
	}

	userSub, _ := sess.Get("user_sub").(string)
	if userSub == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthenticated")
	}

	user, err := m.db.GetUserBySub(c.Context(), userSub)
	if err != nil {
		sess.Destroy()
		return fiber.NewError(fiber.StatusUnauthorized, "unauthenticated")
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireAdmin aborts with 403 unless the authenticated user is an admin.
// Must run after RequireAuth; it never mutates anything, so a denied
// request has no side effects.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthenticated")
	}
	if !user.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "you do not have permission to perform this action")
	}
	return c.Next()
}

// CurrentUser returns the authenticated user from request locals.
func CurrentUser(c fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok
}
