package middleware

import (
	"errors"

	"skillpractice/backend/config"
	"skillpractice/backend/models"
	"skillpractice/backend/store"
	"skillpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// AuthMiddleware resolves the bearer token to a stored, active user and
// keeps it in the request locals.
func AuthMiddleware(cfg *config.Config, users *store.UserStore, log *utils.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		user, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return utils.Unauthorized(c, "User no longer exists")
			}
			return utils.HandleError(c, log, err)
		}
		if !user.IsActive {
			return utils.Unauthorized(c, "Account is disabled")
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if !user.IsAdmin() {
			return utils.Forbidden(c, "Forbidden - Admin access required")
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
