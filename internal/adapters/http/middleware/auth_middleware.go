package middleware

import (
	"strings"

	"simple-invoice/internal/config"
	"simple-invoice/internal/pkg/jwt"
	"simple-invoice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware verifies the access token before protected handlers
// run. Handlers behind it can rely on "userID" being set; ownership of
// individual resources is still re-checked per request in the services.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := ExtractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}

// ExtractToken pulls the access token from the cookie first, then the
// Authorization header.
func ExtractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// UserID returns the authenticated account id set by AuthMiddleware
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}
