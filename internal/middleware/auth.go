// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"strings"

	"artemis/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityCookie is the cookie carrying the durable anonymous identifier.
// The name mirrors the key the web client keeps in local storage.
const IdentityCookie = "artemis-eco-user-id"

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// userIDFromToken parses and validates a bearer token, returning the profile id
// from the "sub" claim.
func userIDFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}
	return sub, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// RequireIdentity enforces that the request carries an active identity: a valid
// JWT for authenticated users, or the durable anonymous cookie. Every mutation
// route sits behind it. Sets c.Locals("userID") to the profile id.
func RequireIdentity(c *fiber.Ctx) error {
	if token := bearerToken(c); token != "" {
		userID, err := userIDFromToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		c.Locals("userID", userID)
		c.Locals("anonymous", false)
		return c.Next()
	}

	if anonID := c.Cookies(IdentityCookie); anonID != "" {
		c.Locals("userID", anonID)
		c.Locals("anonymous", true)
		return c.Next()
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "An active identity is required",
		"code":  "AUTH_REQUIRED",
	})
}

// AuthRequired enforces a valid JWT; anonymous identities are rejected.
// Used only by routes that need a signed-in account.
func AuthRequired(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	userID, err := userIDFromToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	c.Locals("userID", userID)
	c.Locals("anonymous", false)
	return c.Next()
}

// OptionalIdentity resolves the identity when present but never rejects.
func OptionalIdentity(c *fiber.Ctx) error {
	if token := bearerToken(c); token != "" {
		if userID, err := userIDFromToken(token); err == nil {
			c.Locals("userID", userID)
			c.Locals("anonymous", false)
			return c.Next()
		}
	}
	if anonID := c.Cookies(IdentityCookie); anonID != "" {
		c.Locals("userID", anonID)
		c.Locals("anonymous", true)
	}
	return c.Next()
}
