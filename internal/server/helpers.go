package server

import (
	"errors"
	"strings"
	"unicode"

	"artemis/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// respondError maps an error to its HTTP status and writes the JSON body.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.HTTPStatus(err), err)
}

// currentIdentity reads the identity locals set by RequireIdentity.
func currentIdentity(c *fiber.Ctx) (userID string, anonymous bool, ok bool) {
	userID, ok = c.Locals("userID").(string)
	if !ok || userID == "" {
		return "", false, false
	}
	anonymous, _ = c.Locals("anonymous").(bool)
	return userID, anonymous, true
}

// currentProfile resolves the full profile behind the request's identity.
// On failure it writes the HTTP error response and returns errResponseWritten.
func (s *Server) currentProfile(c *fiber.Ctx) (*models.UserProfile, error) {
	userID, anonymous, ok := currentIdentity(c)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewAuthRequiredError("An active identity is required"))
		return nil, errResponseWritten
	}

	var (
		profile *models.UserProfile
		err     error
	)
	if anonymous {
		profile, err = s.resolver.ResolveAnonymous(c.Context(), userID)
	} else {
		profile, err = s.resolver.ResolveAuthenticated(c.Context(), userID)
	}
	if err != nil {
		_ = respondError(c, err)
		return nil, errResponseWritten
	}
	return profile, nil
}
