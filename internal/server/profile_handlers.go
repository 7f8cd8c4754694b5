package server

import (
	"artemis/internal/models"
	"artemis/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.currentProfile(c)
	if err != nil {
		return nil
	}
	return c.JSON(profile)
}

// UpdateDisplayName handles PUT /api/profile/me/display-name
func (s *Server) UpdateDisplayName(c *fiber.Ctx) error {
	profile, err := s.currentProfile(c)
	if err != nil {
		return nil
	}

	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.profileService.UpdateDisplayName(c.Context(), profile.ID, req.DisplayName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// UpdatePreferences handles PUT /api/profile/me/preferences. The body is a
// partial patch; omitted fields keep their stored value.
func (s *Server) UpdatePreferences(c *fiber.Ctx) error {
	profile, err := s.currentProfile(c)
	if err != nil {
		return nil
	}

	var patch service.PreferencesPatch
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.profileService.SetPreferences(c.Context(), profile.ID, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// ToggleColorScheme handles POST /api/profile/me/preferences/color-scheme/toggle
func (s *Server) ToggleColorScheme(c *fiber.Ctx) error {
	profile, err := s.currentProfile(c)
	if err != nil {
		return nil
	}

	updated, err := s.profileService.ToggleColorScheme(c.Context(), profile.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// GetFeatureFlags handles GET /api/feature-flags. Flags are evaluated for the
// request's identity when present, so percentage rollouts are deterministic
// per user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Snapshot(userID),
	})
}
