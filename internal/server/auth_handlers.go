package server

import (
	"errors"
	"fmt"
	"time"

	"artemis/internal/identity"
	"artemis/internal/middleware"
	"artemis/internal/models"
	"artemis/internal/repository"
	"artemis/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ResolveIdentity handles GET /api/identity. It returns the profile for the
// identity the request carries; a request with no identity at all gets a
// fresh anonymous one, delivered via cookie.
func (s *Server) ResolveIdentity(c *fiber.Ctx) error {
	if token := c.Cookies(middleware.IdentityCookie); token != "" {
		profile, err := s.resolver.ResolveAnonymous(c.Context(), token)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(profile)
	}

	token := identity.NewToken()
	profile, err := s.resolver.ResolveAnonymous(c.Context(), token)
	if err != nil {
		return respondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.IdentityCookie,
		Value:    token,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HTTPOnly: false, // the web client mirrors it into local storage
		SameSite: "Lax",
		Path:     "/",
	})

	return c.Status(fiber.StatusCreated).JSON(profile)
}

// Register handles POST /api/auth/register. When the request carries the
// anonymous cookie the existing profile is promoted in place, so prior posts
// and comments stay attached; otherwise a fresh account is created.
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateDisplayName(req.DisplayName); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if _, err := s.profileRepo.GetByEmail(c.Context(), req.Email); err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("An account with this email already exists"))
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return respondError(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	var profile *models.UserProfile
	if anonToken := c.Cookies(middleware.IdentityCookie); anonToken != "" {
		profile, err = s.resolver.Promote(c.Context(), anonToken, req.DisplayName, req.Email, string(hashed))
		if models.IsCode(err, models.CodeNotFound) {
			// Stale cookie with no profile behind it; fall through to a
			// fresh account.
			profile, err = nil, nil
		}
		if err != nil {
			return respondError(c, err)
		}
	}
	if profile == nil {
		profile = &models.UserProfile{
			ID:           identity.NewToken(),
			DisplayName:  req.DisplayName,
			Email:        req.Email,
			PasswordHash: string(hashed),
			Preferences:  models.DefaultPreferences(),
		}
		if err := s.profileRepo.Create(c.Context(), profile); err != nil {
			return respondError(c, err)
		}
	}

	token, err := s.generateToken(profile.ID, profile.DisplayName)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"profile": profile,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthRequiredError("Invalid credentials"))
		}
		return respondError(c, err)
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewAuthRequiredError("Invalid credentials"))
	}

	token, err := s.generateToken(profile.ID, profile.DisplayName)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"profile": profile,
	})
}

// generateToken creates a JWT for the given profile id and display name.
func (s *Server) generateToken(userID, displayName string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"name": displayName,
		"iss":  "artemis-api",
		"aud":  "artemis-client",
		"exp":  now.Add(time.Hour * 24 * 7).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  fmt.Sprintf("%d-%s", now.Unix(), uuid.NewString()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
