// Package identity resolves the profile behind an incoming request, whether
// the caller is signed in or browsing under a client-generated anonymous
// token, and handles promotion from the latter to the former.
package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"artemis/internal/models"
	"artemis/internal/repository"
)

// Resolver turns identity tokens into user profiles, creating anonymous
// profiles on first sight.
type Resolver struct {
	profiles repository.ProfileRepository
}

// NewResolver creates a Resolver backed by the given profile repository.
func NewResolver(profiles repository.ProfileRepository) *Resolver {
	return &Resolver{profiles: profiles}
}

// NewToken mints a fresh anonymous identity token.
func NewToken() string {
	return uuid.NewString()
}

// DefaultDisplayName labels authenticated profiles recreated without a name.
const DefaultDisplayName = "Eco Member"

// ResolveAuthenticated fetches the profile for a signed-in user. Registration
// creates the record, so a miss normally means a valid token outlived a reset
// database; the profile is recreated with a default label rather than locking
// the session out.
func (r *Resolver) ResolveAuthenticated(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := r.profiles.GetByID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, err
	}

	profile = &models.UserProfile{
		ID:          userID,
		DisplayName: DefaultDisplayName,
		Preferences: models.DefaultPreferences(),
	}
	if err := r.profiles.Create(ctx, profile); err != nil {
		if models.IsCode(err, models.CodeValidation) {
			return r.profiles.GetByID(ctx, userID)
		}
		return nil, err
	}
	slog.Info("recreated authenticated profile", "user_id", userID)
	return profile, nil
}

// ResolveAnonymous fetches or creates the profile for an anonymous token.
// Unknown tokens get a fresh profile with a generated display name and
// default preferences. A backend failure is returned as-is: it must not be
// mistaken for absence, or we would shadow an existing profile with a new one.
func (r *Resolver) ResolveAnonymous(ctx context.Context, token string) (*models.UserProfile, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, models.NewValidationError("Invalid identity token")
	}

	profile, err := r.profiles.GetByID(ctx, token)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, err
	}

	profile = &models.UserProfile{
		ID:          token,
		DisplayName: AnonymousName(),
		Anonymous:   true,
		Preferences: models.DefaultPreferences(),
	}
	if err := r.profiles.Create(ctx, profile); err != nil {
		// Lost a create race with another tab on the same token.
		if models.IsCode(err, models.CodeValidation) {
			return r.profiles.GetByID(ctx, token)
		}
		return nil, err
	}
	slog.Info("created anonymous profile", "user_id", profile.ID, "display_name", profile.DisplayName)
	return profile, nil
}

// Promote upgrades an anonymous profile into an authenticated one in place.
// The record keeps its id, so existing posts and comments stay attached; the
// display name is replaced and the anonymous marker cleared.
func (r *Resolver) Promote(ctx context.Context, token, displayName, email, passwordHash string) (*models.UserProfile, error) {
	profile, err := r.profiles.GetByID(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, models.NewNotFoundError("Profile", token)
		}
		return nil, err
	}
	if !profile.Anonymous {
		return nil, models.NewValidationError("Profile is already registered")
	}

	profile.DisplayName = displayName
	profile.Email = email
	profile.PasswordHash = passwordHash
	profile.Anonymous = false
	if err := r.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	slog.Info("promoted anonymous profile", "user_id", profile.ID)
	return profile, nil
}
