package service

import (
	"context"
	"errors"
	"strings"

	"artemis/internal/models"
	"artemis/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// PreferencesPatch is a partial preferences update. Nil fields keep their
// current value.
type PreferencesPatch struct {
	ShowImagesInFeed  *bool               `json:"show_images_in_feed"`
	ShowContentInFeed *bool               `json:"show_content_in_feed"`
	ColorScheme       *models.ColorScheme `json:"color_scheme"`
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, err
	}
	return profile, nil
}

// SetPreferences merges the patch into the stored preferences and persists
// the result. The full updated profile is returned.
func (s *ProfileService) SetPreferences(ctx context.Context, userID string, patch PreferencesPatch) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.ShowImagesInFeed != nil {
		profile.Preferences.ShowImagesInFeed = *patch.ShowImagesInFeed
	}
	if patch.ShowContentInFeed != nil {
		profile.Preferences.ShowContentInFeed = *patch.ShowContentInFeed
	}
	if patch.ColorScheme != nil {
		if !patch.ColorScheme.Valid() {
			return nil, models.NewValidationError("Invalid color scheme")
		}
		profile.Preferences.ColorScheme = *patch.ColorScheme
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ToggleColorScheme advances the color scheme one step through
// light -> dark -> system and persists the result.
func (s *ProfileService) ToggleColorScheme(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Preferences.ColorScheme = profile.Preferences.ColorScheme.Next()
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateDisplayName renames the profile. Posts and comments keep the author
// name they were written under.
func (s *ProfileService) UpdateDisplayName(ctx context.Context, userID, displayName string) (*models.UserProfile, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, models.NewValidationError("Display name is required")
	}
	if len(displayName) > 64 {
		return nil, models.NewValidationError("Display name too long (max 64 characters)")
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.DisplayName = displayName
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
