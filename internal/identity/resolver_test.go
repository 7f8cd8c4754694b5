package identity

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artemis/internal/models"
	"artemis/internal/repository"
)

type stubProfiles struct {
	getByID func(ctx context.Context, id string) (*models.UserProfile, error)
	create  func(ctx context.Context, p *models.UserProfile) error
	update  func(ctx context.Context, p *models.UserProfile) error
}

func (s *stubProfiles) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	return s.getByID(ctx, id)
}

func (s *stubProfiles) GetByEmail(context.Context, string) (*models.UserProfile, error) {
	return nil, repository.ErrProfileNotFound
}

func (s *stubProfiles) Create(ctx context.Context, p *models.UserProfile) error {
	return s.create(ctx, p)
}

func (s *stubProfiles) Update(ctx context.Context, p *models.UserProfile) error {
	return s.update(ctx, p)
}

func TestResolveAuthenticatedReturnsExisting(t *testing.T) {
	existing := &models.UserProfile{ID: "u1", DisplayName: "Alex", Email: "alex@example.com"}
	stub := &stubProfiles{
		getByID: func(context.Context, string) (*models.UserProfile, error) {
			return existing, nil
		},
	}

	profile, err := NewResolver(stub).ResolveAuthenticated(context.Background(), "u1")

	require.NoError(t, err)
	assert.Same(t, existing, profile)
}

func TestResolveAuthenticatedRecreatesMissingProfile(t *testing.T) {
	var created *models.UserProfile
	stub := &stubProfiles{
		getByID: func(context.Context, string) (*models.UserProfile, error) {
			return nil, repository.ErrProfileNotFound
		},
		create: func(_ context.Context, p *models.UserProfile) error {
			created = p
			return nil
		},
	}

	profile, err := NewResolver(stub).ResolveAuthenticated(context.Background(), "u1")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, DefaultDisplayName, profile.DisplayName)
	assert.False(t, profile.Anonymous)
	assert.Equal(t, models.DefaultPreferences(), profile.Preferences)
}

func TestResolveAuthenticatedBackendFailureDoesNotCreate(t *testing.T) {
	stub := &stubProfiles{
		getByID: func(context.Context, string) (*models.UserProfile, error) {
			return nil, models.NewRemoteError(assert.AnError)
		},
		create: func(context.Context, *models.UserProfile) error {
			t.Fatal("must not create on a backend failure")
			return nil
		},
	}

	_, err := NewResolver(stub).ResolveAuthenticated(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeRemoteFailure))
}

func TestResolveAnonymousCreatesProfile(t *testing.T) {
	token := uuid.NewString()
	var created *models.UserProfile
	stub := &stubProfiles{
		getByID: func(_ context.Context, id string) (*models.UserProfile, error) {
			return nil, repository.ErrProfileNotFound
		},
		create: func(_ context.Context, p *models.UserProfile) error {
			created = p
			return nil
		},
	}

	profile, err := NewResolver(stub).ResolveAnonymous(context.Background(), token)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, token, profile.ID)
	assert.True(t, profile.Anonymous)
	assert.NotEmpty(t, profile.DisplayName)
	assert.Equal(t, models.DefaultPreferences(), profile.Preferences)
}

func TestResolveAnonymousReturnsExisting(t *testing.T) {
	token := uuid.NewString()
	existing := &models.UserProfile{ID: token, DisplayName: "GreenGuardian", Anonymous: true}
	stub := &stubProfiles{
		getByID: func(_ context.Context, id string) (*models.UserProfile, error) {
			return existing, nil
		},
		create: func(context.Context, *models.UserProfile) error {
			t.Fatal("must not create when the profile exists")
			return nil
		},
	}

	profile, err := NewResolver(stub).ResolveAnonymous(context.Background(), token)

	require.NoError(t, err)
	assert.Same(t, existing, profile)
}

func TestResolveAnonymousBackendFailureDoesNotCreate(t *testing.T) {
	stub := &stubProfiles{
		getByID: func(context.Context, string) (*models.UserProfile, error) {
			return nil, models.NewRemoteError(assert.AnError)
		},
		create: func(context.Context, *models.UserProfile) error {
			t.Fatal("must not create on a backend failure")
			return nil
		},
	}

	_, err := NewResolver(stub).ResolveAnonymous(context.Background(), uuid.NewString())

	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeRemoteFailure))
}

func TestResolveAnonymousRejectsMalformedToken(t *testing.T) {
	stub := &stubProfiles{
		getByID: func(context.Context, string) (*models.UserProfile, error) {
			t.Fatal("must not query with a malformed token")
			return nil, nil
		},
	}

	_, err := NewResolver(stub).ResolveAnonymous(context.Background(), "not-a-uuid")

	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestResolveAnonymousCreateRaceFallsBackToGet(t *testing.T) {
	token := uuid.NewString()
	winner := &models.UserProfile{ID: token, DisplayName: "SwiftBadger", Anonymous: true}
	calls := 0
	stub := &stubProfiles{
		getByID: func(context.Context, string) (*models.UserProfile, error) {
			calls++
			if calls == 1 {
				return nil, repository.ErrProfileNotFound
			}
			return winner, nil
		},
		create: func(context.Context, *models.UserProfile) error {
			return models.NewValidationError("Profile already exists")
		},
	}

	profile, err := NewResolver(stub).ResolveAnonymous(context.Background(), token)

	require.NoError(t, err)
	assert.Same(t, winner, profile)
}

func TestPromoteKeepsIDAndClearsAnonymous(t *testing.T) {
	token := uuid.NewString()
	stub := &stubProfiles{
		getByID: func(context.Context, string) (*models.UserProfile, error) {
			return &models.UserProfile{ID: token, DisplayName: "GreenGuardian", Anonymous: true}, nil
		},
		update: func(context.Context, *models.UserProfile) error { return nil },
	}

	profile, err := NewResolver(stub).Promote(context.Background(), token, "Alex", "alex@example.com", "hash")

	require.NoError(t, err)
	assert.Equal(t, token, profile.ID, "promotion keeps the record id")
	assert.Equal(t, "Alex", profile.DisplayName)
	assert.False(t, profile.Anonymous)
}

func TestPromoteRejectsRegisteredProfile(t *testing.T) {
	stub := &stubProfiles{
		getByID: func(context.Context, string) (*models.UserProfile, error) {
			return &models.UserProfile{ID: "u1", Anonymous: false}, nil
		},
	}

	_, err := NewResolver(stub).Promote(context.Background(), "u1", "Alex", "alex@example.com", "hash")

	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestAnonymousNameShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z][a-zA-Z]+$`)
	for i := 0; i < 20; i++ {
		name := AnonymousName()
		assert.True(t, pattern.MatchString(name), "unexpected name %q", name)
	}
}
