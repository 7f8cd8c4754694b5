package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"artemis/internal/middleware"
	"artemis/internal/models"
	"artemis/internal/repository"
)

func postJSON(t *testing.T, app *fiber.App, path string, payload any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(nil, nil, new(MockProfileRepository))
	app := fiber.New()
	app.Post("/register", s.Register)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"display_name": "Alex", "password": "greenb33s"}},
		{"bad email", map[string]string{"display_name": "Alex", "email": "nope", "password": "greenb33s"}},
		{"weak password", map[string]string{"display_name": "Alex", "email": "a@example.com", "password": "short"}},
		{"blank display name", map[string]string{"display_name": " ", "email": "a@example.com", "password": "greenb33s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/register", tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegisterPromotesAnonymousProfile(t *testing.T) {
	anonID := uuid.NewString()
	mockProfiles := new(MockProfileRepository)
	mockProfiles.On("GetByEmail", mock.Anything, "alex@example.com").
		Return(nil, repository.ErrProfileNotFound)
	mockProfiles.On("GetByID", mock.Anything, anonID).
		Return(&models.UserProfile{ID: anonID, DisplayName: "GreenGuardian", Anonymous: true}, nil)
	mockProfiles.On("Update", mock.Anything, mock.MatchedBy(func(p *models.UserProfile) bool {
		return p.ID == anonID && p.DisplayName == "Alex" && !p.Anonymous
	})).Return(nil)

	s := newTestServer(nil, nil, mockProfiles)
	app := fiber.New()
	app.Post("/register", s.Register)

	resp := postJSON(t, app, "/register", map[string]string{
		"display_name": "Alex",
		"email":        "alex@example.com",
		"password":     "greenb33s",
	}, &http.Cookie{Name: middleware.IdentityCookie, Value: anonID})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token   string             `json:"token"`
		Profile models.UserProfile `json:"profile"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, anonID, body.Profile.ID, "promotion keeps the anonymous record id")
	assert.False(t, body.Profile.Anonymous)
	mockProfiles.AssertExpectations(t)
}

func TestRegisterFreshAccountWithoutCookie(t *testing.T) {
	mockProfiles := new(MockProfileRepository)
	mockProfiles.On("GetByEmail", mock.Anything, "new@example.com").
		Return(nil, repository.ErrProfileNotFound)
	mockProfiles.On("Create", mock.Anything, mock.MatchedBy(func(p *models.UserProfile) bool {
		return p.DisplayName == "Robin" && !p.Anonymous && p.PasswordHash != ""
	})).Return(nil)

	s := newTestServer(nil, nil, mockProfiles)
	app := fiber.New()
	app.Post("/register", s.Register)

	resp := postJSON(t, app, "/register", map[string]string{
		"display_name": "Robin",
		"email":        "new@example.com",
		"password":     "greenb33s",
	})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mockProfiles.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mockProfiles := new(MockProfileRepository)
	mockProfiles.On("GetByEmail", mock.Anything, "taken@example.com").
		Return(&models.UserProfile{ID: uuid.NewString(), Email: "taken@example.com"}, nil)

	s := newTestServer(nil, nil, mockProfiles)
	app := fiber.New()
	app.Post("/register", s.Register)

	resp := postJSON(t, app, "/register", map[string]string{
		"display_name": "Alex",
		"email":        "taken@example.com",
		"password":     "greenb33s",
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("greenb33s"), bcrypt.MinCost)
	require.NoError(t, err)

	mockProfiles := new(MockProfileRepository)
	mockProfiles.On("GetByEmail", mock.Anything, "alex@example.com").
		Return(&models.UserProfile{ID: uuid.NewString(), Email: "alex@example.com", PasswordHash: string(hash)}, nil)
	mockProfiles.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(nil, repository.ErrProfileNotFound)

	s := newTestServer(nil, nil, mockProfiles)
	app := fiber.New()
	app.Post("/login", s.Login)

	t.Run("success", func(t *testing.T) {
		resp := postJSON(t, app, "/login", map[string]string{
			"email": "alex@example.com", "password": "greenb33s",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := postJSON(t, app, "/login", map[string]string{
			"email": "alex@example.com", "password": "wrong-pass1",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := postJSON(t, app, "/login", map[string]string{
			"email": "nobody@example.com", "password": "greenb33s",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestResolveIdentityMintsAnonymous(t *testing.T) {
	mockProfiles := new(MockProfileRepository)
	mockProfiles.On("GetByID", mock.Anything, mock.Anything).
		Return(nil, repository.ErrProfileNotFound)
	mockProfiles.On("Create", mock.Anything, mock.MatchedBy(func(p *models.UserProfile) bool {
		return p.Anonymous && p.DisplayName != ""
	})).Return(nil)

	s := newTestServer(nil, nil, mockProfiles)
	app := fiber.New()
	app.Get("/identity", s.ResolveIdentity)

	req := httptest.NewRequest(http.MethodGet, "/identity", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var cookie string
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.IdentityCookie {
			cookie = ck.Value
		}
	}
	assert.NotEmpty(t, cookie, "identity cookie must be set")
}

func TestResolveIdentityReturnsExisting(t *testing.T) {
	anonID := uuid.NewString()
	mockProfiles := new(MockProfileRepository)
	mockProfiles.On("GetByID", mock.Anything, anonID).
		Return(&models.UserProfile{ID: anonID, DisplayName: "GreenGuardian", Anonymous: true}, nil)

	s := newTestServer(nil, nil, mockProfiles)
	app := fiber.New()
	app.Get("/identity", s.ResolveIdentity)

	req := httptest.NewRequest(http.MethodGet, "/identity", nil)
	req.AddCookie(&http.Cookie{Name: middleware.IdentityCookie, Value: anonID})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "GreenGuardian", profile.DisplayName)
}
