package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"agriconnect-api/internal/model"
	"agriconnect-api/internal/service"
	"agriconnect-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	users map[string]*model.User
}

func (f *fakeAuth) Register(context.Context, service.SignupInput) (*service.AuthResponse, error) {
	return nil, nil
}

func (f *fakeAuth) Login(context.Context, string, string) (*service.AuthResponse, error) {
	return nil, nil
}

func (f *fakeAuth) Refresh(context.Context, string) (*jwt.Pair, error) { return nil, nil }

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*model.User, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, service.ErrInvalidToken
}

func newApp() *fiber.App {
	auth := &fakeAuth{users: map[string]*model.User{
		"farmer-token": {BaseModel: model.BaseModel{ID: uuid.New()}, Username: "ravi", IsFarmer: true},
		"buyer-token":  {BaseModel: model.BaseModel{ID: uuid.New()}, Username: "meera", IsBuyer: true},
	}}
	app := fiber.New()
	app.Get("/me", RequireAuth(auth), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user").(*model.User).Username)
	})
	app.Post("/listings", RequireAuth(auth), RequireCapability(model.CapabilityFarmer), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func request(t *testing.T, app *fiber.App, method, path, authorization string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	app := newApp()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token farmer-token", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer farmer-token", http.StatusOK},
		{"lowercase scheme", "bearer buyer-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, request(t, app, "GET", "/me", tt.header))
		})
	}
}

func TestRequireCapability(t *testing.T) {
	app := newApp()
	assert.Equal(t, http.StatusCreated, request(t, app, "POST", "/listings", "Bearer farmer-token"))
	assert.Equal(t, http.StatusForbidden, request(t, app, "POST", "/listings", "Bearer buyer-token"))
}
