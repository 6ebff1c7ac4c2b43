package middleware

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/parsecv/api/internal/auth"
)

const testSecret = "test-secret"

func setupAuthApp() *fiber.App {
	app := fiber.New()
	m := NewAuthMiddleware(testSecret)
	app.Get("/protected", m.Authenticate(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": GetUserID(c)})
	})
	return app
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	app := setupAuthApp()

	token, err := auth.GenerateToken("user-123", "user@example.com", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "user-123") {
		t.Errorf("expected user ID in response, got %s", body)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	app := setupAuthApp()

	wrongSecret, err := auth.GenerateToken("user-123", "user@example.com", "other-secret")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"malformed token", "Bearer not-a-jwt"},
		{"wrong signing secret", "Bearer " + wrongSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}
