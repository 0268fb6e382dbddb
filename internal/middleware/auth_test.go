package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bawabati-api/internal/services"

	"github.com/rs/zerolog"
)

func authRequest(t *testing.T, mw func(http.Handler) http.Handler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserID(r)
		role, _ := GetUserRole(r)
		if userID == 0 || role == "" {
			t.Error("claims missing from request context")
		}
		w.Write([]byte("ok"))
	})

	req := httptest.NewRequest("GET", "/api/v1/orders", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec
}

func TestAuthentication(t *testing.T) {
	authService := services.NewAuthService("test-secret", zerolog.Nop())
	mw := Authentication(authService, zerolog.Nop())

	token, err := authService.GenerateToken(7, "driver@example.com", "driver")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	t.Run("valid token passes with claims in context", func(t *testing.T) {
		rec := authRequest(t, mw, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("missing header gets 401", func(t *testing.T) {
		rec := authRequest(t, mw, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("malformed header gets 401", func(t *testing.T) {
		rec := authRequest(t, mw, "Basic abc")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("invalid token gets 401", func(t *testing.T) {
		rec := authRequest(t, mw, "Bearer not-a-token")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}

func TestPageAuthentication(t *testing.T) {
	authService := services.NewAuthService("test-secret", zerolog.Nop())
	mw := PageAuthentication(authService, zerolog.Nop())

	token, err := authService.GenerateToken(3, "admin@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	t.Run("valid token renders the page", func(t *testing.T) {
		rec := authRequest(t, mw, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("missing token redirects to login", func(t *testing.T) {
		rec := authRequest(t, mw, "")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != LoginPath {
			t.Errorf("Location = %q, want %q", loc, LoginPath)
		}
	})

	t.Run("invalid token redirects to login", func(t *testing.T) {
		rec := authRequest(t, mw, "Bearer expired-or-garbage")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != LoginPath {
			t.Errorf("Location = %q, want %q", loc, LoginPath)
		}
	})
}
