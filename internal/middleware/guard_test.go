package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name         string
		role         string
		allowed      []string
		wantAllowed  bool
		wantRedirect string
	}{
		{"admin enters admin area", "admin", []string{"admin"}, true, ""},
		{"driver blocked from admin area", "driver", []string{"admin"}, false, "/dashboard/driver"},
		{"vendor blocked from admin area", "vendor", []string{"admin"}, false, "/dashboard/vendor"},
		{"restaurant blocked from vendor area", "restaurant", []string{"vendor"}, false, "/dashboard/restaurant"},
		{"customer lands on storefront", "customer", []string{"admin", "vendor"}, false, "/"},
		{"unknown role fails closed", "superuser", []string{"admin"}, false, "/login"},
		{"empty role fails closed", "", []string{"admin"}, false, "/login"},
		{"role in multi-role set", "vendor", []string{"vendor", "restaurant"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := CheckAccess(tt.role, tt.allowed)
			if decision.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", decision.Allowed, tt.wantAllowed)
			}
			if decision.RedirectPath != tt.wantRedirect {
				t.Errorf("RedirectPath = %q, want %q", decision.RedirectPath, tt.wantRedirect)
			}
		})
	}
}

func TestLandingPath(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"admin", "/dashboard/admin"},
		{"vendor", "/dashboard/vendor"},
		{"restaurant", "/dashboard/restaurant"},
		{"driver", "/dashboard/driver"},
		{"customer", "/"},
		{"nonsense", "/login"},
	}

	for _, tt := range tests {
		if got := LandingPath(tt.role); got != tt.want {
			t.Errorf("LandingPath(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

type stubResolver struct {
	role string
	err  error
}

func (s *stubResolver) ResolveRole(userID int) (string, error) {
	return s.role, s.err
}

func gateRequest(t *testing.T, resolver RoleResolver, userID interface{}, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()

	rendered := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("protected content"))
	})
	handler := RoleGate(resolver, zerolog.Nop(), allowed...)(rendered)

	req := httptest.NewRequest("GET", "/dashboard/admin", nil)
	if userID != nil {
		req = req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRoleGate(t *testing.T) {
	t.Run("driver redirected from admin area", func(t *testing.T) {
		rec := gateRequest(t, &stubResolver{role: "driver"}, 7, "admin")

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != "/dashboard/driver" {
			t.Errorf("Location = %q, want /dashboard/driver", loc)
		}
		if body := rec.Body.String(); body == "protected content" {
			t.Error("protected content leaked to unauthorized role")
		}
	})

	t.Run("admin renders admin area", func(t *testing.T) {
		rec := gateRequest(t, &stubResolver{role: "admin"}, 1, "admin")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if rec.Body.String() != "protected content" {
			t.Errorf("body = %q, want protected content", rec.Body.String())
		}
	})

	t.Run("missing identity redirects to login", func(t *testing.T) {
		rec := gateRequest(t, &stubResolver{role: "admin"}, nil, "admin")

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != LoginPath {
			t.Errorf("Location = %q, want %q", loc, LoginPath)
		}
	})

	t.Run("resolver failure fails closed", func(t *testing.T) {
		rec := gateRequest(t, &stubResolver{err: errors.New("profile not found")}, 7, "admin")

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != LoginPath {
			t.Errorf("Location = %q, want %q", loc, LoginPath)
		}
	})

	t.Run("unrecognized stored role fails closed", func(t *testing.T) {
		rec := gateRequest(t, &stubResolver{role: "superuser"}, 7, "admin")

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != LoginPath {
			t.Errorf("Location = %q, want %q", loc, LoginPath)
		}
	})
}
