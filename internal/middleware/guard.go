package middleware

import (
	"net/http"

	"bawabati-api/internal/models"

	"github.com/rs/zerolog"
)

// Decision is the outcome of a route-access check. Instead of aborting the
// request from inside the guard, callers inspect the decision and either
// render or redirect.
type Decision struct {
	Allowed      bool
	RedirectPath string
}

const LoginPath = "/login"

var landingPaths = map[string]string{
	string(models.RoleAdmin):      "/dashboard/admin",
	string(models.RoleVendor):     "/dashboard/vendor",
	string(models.RoleRestaurant): "/dashboard/restaurant",
	string(models.RoleDriver):     "/dashboard/driver",
	string(models.RoleCustomer):   "/",
}

// LandingPath returns the canonical landing page for a role. Unknown roles
// land on the login page.
func LandingPath(role string) string {
	if path, ok := landingPaths[role]; ok {
		return path
	}
	return LoginPath
}

// CheckAccess resolves whether a role may enter an area guarded by the
// allowed set. Unrecognized roles are treated as unauthenticated and sent to
// login; recognized but unauthorized roles are sent to their own landing page.
func CheckAccess(role string, allowed []string) Decision {
	if !models.ValidRole(role) {
		return Decision{RedirectPath: LoginPath}
	}
	for _, a := range allowed {
		if role == a {
			return Decision{Allowed: true}
		}
	}
	return Decision{RedirectPath: LandingPath(role)}
}

// RoleResolver yields the authoritative role for an authenticated identity.
// Token claims alone are not trusted for dashboard access because an admin
// may have changed the role since the token was issued.
type RoleResolver interface {
	ResolveRole(userID int) (string, error)
}

// RoleGate guards an area of the site for the given roles. It must run after
// Authentication. Any failure to resolve the role fails closed: the request
// is redirected to login.
func RoleGate(resolver RoleResolver, logger zerolog.Logger, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r)
			if !ok {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			role, err := resolver.ResolveRole(userID)
			if err != nil {
				logger.Warn().Err(err).Int("user_id", userID).Msg("Role resolution failed")
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			decision := CheckAccess(role, allowed)
			if !decision.Allowed {
				http.Redirect(w, r, decision.RedirectPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
