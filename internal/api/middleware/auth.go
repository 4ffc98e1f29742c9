package middleware

import (
	"net/http"
	"strings"

	"github.com/mcoot/hardercore-api/internal/api/apierr"
	"github.com/mcoot/hardercore-api/internal/services/auth"
)

const bearerScheme = "bearer"

// Auth rejects requests that do not carry the shared token as a bearer
// credential. With auth disabled every request passes.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			if err := authService.Validate(bearerToken(r)); err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="hcstats"`)
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken returns the credential from an "Authorization: Bearer <token>"
// header, or "" if there is none. The scheme is case-insensitive.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
