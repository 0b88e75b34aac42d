package middleware

import (
	"net/http"

	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/pkg/response"
)

// RequireAdmin re-checks the authenticated email against the allow-list so a
// removed admin loses access before their token expires.
func RequireAdmin(allowList entity.AdminAllowList) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := GetAdminEmailFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Admin information not found")
				return
			}

			if !allowList.Contains(email) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
