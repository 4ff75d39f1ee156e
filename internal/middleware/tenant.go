package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const TenantHeader = "X-Tenant-Id"

// RequireTenant scopes the request to the tenant named in the X-Tenant-Id
// header. Authenticating that the caller may act for the tenant happens
// upstream of this service.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(TenantHeader))
		if raw == "" {
			reject(w, r, http.StatusBadRequest, "tenant_required", "X-Tenant-Id header is required")
			return
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			reject(w, r, http.StatusBadRequest, "tenant_invalid", "X-Tenant-Id must be a UUID")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithTenantID(r.Context(), tenantID)))
	})
}
