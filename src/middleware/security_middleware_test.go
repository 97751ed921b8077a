package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	h := SecurityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
}

func TestReadOnlyMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name       string
		readOnly   bool
		method     string
		path       string
		superAdmin bool
		want       int
	}{
		{name: "Disabled", readOnly: false, method: http.MethodPost, path: "/api/plaid/sync-transactions", want: http.StatusOK},
		{name: "Get", readOnly: true, method: http.MethodGet, path: "/api/accounts", want: http.StatusOK},
		{name: "Signin", readOnly: true, method: http.MethodPost, path: "/api/auth/signin", want: http.StatusOK},
		{name: "Write", readOnly: true, method: http.MethodPost, path: "/api/plaid/exchange-token", want: http.StatusForbidden},
		{name: "SuperAdmin", readOnly: true, method: http.MethodPost, path: "/api/plaid/exchange-token", superAdmin: true, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(WithUser(req.Context(), 1, tt.superAdmin))
			rec := httptest.NewRecorder()

			ReadOnlyMiddleware(tt.readOnly)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
