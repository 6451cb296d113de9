package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"listed origin", []string{"https://app.example.com"}, http.MethodGet, "https://app.example.com", http.StatusOK, "https://app.example.com"},
		{"unlisted origin", []string{"https://app.example.com"}, http.MethodGet, "https://evil.example.com", http.StatusOK, ""},
		{"wildcard", []string{"*"}, http.MethodGet, "https://any.example.com", http.StatusOK, "https://any.example.com"},
		{"preflight", []string{"*"}, http.MethodOptions, "https://any.example.com", http.StatusNoContent, "https://any.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/health", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			NewCORS(tt.allowed)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
