package middleware

import (
	"net/http"
	"slices"
)

type CORSMiddleware struct {
	origins []string
}

// NewCORSMiddleware allows the given origins. An empty list or "*" allows any.
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	return &CORSMiddleware{origins: origins}
}

func (m *CORSMiddleware) allowOrigin(origin string) (string, bool) {
	if len(m.origins) == 0 || slices.Contains(m.origins, "*") {
		return "*", true
	}
	if origin != "" && slices.Contains(m.origins, origin) {
		return origin, true
	}
	return "", false
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if allowed, ok := m.allowOrigin(req.Header.Get("Origin")); ok {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, req)
	})
}
