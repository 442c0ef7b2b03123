package router

import (
	"net/http"
	"strings"
)

// middlewareMaintenance answers 503 for the listed route patterns, e.g.
// "/api/v1/vault/services/scan" while the scanner backend is being replaced.
func middlewareMaintenance(routes []string) Middleware {
	blocked := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		route = strings.TrimSpace(route)
		if route == "" {
			continue
		}
		blocked[route] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		if len(blocked) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := blocked[matchedRoutePath(r)]; ok {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
