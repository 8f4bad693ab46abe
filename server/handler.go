package server

import (
	"encoding/json"
	"net/http"
)

// Middleware wraps an http.Handler
type Middleware func(http.Handler) http.Handler

func pathHandler(handlers map[string]http.HandlerFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if handler, ok := handlers[r.URL.Path]; ok && r.Method == http.MethodGet {
				handler(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	resJSON(w, GetHealthStats())
}

func resJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	buf, _ := json.Marshal(v)
	_, _ = w.Write(buf)
}
