package handler

import (
	"crypto/subtle"
	"net/http"
)

// requireEditorToken checks the bearer token. Browsers cannot set headers on
// websocket upgrades, so the token is also accepted as ?token=.
func requireEditorToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeError(w, http.StatusInternalServerError, "editor token not configured")
				return
			}
			got := r.Header.Get("Authorization")
			if got == "" {
				if q := r.URL.Query().Get("token"); q != "" {
					got = "Bearer " + q
				}
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte("Bearer "+token)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
