package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// unauthorizedBody is the fixed JSON-RPC error answered on auth failure;
// it carries no request data, so it is built once.
var unauthorizedBody = []byte(
	`{"jsonrpc":"2.0","error":{"code":-32600,"message":"unauthorized: missing or invalid bearer token"},"id":null}`)

// requireToken guards the vault's HTTP RPC endpoint with a Bearer token.
// An empty secret rejects every request; exposing cookie operations over
// HTTP needs explicit opt-in.
func requireToken(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validToken(secret, r.Header.Get("Authorization")) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write(unauthorizedBody)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validToken compares the Authorization header against the secret in
// constant time.
func validToken(secret, authHeader string) bool {
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if secret == "" || !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
