package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/StefanEhlert/chefsnumbers/internal/logging"
)

// APIKeyHeader carries the client's key.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey rejects requests whose X-API-Key matches none of keys. With
// no keys configured every request passes.
func RequireAPIKey(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			switch {
			case key == "":
				reject(w, r, http.StatusUnauthorized, "API key required", "AUTH001")
				return
			case !matchesAny(key, keys):
				reject(w, r, http.StatusForbidden, "API key not accepted", "AUTH002")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// matchesAny compares key against every entry so the time taken does not
// depend on which one matched.
func matchesAny(key string, keys []string) bool {
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return match == 1
}

func reject(w http.ResponseWriter, r *http.Request, status int, msg, code string) {
	logging.FromContext(r.Context()).Warn("request rejected",
		"path", r.URL.Path,
		"method", r.Method,
		"ip", r.RemoteAddr,
		"code", code,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `","message":"` + msg + `","code":"` + code + `"}` + "\n"))
}
