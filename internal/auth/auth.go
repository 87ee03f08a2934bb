// Package auth provides bcrypt-backed basic authentication for the demo
// server. On success the authenticated login is attached to the request's
// access-log record; on failure the record is classified as unauthorized.
package auth

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jkindrix/reqlog"
)

// Verifier checks credentials against a static map of bcrypt hashes.
type Verifier struct {
	users  map[string]string
	logger *zap.Logger
}

// NewVerifier creates a Verifier. users maps login names to bcrypt hashes.
func NewVerifier(users map[string]string, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{users: users, logger: logger}
}

// Verify reports whether the given credentials match a configured user.
func (v *Verifier) Verify(user, password string) bool {
	hash, ok := v.users[user]
	if !ok {
		// Burn a comparison anyway so unknown and known users take
		// the same time.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is a bcrypt hash of an unguessable throwaway value.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Middleware enforces basic auth. Authenticated requests carry the login as
// the access-log user; rejected requests are answered with 401 and logged
// with the unauthorized action.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || !v.Verify(user, pass) {
			if err := reqlog.SetAction(r.Context(), "unauthorized"); err != nil {
				v.logger.Warn("classify unauthorized request", zap.Error(err))
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="reqlog demo"`)
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		if err := reqlog.SetUser(r.Context(), user); err != nil {
			v.logger.Warn("attach user to request record", zap.Error(err))
		}
		next.ServeHTTP(w, r)
	})
}

// HashPassword returns a bcrypt hash suitable for the auth.users config map.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
