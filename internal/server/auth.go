package server

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter"
)

// ErrUnauthorized is returned by policies that reject a request.
var ErrUnauthorized = errors.New("unauthorized")

// AuthPolicy decides whether a request may invoke a flow.
type AuthPolicy interface {
	Authorize(r *http.Request) error
}

// AuthPolicyFunc adapts a function to AuthPolicy.
type AuthPolicyFunc func(r *http.Request) error

func (f AuthPolicyFunc) Authorize(r *http.Request) error { return f(r) }

// NoAuth allows every request. Only use it on loopback listeners.
func NoAuth() AuthPolicy {
	return AuthPolicyFunc(func(*http.Request) error { return nil })
}

// APIKeyAuth accepts requests carrying one of keys as a bearer token or in
// the X-API-Key header.
func APIKeyAuth(keys ...string) AuthPolicy {
	accepted := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			accepted = append(accepted, []byte(k))
		}
	}

	return AuthPolicyFunc(func(r *http.Request) error {
		presented := r.Header.Get("X-API-Key")
		if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			presented = strings.TrimSpace(token)
		}
		if presented == "" {
			return ErrUnauthorized
		}
		for _, k := range accepted {
			if subtle.ConstantTimeCompare(k, []byte(presented)) == 1 {
				return nil
			}
		}
		return ErrUnauthorized
	})
}

// requireAuth rejects requests the policy does not authorize.
func requireAuth(policy AuthPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := policy.Authorize(r); err != nil {
				slog.WarnContext(r.Context(), "request rejected by auth policy", "error", err)
				writeJSONError(r.Context(), w, newError(
					http.StatusText(http.StatusUnauthorized),
					genkitadapter.ErrorTypeAuthentication,
				))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
