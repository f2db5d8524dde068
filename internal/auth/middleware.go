package auth

import (
	"net/http"

	"sweetShop/models"
)

// ErrorWriter renders an error response; the HTTP layer supplies one so
// auth failures share its error envelope.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Verifier turns a raw token into the identity it asserts; *Gate satisfies it.
type Verifier interface {
	VerifyToken(token string) (*Identity, error)
}

// Middleware gates HTTP handlers on a verified bearer token.
type Middleware struct {
	verifier Verifier
	writeErr ErrorWriter
}

func NewMiddleware(v Verifier, writeErr ErrorWriter) *Middleware {
	return &Middleware{verifier: v, writeErr: writeErr}
}

// Authenticate rejects requests without a valid "Authorization: Bearer"
// token and injects the Identity into the request context otherwise.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			m.writeErr(w, r, err)
			return
		}
		id, err := m.verifier.VerifyToken(raw)
		if err != nil {
			m.writeErr(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Require returns middleware that admits only identities satisfying role.
// It must run after Authenticate.
func (m *Middleware) Require(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := FromContext(r.Context())
			if err := RequireRole(id, role); err != nil {
				m.writeErr(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
