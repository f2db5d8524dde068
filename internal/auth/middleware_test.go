package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"sweetShop/internal/apperr"
	"sweetShop/internal/testutil"
	"sweetShop/models"
)

func statusWriter(w http.ResponseWriter, _ *http.Request, err error) {
	http.Error(w, err.Error(), apperr.KindOf(err).HTTPStatus())
}

func TestMiddleware_AuthenticateAndRequire(t *testing.T) {
	m := NewMiddleware(NewGate(nil, nil, newTestTokens(t), WithBcryptCost(bcrypt.MinCost)), statusWriter)

	var seen *Identity
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	userOnly := m.Authenticate(final)
	adminOnly := m.Authenticate(m.Require(models.RoleAdmin)(final))

	userTok := testutil.GenerateJWTHS256(t, testSecret, "u1", "u@x.io", "user", time.Hour)
	adminTok := testutil.GenerateJWTHS256(t, testSecret, "a1", "a@x.io", "admin", time.Hour)

	cases := []struct {
		name    string
		handler http.Handler
		token   string
		want    int
	}{
		{"no header", userOnly, "", http.StatusUnauthorized},
		{"bad token", userOnly, "garbage", http.StatusUnauthorized},
		{"user ok", userOnly, userTok, http.StatusNoContent},
		{"user on admin route", adminOnly, userTok, http.StatusForbidden},
		{"admin on admin route", adminOnly, adminTok, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.token != "" {
				testutil.SetBearer(req, tc.token)
			}
			rec := httptest.NewRecorder()
			tc.handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusNoContent {
				assert.NotNil(t, seen, "identity must be injected")
			}
		})
	}
}
