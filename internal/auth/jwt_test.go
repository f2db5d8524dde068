package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"sweetShop/internal/apperr"
	"sweetShop/internal/testutil"
	"sweetShop/models"
)

const testSecret = "test-secret"

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tk, err := NewTokens(testSecret, 0)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return tk
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	tk := newTestTokens(t)
	tok, err := tk.Issue(&models.User{ID: "u1", Email: "alice@example.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, err := tk.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != "u1" || id.Email != "alice@example.com" || id.Role != models.RoleAdmin {
		t.Fatalf("identity mismatch: %+v", id)
	}
}

func TestIssue_SevenDayExpiry(t *testing.T) {
	tk := newTestTokens(t)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return fixed }

	tok, err := tk.Issue(&models.User{ID: "u1", Email: "a@b.co", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &c); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := c.ExpiresAt.Time.Sub(fixed); got != 7*24*time.Hour {
		t.Fatalf("expiry = %s, want 168h", got)
	}

	// Still valid just before expiry, rejected just after.
	tk.now = func() time.Time { return fixed.Add(7*24*time.Hour - time.Minute) }
	if _, err := tk.Verify(tok); err != nil {
		t.Fatalf("expected valid before expiry: %v", err)
	}
	tk.now = func() time.Time { return fixed.Add(7*24*time.Hour + time.Minute) }
	if _, err := tk.Verify(tok); apperr.KindOf(err) != apperr.KindAuthentication {
		t.Fatalf("expected authentication error after expiry, got %v", err)
	}
}

func TestVerify_Rejects(t *testing.T) {
	tk := newTestTokens(t)
	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": testutil.GenerateJWTHS256(t, "other-secret", "u1", "a@b.co", "user", time.Hour),
		"expired":      testutil.GenerateJWTHS256(t, testSecret, "u1", "a@b.co", "user", 0),
		"unknown role": testutil.GenerateJWTHS256(t, testSecret, "u1", "a@b.co", "root", time.Hour),
		"no user id":   testutil.GenerateJWTHS256(t, testSecret, "", "a@b.co", "user", time.Hour),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tk.Verify(tok); apperr.KindOf(err) != apperr.KindAuthentication {
				t.Fatalf("expected authentication error, got %v", err)
			}
		})
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	tk := newTestTokens(t)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "u1", "email": "a@b.co", "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := tk.Verify(tok); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
}

func TestParseBearer(t *testing.T) {
	if tok, err := ParseBearer("Bearer abc.def"); err != nil || tok != "abc.def" {
		t.Fatalf("valid header: %q %v", tok, err)
	}
	for _, h := range []string{"", "abc.def", "Basic abc", "Bearer ", "Bearer"} {
		if _, err := ParseBearer(h); apperr.KindOf(err) != apperr.KindAuthentication {
			t.Fatalf("header %q: expected authentication error, got %v", h, err)
		}
	}
}

func TestRequireRole(t *testing.T) {
	admin := &Identity{UserID: "a", Role: models.RoleAdmin}
	user := &Identity{UserID: "u", Role: models.RoleUser}

	if err := RequireRole(admin, models.RoleAdmin); err != nil {
		t.Fatalf("admin as admin: %v", err)
	}
	if err := RequireRole(admin, models.RoleUser); err != nil {
		t.Fatalf("admin as user: %v", err)
	}
	if err := RequireRole(user, models.RoleUser); err != nil {
		t.Fatalf("user as user: %v", err)
	}
	if err := RequireRole(user, models.RoleAdmin); apperr.KindOf(err) != apperr.KindAuthorization {
		t.Fatalf("user as admin: expected authorization error, got %v", err)
	}
	if err := RequireRole(nil, models.RoleUser); apperr.KindOf(err) != apperr.KindAuthentication {
		t.Fatalf("nil identity: expected authentication error, got %v", err)
	}
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	if _, err := NewTokens("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
