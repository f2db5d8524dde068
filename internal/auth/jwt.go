package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"sweetShop/internal/apperr"
	"sweetShop/models"
)

// DefaultTokenTTL is the lifetime of issued tokens unless configured otherwise.
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	errNoToken      = apperr.Authentication("No token provided")
	errInvalidToken = apperr.Authentication("Invalid token")
)

// Identity represents the authenticated caller from a verified token.
type Identity struct {
	UserID string
	Email  string
	Role   models.Role
}

type identityKey struct{}

// WithIdentity stores the identity in context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the identity from context (if any).
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

type claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 identity tokens with a process-wide secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens using secret. A non-positive ttl selects DefaultTokenTTL.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for u that expires after the configured TTL.
func (t *Tokens) Issue(u *models.User) (string, error) {
	now := t.now()
	c := claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Verify validates tokenStr and returns the identity it asserts. Every
// failure (empty, malformed, expired, wrong signature or algorithm, unknown
// role) is an authentication error.
func (t *Tokens) Verify(tokenStr string) (*Identity, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, errNoToken
	}
	var c claims
	tok, err := jwt.ParseWithClaims(tokenStr, &c, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !tok.Valid {
		return nil, errInvalidToken
	}
	role := models.Role(strings.ToLower(c.Role))
	if c.UserID == "" || !role.Valid() {
		return nil, errInvalidToken
	}
	return &Identity{UserID: c.UserID, Email: c.Email, Role: role}, nil
}

// ParseBearer extracts the token from an Authorization header value of the
// form "Bearer <token>".
func ParseBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errNoToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errNoToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// RequireRole checks that id may act with the given role. Admins satisfy
// every role; users satisfy only RoleUser.
func RequireRole(id *Identity, role models.Role) error {
	if id == nil {
		return apperr.Authentication("Authentication required")
	}
	switch role {
	case models.RoleAdmin:
		if id.Role != models.RoleAdmin {
			return apperr.Authorization("Admin access required")
		}
		return nil
	case models.RoleUser:
		switch id.Role {
		case models.RoleUser, models.RoleAdmin:
			return nil
		}
		return apperr.Authorization("Access denied")
	default:
		return apperr.Authorization("Access denied")
	}
}
