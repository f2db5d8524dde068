package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sweetShop/internal/apperr"
	"sweetShop/models"
	"sweetShop/repository"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	errRegisterFields     = apperr.Validation("Email, password, and name are required")
	errLoginFields        = apperr.Validation("Email and password are required")
	errInvalidEmail       = apperr.Validation("Invalid email format")
	errEmailTaken         = apperr.Conflict("User with this email already exists")
	errInvalidCredentials = apperr.Authentication("Invalid credentials")
)

// UserStore persists and looks up user accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserCountProvider reports how many users are registered. The first
// registration (count zero) is promoted to admin.
type UserCountProvider interface {
	Count(ctx context.Context) (int64, error)
}

// Result is what a successful register or login hands back.
type Result struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Gate registers and authenticates users and mints their tokens.
type Gate struct {
	users   UserStore
	counter UserCountProvider
	tokens  *Tokens
	cost    int
	log     *zap.Logger

	// compared against for unknown emails; same cost as a wrong password
	dummyHash []byte
}

// Option customizes a Gate.
type Option func(*Gate)

// WithBcryptCost sets the hashing cost; the default is bcrypt.DefaultCost (10).
func WithBcryptCost(cost int) Option {
	return func(g *Gate) { g.cost = cost }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.log = l
		}
	}
}

func NewGate(users UserStore, counter UserCountProvider, tokens *Tokens, opts ...Option) *Gate {
	g := &Gate{
		users:   users,
		counter: counter,
		tokens:  tokens,
		cost:    bcrypt.DefaultCost,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	h, err := bcrypt.GenerateFromPassword([]byte("placeholder-password"), g.cost)
	if err != nil {
		g.log.Error("generate placeholder hash", zap.Error(err))
	}
	g.dummyHash = h
	return g
}

// Register creates an account and returns it with a fresh token.
func (g *Gate) Register(ctx context.Context, email, password, name string) (*Result, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, errRegisterFields
	}
	if !emailRe.MatchString(email) {
		return nil, errInvalidEmail
	}

	existing, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, errEmailTaken
	}

	n, err := g.counter.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	role := models.RoleUser
	if n == 0 {
		role = models.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := g.users.Create(ctx, &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := g.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	g.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return &Result{Token: token, User: u}, nil
}

// Login verifies the credentials and returns the account with a fresh
// token. An unknown email and a wrong password fail identically, and both
// pay for one bcrypt comparison.
func (g *Gate) Login(ctx context.Context, email, password string) (*Result, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errLoginFields
	}

	u, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	hash := g.dummyHash
	if u != nil {
		hash = []byte(u.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || u == nil {
		g.log.Debug("login rejected", zap.Bool("known_email", u != nil))
		return nil, errInvalidCredentials
	}

	token, err := g.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Result{Token: token, User: u}, nil
}

// VerifyToken returns the identity asserted by token.
func (g *Gate) VerifyToken(token string) (*Identity, error) {
	return g.tokens.Verify(token)
}
