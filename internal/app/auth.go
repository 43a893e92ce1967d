package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"staybook/internal/domain"
)

const (
	minPasswordLen = 6
	tokenIssuer    = "staybook"
)

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users    domain.UserRepository
	profiles domain.ProfileRepository
	revoker  domain.SessionRevoker
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(u domain.UserRepository, p domain.ProfileRepository, r domain.SessionRevoker, secret string, ttl time.Duration) (*AuthService, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{users: u, profiles: p, revoker: r, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *AuthService) SetClock(now func() time.Time) { s.now = now }

func (s *AuthService) SignUp(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Session{}, fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return domain.Session{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Session{}, err
	}

	u := domain.User{ID: uuid.NewString(), Email: email, PasswordHash: hash, CreatedAt: s.now().UTC()}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return domain.Session{}, err
	}
	if err := s.profiles.UpsertProfile(ctx, domain.Profile{ID: u.ID, Email: email, UpdatedAt: u.CreatedAt}); err != nil {
		// the account exists; the profile can still be saved later
		log.Warn().Err(err).Str("user_id", u.ID).Msg("initial profile not created")
	}
	return s.issue(u)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.Session{}, err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return s.issue(u)
}

// SignOut revokes the token's id for the rest of its lifetime.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	c, err := s.parse(token)
	if err != nil {
		return err
	}
	return s.revoker.Revoke(ctx, c.ID, c.ExpiresAt.Time.Sub(s.now()))
}

// Session validates a bearer token and returns who it belongs to.
func (s *AuthService) Session(ctx context.Context, token string) (domain.Session, error) {
	c, err := s.parse(token)
	if err != nil {
		return domain.Session{}, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, c.ID)
	if err != nil {
		return domain.Session{}, err
	}
	if revoked {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return domain.Session{UserID: c.Subject, Email: c.Email, ExpiresAt: c.ExpiresAt.Time}, nil
}

func (s *AuthService) issue(u domain.User) (domain.Session, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := sessionClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{UserID: u.ID, Email: u.Email, Token: signed, ExpiresAt: exp.Truncate(time.Second)}, nil
}

func (s *AuthService) parse(token string) (*sessionClaims, error) {
	var c sessionClaims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || c.ID == "" || c.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return &c, nil
}
