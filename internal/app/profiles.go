package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain"
)

type ProfileUpdate struct {
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=40"`
}

type ProfileService struct {
	repo domain.ProfileRepository
}

func NewProfileService(r domain.ProfileRepository) *ProfileService { return &ProfileService{repo: r} }

// Get returns the stored profile; a user who never saved one gets an empty
// profile carrying the session email.
func (s *ProfileService) Get(ctx context.Context, sess domain.Session) (domain.Profile, error) {
	p, err := s.repo.GetProfile(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Profile{ID: sess.UserID, Email: sess.Email}, nil
	}
	return p, err
}

// Upsert stores the update. Blank fields become NULL, a blank email keeps the
// session's one.
func (s *ProfileService) Upsert(ctx context.Context, sess domain.Session, u ProfileUpdate) (domain.Profile, error) {
	p := domain.Profile{
		ID:        sess.UserID,
		FirstName: nullable(u.FirstName),
		LastName:  nullable(u.LastName),
		Email:     strings.TrimSpace(u.Email),
		Phone:     nullable(u.Phone),
		UpdatedAt: time.Now().UTC(),
	}
	if p.Email == "" {
		p.Email = sess.Email
	}
	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func nullable(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
