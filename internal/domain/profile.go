package domain

import (
	"strings"
	"time"
)

type Profile struct {
	ID        string    `json:"id"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// DisplayName prefers "first last", then the local part of the email.
func (p Profile) DisplayName() string {
	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) != "" {
		last := ""
		if p.LastName != nil {
			last = *p.LastName
		}
		return strings.TrimSpace(strings.TrimSpace(*p.FirstName) + " " + strings.TrimSpace(last))
	}
	if local, _, _ := strings.Cut(p.Email, "@"); local != "" {
		return local
	}
	return "User"
}

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Session is what a signed-in caller gets back and presents as a bearer token.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
