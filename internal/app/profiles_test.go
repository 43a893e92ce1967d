package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app"
	"staybook/internal/domain"
)

func TestProfile_GetMissingFallsBackToSession(t *testing.T) {
	s := app.NewProfileService(&fakeProfileRepo{})
	p, err := s.Get(context.Background(), domain.Session{UserID: "u1", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, "jane", p.DisplayName())
}

func TestProfile_UpsertBlanksBecomeNull(t *testing.T) {
	repo := &fakeProfileRepo{}
	s := app.NewProfileService(repo)
	sess := domain.Session{UserID: "u1", Email: "jane@example.com"}

	p, err := s.Upsert(context.Background(), sess, app.ProfileUpdate{FirstName: " Jane ", LastName: "", Phone: "  "})
	require.NoError(t, err)
	require.NotNil(t, p.FirstName)
	assert.Equal(t, "Jane", *p.FirstName)
	assert.Nil(t, p.LastName)
	assert.Nil(t, p.Phone)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, "Jane", p.DisplayName())

	stored, err := s.Get(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, p.ID, stored.ID)

	p, err = s.Upsert(context.Background(), sess, app.ProfileUpdate{FirstName: "Jane", LastName: "Doe", Email: "jd@example.org"})
	require.NoError(t, err)
	assert.Equal(t, "jd@example.org", p.Email)
	assert.Equal(t, "Jane Doe", p.DisplayName())
}

func TestDisplayName(t *testing.T) {
	s := func(v string) *string { return &v }
	cases := []struct {
		p    domain.Profile
		want string
	}{
		{domain.Profile{FirstName: s("Ann"), LastName: s("Lee"), Email: "x@y.z"}, "Ann Lee"},
		{domain.Profile{FirstName: s("Ann"), Email: "x@y.z"}, "Ann"},
		{domain.Profile{FirstName: s("  "), Email: "bob@y.z"}, "bob"},
		{domain.Profile{}, "User"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.p.DisplayName())
	}
}
