package auth

import (
	"testing"
	"time"

	"anoa.com/campuseventhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	profileID := uuid.New()

	token, expiresAt, err := m.Generate(profileID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	session, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, profileID, session.ProfileID)
	assert.Equal(t, token, session.Token)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	_, err := m.Parse("not-a-token")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", time.Hour).Generate(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Millisecond)

	token, _, err := m.Generate(uuid.New())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
