package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-tracker/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "finance-tracker", time.Hour)
	user := models.User{ID: 42, Name: "Ana", Email: "ana@example.com"}

	raw, err := tm.Generate(user)
	require.NoError(t, err)

	s, err := tm.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, "ana@example.com", s.Email)
	assert.Equal(t, "Ana", s.Name)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, 5*time.Second)
}

func TestTokenRejections(t *testing.T) {
	user := models.User{ID: 7, Email: "x@example.com"}
	tm := NewTokenManager("secret", "finance-tracker", time.Hour)
	valid, err := tm.Generate(user)
	require.NoError(t, err)

	expired := NewTokenManager("secret", "finance-tracker", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Generate(user)
	require.NoError(t, err)

	otherIssuer, err := NewTokenManager("secret", "someone-else", time.Hour).Generate(user)
	require.NoError(t, err)

	otherSecret, err := NewTokenManager("different", "finance-tracker", time.Hour).Generate(user)
	require.NoError(t, err)

	// Swap in the payload of another user while keeping the original signature.
	otherUser, err := tm.Generate(models.User{ID: 8, Email: "y@example.com"})
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + strings.Split(otherUser, ".")[1] + "." + parts[2]

	tests := map[string]string{
		"garbage":      "not-a-jwt",
		"expired":      old,
		"wrong issuer": otherIssuer,
		"wrong secret": otherSecret,
		"tampered":     tampered,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Parse(raw)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword("correct horse", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), Session{UserID: 3})
	s, ok := SessionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), s.UserID)
}
