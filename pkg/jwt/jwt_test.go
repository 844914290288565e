package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	id := uuid.New()

	token, err := signer.GenerateToken(id, "jdoe", "John Doe", "ADMIN", []string{"product:view"}, "v1")
	require.NoError(t, err)

	claims, err := signer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "ADMIN", claims.RoleCode)
	assert.Equal(t, []string{"product:view"}, claims.Privileges)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := NewSigner("one", time.Hour).GenerateToken(uuid.New(), "a", "A", "USER", nil, "v")
	require.NoError(t, err)

	_, err = NewSigner("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	signer := NewSigner("secret", -time.Minute)
	token, err := signer.GenerateToken(uuid.New(), "a", "A", "USER", nil, "v")
	require.NoError(t, err)

	_, err = signer.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissing(t *testing.T) {
	_, err := NewSigner("secret", time.Hour).ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
