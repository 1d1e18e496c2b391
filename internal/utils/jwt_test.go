package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenPairRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()

	tokens, err := GenerateTokenPair(userID, "driver", "dev@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := ValidateToken(tokens.AccessToken, "secret")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "driver", claims.UserType)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, userID.Hex(), claims.Subject)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	tokens, err := GenerateTokenPair(primitive.NewObjectID(), "rider", "a@example.com", "secret")
	require.NoError(t, err)

	_, err = ValidateToken(tokens.AccessToken, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "secret")
	assert.Error(t, err)
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("dev@example.com"))
	assert.True(t, IsValidEmail("  dev@example.com  "))
	assert.False(t, IsValidEmail("dev@example"))
	assert.False(t, IsValidEmail("devexample.com"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("12345678"))
	assert.False(t, IsValidPassword("1234567"))
}
