package services

import (
	"testing"
	"time"

	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func tokenUser() *models.User {
	return &models.User{
		ID:        primitive.NewObjectID(),
		Kind:      models.INSTRUCTOR,
		Username:  "mrivas",
		FirstName: "Marta",
		LastName:  "Rivas",
	}
}

func TestTokenPair(t *testing.T) {
	user := tokenUser()
	now := time.Now()

	pair, err := NewTokenPair(user, now)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshExpires.After(pair.AccessExpires))

	claims, err := ParseToken(pair.AccessToken, ACCESS_TOKEN)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.ID)
	assert.Equal(t, "mrivas", claims.Username)
	assert.Equal(t, "Marta Rivas", claims.Name)
	assert.True(t, claims.IsInstructor())
	assert.False(t, claims.IsStudent())

	refresh, err := ParseToken(pair.RefreshToken, REFRESH_TOKEN)
	require.NoError(t, err)
	assert.Equal(t, pair.refreshClaims.Id, refresh.Id)
	assert.NotEmpty(t, refresh.Id)
}

func TestParseTokenErrors(t *testing.T) {
	user := tokenUser()

	pair, err := NewTokenPair(user, time.Now())
	require.NoError(t, err)

	_, err = ParseToken(pair.RefreshToken, ACCESS_TOKEN)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = ParseToken(pair.AccessToken+"x", ACCESS_TOKEN)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("not-a-token", ACCESS_TOKEN)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewClaims(user, ACCESS_TOKEN, time.Now().Add(-time.Hour), time.Minute)
	token, err := GenerateToken(expired)
	require.NoError(t, err)
	_, err = ParseToken(token, ACCESS_TOKEN)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
