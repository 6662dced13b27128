package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRE_HOURS", "2")
	user := &models.User{ID: uuid.New(), Role: models.RoleResident}

	signed, err := IssueToken(user)
	require.NoError(t, err)

	claims, err := ParseToken(signed)
	require.NoError(t, err)
	assert.Equal(t, models.RoleResident, claims["role"])
	exp := int64(claims["exp"].(float64))
	assert.InDelta(t, time.Now().Add(2*time.Hour).Unix(), exp, 5)

	id, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestParseTokenRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	user := &models.User{ID: uuid.New(), Role: models.RoleResident}

	t.Run("wrong secret", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": user.ID.String(),
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		signed, err := forged.SignedString([]byte("other"))
		require.NoError(t, err)
		_, err = ParseToken(signed)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		timeNow = func() time.Time { return time.Now().Add(-100 * time.Hour) }
		t.Cleanup(func() { timeNow = time.Now })
		signed, err := IssueToken(user)
		require.NoError(t, err)
		_, err = ParseToken(signed)
		assert.Error(t, err)
	})

	t.Run("missing user id", func(t *testing.T) {
		_, err := UserIDFromClaims(jwt.MapClaims{"role": "admin"})
		assert.Error(t, err)
	})
}
