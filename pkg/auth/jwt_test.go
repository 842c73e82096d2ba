package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	other := NewJWTManager("other-secret", 15*time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), RoleCustomer)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), RoleCustomer)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute, time.Hour)

	_, err := manager.ValidateToken("not.a.token")
	assert.Error(t, err)
}
