package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/config"
)

func TestNewJWT(t *testing.T) {
	svc, err := NewJWT(config.AuthConfig{JWTSecret: "ignored"})
	require.NoError(t, err)
	assert.Nil(t, svc, "auth off")

	svc, err = NewJWT(config.AuthConfig{Required: true, JWTSecret: "s3cret", Issuer: "credit-service"})
	require.NoError(t, err)
	require.NotNil(t, svc)

	token, err := svc.GenerateToken("ops", nil)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "credit-service", claims.Issuer)

	_, err = NewJWT(config.AuthConfig{Required: true, PublicKeyPath: filepath.Join(t.TempDir(), "missing.pem")})
	assert.Error(t, err)
}
