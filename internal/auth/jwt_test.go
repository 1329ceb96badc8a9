package auth_test

import (
	"testing"
	"time"

	"github.com/rndrianasolo/commercepro/internal/auth"
	"github.com/rndrianasolo/commercepro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig(ttl time.Duration) config.JWT {
	return config.JWT{Secret: "0123456789abcdef", TTL: ttl}
}

func TestJWTService_Roundtrip(t *testing.T) {
	svc := auth.NewJWTService(testJWTConfig(time.Hour))

	token, err := svc.GenerateToken("u1", "hery@example.com", "driver")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "hery@example.com", claims.Email)
	assert.Equal(t, "driver", claims.Role)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := auth.NewJWTService(testJWTConfig(time.Hour))
	verifier := auth.NewJWTService(config.JWT{Secret: "another-secret-key", TTL: time.Hour})

	token, err := issuer.GenerateToken("u1", "hery@example.com", "driver")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Expired(t *testing.T) {
	svc := auth.NewJWTService(testJWTConfig(-time.Minute))

	token, err := svc.GenerateToken("u1", "hery@example.com", "driver")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Garbage(t *testing.T) {
	svc := auth.NewJWTService(testJWTConfig(time.Hour))

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
