package jwt_test

import (
	"testing"

	"github.com/jhoicas/Restaurante-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "secreto-de-pruebas"

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", jwt.RoleCocina, "restaurante-test", 60)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, jwt.RoleCocina, role)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", jwt.RoleAdmin, "restaurante-test", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", jwt.RoleAdmin, "restaurante-test", 60)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := jwt.Generate("", "u-1", jwt.RoleAdmin, "x", 60)
	assert.Error(t, err)
}

func TestValidRole(t *testing.T) {
	assert.True(t, jwt.ValidRole(jwt.RoleCajero))
	assert.False(t, jwt.ValidRole("bodeguero"))
}
