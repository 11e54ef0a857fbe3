package webtoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignThenVerifyRoundTrips(t *testing.T) {
	token, err := Sign(map[string]any{"sub": "user-1"}, "s3cret", time.Minute)
	require.NoError(t, err)

	claims, err := Verify(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Contains(t, claims, "exp")
	assert.Contains(t, claims, "iat")
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Sign(map[string]any{"sub": "user-1"}, "s3cret", 0)
	require.NoError(t, err)

	_, err = Verify(token, "wrong")
	assert.Error(t, err)
}

func TestDecodeIgnoresSignature(t *testing.T) {
	token, err := Sign(map[string]any{"sub": "user-2"}, "s3cret", 0)
	require.NoError(t, err)

	claims, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims["sub"])
}

func TestMarshalClaimsProducesJSON(t *testing.T) {
	out, err := MarshalClaims(map[string]any{"sub": "user-3"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sub":"user-3"}`, out)
}
