package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHS256Signer_SignAndVerify(t *testing.T) {
	signer := NewHS256Signer("test-secret", "evalhub-test")

	tokenString, err := signer.Sign(123, TokenTypeAccess, 15*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := signer.Verify(tokenString)
	require.NoError(t, err)

	assert.Equal(t, uint(123), claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "evalhub-test", claims.Issuer)
	assert.Equal(t, "123", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.NotNil(t, claims.ExpiresAt)
	assert.NotNil(t, claims.IssuedAt)
}

func TestHS256Signer_UniqueJTI(t *testing.T) {
	signer := NewHS256Signer("test-secret", "evalhub-test")

	first, err := signer.Sign(1, TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	second, err := signer.Sign(1, TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	firstClaims, err := signer.Verify(first)
	require.NoError(t, err)
	secondClaims, err := signer.Verify(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestHS256Signer_Expired(t *testing.T) {
	signer := NewHS256Signer("test-secret", "evalhub-test")

	tokenString, err := signer.Sign(1, TokenTypeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = signer.Verify(tokenString)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHS256Signer_WrongSecret(t *testing.T) {
	signer := NewHS256Signer("test-secret", "evalhub-test")
	other := NewHS256Signer("other-secret", "evalhub-test")

	tokenString, err := signer.Sign(1, TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = other.Verify(tokenString)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHS256Signer_RejectsNoneAlgorithm(t *testing.T) {
	signer := NewHS256Signer("test-secret", "evalhub-test")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:    1,
		TokenType: TokenTypeAccess,
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = signer.Verify(tokenString)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHS256Signer_Garbage(t *testing.T) {
	signer := NewHS256Signer("test-secret", "evalhub-test")

	for _, input := range []string{"", "garbage", "a.b.c"} {
		_, err := signer.Verify(input)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}
