package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedJWT(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestStore_SetGetDelete(t *testing.T) {
	t.Setenv(EnvToken, "")
	s := Store{Dir: filepath.Join(t.TempDir(), ".longread")}

	ti, err := s.Get()
	require.NoError(t, err)
	assert.Nil(t, ti)
	_, err = s.Require()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, s.Set("Bearer abc", nil))
	fi, err := os.Stat(filepath.Join(s.Dir, credFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	ti, err = s.Get()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "abc", ti.Token)
	assert.Equal(t, "file", ti.Source)

	require.NoError(t, s.Delete())
	require.NoError(t, s.Delete(), "deleting twice is fine")
	ti, err = s.Get()
	require.NoError(t, err)
	assert.Nil(t, ti)
}

func TestStore_EnvWins(t *testing.T) {
	t.Setenv(EnvToken, "bearer from-env")
	s := Store{Dir: t.TempDir()}
	require.NoError(t, s.Set("from-file", nil))

	ti, err := s.Require()
	require.NoError(t, err)
	assert.Equal(t, "from-env", ti.Token)
	assert.Equal(t, "env", ti.Source)
}

func TestStore_SetEmpty(t *testing.T) {
	assert.Error(t, Store{Dir: t.TempDir()}.Set("  ", nil))
}

func TestJWT(t *testing.T) {
	t.Setenv(EnvToken, "")
	tok := signedJWT(t, jwt.MapClaims{"sub": "editor", "exp": 1893456000})

	claims, err := Claims(tok)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims["sub"])

	s := Store{Dir: t.TempDir()}
	require.NoError(t, s.Set(tok, nil))
	ti, err := s.Get()
	require.NoError(t, err)
	require.NotNil(t, ti.ExpiresAt)
	assert.Equal(t, int64(1893456000), ti.ExpiresAt.Unix())

	_, err = Claims("opaque")
	assert.Error(t, err)
}

func TestJWT_EnvTokenExpiry(t *testing.T) {
	t.Setenv(EnvToken, "Bearer "+signedJWT(t, jwt.MapClaims{"exp": 1893456000}))
	ti, err := Store{Dir: t.TempDir()}.Require()
	require.NoError(t, err)
	require.NotNil(t, ti.ExpiresAt)
	assert.Equal(t, int64(1893456000), ti.ExpiresAt.Unix())
}

func TestJWT_NoExpiry(t *testing.T) {
	assert.Nil(t, jwtExpiry(signedJWT(t, jwt.MapClaims{"sub": "editor"})))
	assert.Nil(t, jwtExpiry("abc"))
}
