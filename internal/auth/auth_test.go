package auth

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "user-1"}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store := NewStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, store.Save(&Credentials{APIURL: "https://api.example.de", AccessToken: "abc", Email: "a@b.de"}))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", creds.AccessToken)
	assert.Equal(t, "https://api.example.de", creds.APIURL)
	assert.False(t, creds.SavedAt.IsZero())

	require.NoError(t, store.Save(&Credentials{APIURL: "https://api.example.de", AccessToken: "def"}))
	creds, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "def", creds.AccessToken)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewStore(path).Load()

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotLoggedIn)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, err := TokenExpiry(signedToken(t, exp))
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))

	got, err = TokenExpiry(signedToken(t, time.Time{}))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = TokenExpiry("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestCheckToken(t *testing.T) {
	now := time.Now()

	assert.NoError(t, CheckToken(signedToken(t, now.Add(time.Hour)), now))
	assert.ErrorIs(t, CheckToken(signedToken(t, now.Add(-time.Minute)), now), ErrTokenExpired)
	assert.ErrorIs(t, CheckToken(signedToken(t, now.Add(10*time.Second)), now), ErrTokenExpired)
	assert.NoError(t, CheckToken("opaque-api-token", now))
	assert.ErrorIs(t, CheckToken("", now), ErrNotLoggedIn)
}

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	got, err := PromptLine(bufio.NewReader(strings.NewReader("  user@example.de \n")), &out, "Email: ")
	require.NoError(t, err)
	assert.Equal(t, "user@example.de", got)
	assert.Equal(t, "Email: ", out.String())

	got, err = PromptLine(bufio.NewReader(strings.NewReader("last")), &out, "Email: ")
	require.NoError(t, err)
	assert.Equal(t, "last", got)
}

func TestPromptPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := PromptPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = PromptPassword(&out)
	assert.Error(t, err)
}
