package googleauth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testClientSecret = `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost"],
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token"
  }
}`

func writeTestFiles(t *testing.T, withToken bool) *ClientSource {
	t.Helper()
	dir := t.TempDir()

	credPath := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(credPath, []byte(testClientSecret), 0600))

	tokenPath := filepath.Join(dir, "token.json")
	if withToken {
		require.NoError(t, writeToken(tokenPath, &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
		}))
	}

	return NewClientSource(credPath, tokenPath)
}

func TestServiceMissingCredentials(t *testing.T) {
	src := NewClientSource("/nonexistent/credentials.json", "/nonexistent/token.json")

	_, err := src.Service(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestServiceMissingToken(t *testing.T) {
	src := writeTestFiles(t, false)

	_, err := src.Service(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Contains(t, err.Error(), "trolyai auth")
}

func TestServiceCachesHandle(t *testing.T) {
	src := writeTestFiles(t, true)

	svc1, err := src.Service(context.Background())
	require.NoError(t, err)
	svc2, err := src.Service(context.Background())
	require.NoError(t, err)
	assert.Same(t, svc1, svc2)

	src.Invalidate()
	svc3, err := src.Service(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, svc1, svc3)
}

func TestAuthURL(t *testing.T) {
	src := writeTestFiles(t, false)

	url, err := src.AuthURL()
	require.NoError(t, err)
	assert.Contains(t, url, "accounts.google.com")
	assert.Contains(t, url, "access_type=offline")
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}

	require.NoError(t, writeToken(path, tok))

	got, err := readToken(path)
	require.NoError(t, err)
	assert.Equal(t, tok.AccessToken, got.AccessToken)
	assert.Equal(t, tok.RefreshToken, got.RefreshToken)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
