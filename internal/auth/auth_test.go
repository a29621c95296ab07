package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("pw1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=4$"))

	ok, err := VerifyPassword(hash, "pw1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = HashPassword(strings.Repeat("x", MaxPasswordLength+1))
	assert.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, hash := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$aaaa$bbbb", "$argon2id$v=1$m=1,t=1,p=1$aaaa$bbbb"} {
		ok, err := VerifyPassword(hash, "pw")
		require.NoError(t, err)
		assert.False(t, ok, hash)
	}
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	svc, err := NewTokenService(key)
	require.NoError(t, err)
	return svc
}

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := newTestTokenService(t)
	expires := time.Now().Add(time.Hour).Truncate(time.Second)

	token, err := svc.Issue(SessionClaims{SessionID: "sess-1", UserID: "user-1", ExpiresAt: expires})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.ExpiresAt.Equal(expires))
}

func TestTokenService_NoExpiry(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue(SessionClaims{SessionID: "sess-1", UserID: "user-1"})
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.IsZero())
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue(SessionClaims{SessionID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_RejectsForeignAndGarbage(t *testing.T) {
	a := newTestTokenService(t)
	b := newTestTokenService(t)

	token, err := a.Issue(SessionClaims{SessionID: "sess-1", UserID: "user-1"})
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.Error(t, err, "token sealed with another key")

	for _, garbage := range []string{"", "not-a-token", "v4.local.AAAA", token + "x"} {
		_, err := a.Parse(garbage)
		assert.Error(t, err, garbage)
	}
}

func TestTokenService_IssueRequiresIDs(t *testing.T) {
	svc := newTestTokenService(t)
	_, err := svc.Issue(SessionClaims{UserID: "user-1"})
	assert.Error(t, err)
	_, err = svc.Issue(SessionClaims{SessionID: "sess-1"})
	assert.Error(t, err)
}

func TestNewTokenService_BadKey(t *testing.T) {
	_, err := NewTokenService("short")
	assert.Error(t, err)
	_, err = NewTokenService(strings.Repeat("zz", 32))
	assert.Error(t, err)
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyHexLength)

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second, "key must persist across restarts")
}

func TestLoadOrGenerateKey_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("abc"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}
