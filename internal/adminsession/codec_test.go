package adminsession

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testCodec() *Codec {
	return New([]byte("test-secret"), "sekrit-token", "", 6*time.Hour, false)
}

func ctxWithCookie(t *testing.T, value string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: value})
	}
	return c
}

func TestMatchToken(t *testing.T) {
	c := testCodec()
	require.True(t, c.MatchToken("sekrit-token"))
	require.True(t, c.MatchToken("  sekrit-token  "), "surrounding whitespace is trimmed")
	require.False(t, c.MatchToken("wrong"))
	require.False(t, c.MatchToken(""))
}

func TestMatchTokenBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sekrit-token"), bcrypt.MinCost)
	require.NoError(t, err)

	c := New([]byte("test-secret"), "", string(hash), 6*time.Hour, false)
	require.True(t, c.MatchToken("sekrit-token"))
	require.False(t, c.MatchToken("wrong"))
}

func TestMatchTokenNoSecretConfigured(t *testing.T) {
	c := New([]byte("test-secret"), "", "", 6*time.Hour, false)
	require.False(t, c.MatchToken("anything"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := testCodec()
	expires := time.Now().Add(time.Hour).Truncate(time.Second)

	got, err := c.Decode(c.Encode(expires))
	require.NoError(t, err)
	require.True(t, got.Equal(expires))
}

func TestDecodeRejectsTampering(t *testing.T) {
	c := testCodec()
	v := c.Encode(time.Now().Add(time.Hour))

	_, err := c.Decode(v + "x")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = c.Decode("9999999999." + "forged-signature")
	require.ErrorIs(t, err, ErrInvalid)

	other := New([]byte("other-secret"), "sekrit-token", "", 6*time.Hour, false)
	_, err = other.Decode(v)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidRejectsExpiredSession(t *testing.T) {
	c := testCodec()
	expired := c.Encode(time.Now().Add(-time.Minute))
	require.False(t, c.Valid(ctxWithCookie(t, expired)))

	live := c.Encode(time.Now().Add(time.Hour))
	require.True(t, c.Valid(ctxWithCookie(t, live)))
}

func TestValidWithoutCookie(t *testing.T) {
	c := testCodec()
	require.False(t, c.Valid(ctxWithCookie(t, "")))
}
