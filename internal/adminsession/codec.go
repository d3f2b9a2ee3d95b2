// Package adminsession gates the catalog editor. Login exchanges the shared
// admin token for a signed, httponly session cookie; there is no server-side
// session state.
package adminsession

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalid = errors.New("invalid admin session")

const CookieName = "admin_session"

// Codec issues and verifies the admin session cookie. Token is the expected
// shared secret; TokenHash, when set, is a bcrypt hash and takes precedence.
type Codec struct {
	Secret    []byte
	Token     string
	TokenHash string
	TTL       time.Duration
	Secure    bool
}

func New(secret []byte, token, tokenHash string, ttl time.Duration, secure bool) *Codec {
	return &Codec{Secret: secret, Token: token, TokenHash: tokenHash, TTL: ttl, Secure: secure}
}

// MatchToken compares a presented token against the configured secret in
// constant time.
func (c *Codec) MatchToken(provided string) bool {
	provided = strings.TrimSpace(provided)
	if provided == "" {
		return false
	}
	if c.TokenHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.TokenHash), []byte(provided)) == nil
	}
	if c.Token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Token), []byte(provided)) == 1
}

// value format: expiresUnix.base64url(hmac("admin." + expiresUnix))
func (c *Codec) Encode(expires time.Time) string {
	exp := strconv.FormatInt(expires.Unix(), 10)
	return exp + "." + c.sign(exp)
}

func (c *Codec) Decode(v string) (time.Time, error) {
	parts := strings.Split(v, ".")
	if len(parts) != 2 || parts[0] == "" {
		return time.Time{}, ErrInvalid
	}
	want := c.sign(parts[0])
	if subtle.ConstantTimeCompare([]byte(want), []byte(parts[1])) != 1 {
		return time.Time{}, ErrInvalid
	}
	unix, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, ErrInvalid
	}
	return time.Unix(unix, 0), nil
}

// Issue sets the session cookie on the response.
func (c *Codec) Issue(ctx *gin.Context) {
	expires := time.Now().Add(c.TTL)
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(CookieName, c.Encode(expires), int(c.TTL.Seconds()), "/", "", c.Secure, true)
}

// Valid reports whether the request carries an unexpired, untampered session.
func (c *Codec) Valid(ctx *gin.Context) bool {
	v, err := ctx.Cookie(CookieName)
	if err != nil || v == "" {
		return false
	}
	expires, err := c.Decode(v)
	if err != nil {
		return false
	}
	return time.Now().Before(expires)
}

// Clear expires the cookie.
func (c *Codec) Clear(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(CookieName, "", -1, "/", "", c.Secure, true)
}

func (c *Codec) sign(payload string) string {
	m := hmac.New(sha256.New, c.Secret)
	m.Write([]byte("admin." + payload))
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}
