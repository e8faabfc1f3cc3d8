package persist

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrCredentialsExpired = errors.New("persist: access token expired")

// DefaultCookieName is the session cookie the map service issues on login.
const DefaultCookieName = "users_access_token"

// Credentials authenticate save requests. Token goes into a Bearer header,
// Cookie into a cookie named CookieName. Either may be empty.
type Credentials struct {
	Token      string
	Cookie     string
	CookieName string
}

func (c Credentials) Empty() bool { return c.Token == "" && c.Cookie == "" }

// Apply attaches the credentials to req.
func (c Credentials) Apply(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.Cookie != "" {
		name := c.CookieName
		if name == "" {
			name = DefaultCookieName
		}
		req.AddCookie(&http.Cookie{Name: name, Value: c.Cookie})
	}
}

// Check reports ErrCredentialsExpired when a JWT credential carries an exp
// claim before now. Opaque tokens are not inspected further; the server has
// the final word on them.
func (c Credentials) Check(now time.Time) error {
	for _, tok := range []string{c.Token, c.Cookie} {
		if tok == "" {
			continue
		}
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
			continue
		}
		if !claims.VerifyExpiresAt(now.Unix(), false) {
			return ErrCredentialsExpired
		}
	}
	return nil
}
