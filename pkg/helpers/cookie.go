package helpers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	// the refresh token is only ever read by the auth endpoints
	RefreshCookiePath = "/api/auth"
)

// CookieManager writes the HttpOnly session cookie pair.
type CookieManager struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookieManager(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure, SameSite: http.SameSiteLaxMode}
}

func (m *CookieManager) set(c *gin.Context, name, value string, maxAge int, path string) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(name, value, maxAge, path, m.Domain, m.Secure, true)
}

func (m *CookieManager) SetPair(c *gin.Context, access string, accessExp time.Time, refresh string, refreshExp time.Time) {
	m.set(c, AccessCookie, access, secondsUntil(accessExp), "/")
	m.set(c, RefreshCookie, refresh, secondsUntil(refreshExp), RefreshCookiePath)
}

func (m *CookieManager) Clear(c *gin.Context) {
	m.set(c, AccessCookie, "", -1, "/")
	m.set(c, RefreshCookie, "", -1, RefreshCookiePath)
}

// AccessToken returns the bearer token from the Authorization header,
// falling back to the access cookie.
func AccessToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if tok, err := c.Cookie(AccessCookie); err == nil {
		return tok
	}
	return ""
}

func secondsUntil(exp time.Time) int {
	if sec := int(time.Until(exp).Seconds()); sec > 0 {
		return sec
	}
	return 0
}
