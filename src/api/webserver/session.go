package webserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/navjeevan-trust/orgsite/src/api/data"
)

const (
	sessionCookie = "orgsite_session"

	ctxAuth    = "auth"
	ctxSession = "sid"
)

// AuthContext identifies the admin behind an authenticated request.
// Handlers read it from the request context; nothing is ambient.
type AuthContext struct {
	Username string
}

// issueSessionToken wraps the opaque Redis session ID in a signed
// cookie value. The JWT proves the cookie came from us; the Redis
// lookup is what actually decides whether the session is alive.
func issueSessionToken(sid string, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

func resolveSession(c *gin.Context, rdb *redis.Client, secret []byte) (AuthContext, string, bool) {
	raw, err := c.Cookie(sessionCookie)
	if err != nil || raw == "" {
		return AuthContext{}, "", false
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return AuthContext{}, "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AuthContext{}, "", false
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return AuthContext{}, "", false
	}
	username, err := data.GetSession(c, rdb, sid)
	if err != nil || username == "" {
		return AuthContext{}, "", false
	}
	return AuthContext{Username: username}, sid, true
}

// RequireSessionHTML guards the form-driven admin routes: anonymous
// requests are redirected to the login page, not rejected outright.
func RequireSessionHTML(rdb *redis.Client, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, sid, ok := resolveSession(c, rdb, secret)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/admin/login")
			c.Abort()
			return
		}
		c.Set(ctxAuth, auth)
		c.Set(ctxSession, sid)
		c.Next()
	}
}

// RequireSessionJSON guards the machine-readable admin API.
func RequireSessionJSON(rdb *redis.Client, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, sid, ok := resolveSession(c, rdb, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "unauthenticated"})
			return
		}
		c.Set(ctxAuth, auth)
		c.Set(ctxSession, sid)
		c.Next()
	}
}

func authFrom(c *gin.Context) AuthContext {
	if v, ok := c.Get(ctxAuth); ok {
		if auth, ok := v.(AuthContext); ok {
			return auth
		}
	}
	return AuthContext{}
}
