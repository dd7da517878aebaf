package webserver

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/navjeevan-trust/orgsite/src/api/data"
	"github.com/navjeevan-trust/orgsite/src/api/types"
)

type Auth struct {
	db        *gorm.DB
	rdb       *redis.Client
	jwtSecret []byte
	ttl       time.Duration
}

func NewAuth(db *gorm.DB, rdb *redis.Client, secret []byte, ttl time.Duration) Auth {
	return Auth{db: db, rdb: rdb, jwtSecret: secret, ttl: ttl}
}

// Root sends the browser to the dashboard when a session exists,
// otherwise to the login page.
func (a Auth) Root(c *gin.Context) {
	if _, _, ok := resolveSession(c, a.rdb, a.jwtSecret); ok {
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

// LoginForm backs the login page: it only surfaces pending notices.
func (a Auth) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"flashes": popFlashes(c, a.rdb)})
}

func (a Auth) Login(c *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		pushFlash(c, a.rdb, "danger", "Username and password are required.")
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}

	var user types.User
	err := a.db.First(&user, "username = ?", req.Username).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("auth: lookup %q: %v", req.Username, err)
		pushFlash(c, a.rdb, "danger", "Login failed, please try again.")
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		log.Printf("auth: failed login for %q from %s", req.Username, c.ClientIP())
		pushFlash(c, a.rdb, "danger", "Invalid username or password.")
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}

	sid := uuid.NewString()
	if err := data.SetSession(c, a.rdb, sid, user.Username, a.ttl); err != nil {
		log.Printf("auth: session store: %v", err)
		pushFlash(c, a.rdb, "danger", "Login failed, please try again.")
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}
	token, err := issueSessionToken(sid, a.jwtSecret, a.ttl)
	if err != nil {
		log.Printf("auth: token: %v", err)
		pushFlash(c, a.rdb, "danger", "Login failed, please try again.")
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}

	c.SetCookie(sessionCookie, token, int(a.ttl.Seconds()), "/", "", false, true)
	log.Printf("auth: %q logged in from %s", user.Username, c.ClientIP())
	pushFlash(c, a.rdb, "success", "You were successfully logged in!")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (a Auth) Logout(c *gin.Context) {
	if sid := c.GetString(ctxSession); sid != "" {
		_ = data.DelSession(c, a.rdb, sid)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	pushFlash(c, a.rdb, "info", "You have been logged out.")
	c.Redirect(http.StatusSeeOther, "/admin/login")
}
