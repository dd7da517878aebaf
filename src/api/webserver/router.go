package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/navjeevan-trust/orgsite/src/api/config"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://www.navjeevantrust.org"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	secret := []byte(cfg.JWTSecret)
	ttl := time.Duration(cfg.SessionTTLMin) * time.Minute

	authH := NewAuth(db, rdb, secret, ttl)
	dashH := NewDashboard(db, rdb)
	regH := NewRegistrations(db, rdb)
	noticeH := NewNotices(db, rdb, cfg.UploadDir)
	galleryH := NewGallery(db, rdb, cfg.UploadDir)

	// Public site
	r.GET("/", galleryH.Home)
	r.GET("/notices", noticeH.List)
	r.GET("/uploads/:filename", ServeUpload(cfg.UploadDir))
	r.GET("/event-registration", regH.IntakeForm)
	r.POST("/event-registration", regH.Submit)

	// Login is the only admin surface reachable anonymously
	r.GET("/admin", authH.Root)
	r.GET("/admin/login", authH.LoginForm)
	r.POST("/admin/login", authH.Login)

	// Admin HTML routes: anonymous requests bounce to the login page
	admin := r.Group("/admin")
	admin.Use(RequireSessionHTML(rdb, secret))
	{
		admin.GET("/dashboard", dashH.Show)
		admin.POST("/logout", authH.Logout)

		admin.POST("/add", noticeH.Add)
		admin.POST("/delete/:id", noticeH.Delete)

		admin.POST("/add_gallery_image", galleryH.Add)
		admin.POST("/toggle_gallery_image/:id", galleryH.Toggle)
		admin.POST("/delete_gallery_image/:id", galleryH.Delete)

		admin.POST("/edit_registration/:id", regH.Edit)
		admin.POST("/approve_registration/:id", regH.Approve)
		admin.POST("/delete_registration/:id", regH.Delete)

		admin.GET("/export/excel", regH.ExportExcel)
		admin.GET("/export/pdf", regH.ExportPDF)
	}

	// Machine-readable admin API: anonymous requests get a structured 401
	api := r.Group("/admin/api")
	api.Use(RequireSessionJSON(rdb, secret))
	{
		api.GET("/registrations", regH.ListJSON)
	}
}
