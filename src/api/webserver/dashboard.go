package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/navjeevan-trust/orgsite/src/api/types"
)

type Dashboard struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewDashboard(db *gorm.DB, rdb *redis.Client) Dashboard {
	return Dashboard{db: db, rdb: rdb}
}

// Show backs the admin dashboard view: all notices, the full gallery
// (inactive images included) and any pending notices from the last
// redirect.
func (d Dashboard) Show(c *gin.Context) {
	var notices []types.Notice
	if err := d.db.Order("created_at DESC").Find(&notices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	var images []types.GalleryImage
	if err := d.db.Order("sort_order ASC, created_at DESC").Find(&images).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": authFrom(c).Username,
		"notices":  notices,
		"gallery":  images,
		"flashes":  popFlashes(c, d.rdb),
	})
}
