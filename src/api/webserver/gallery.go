package webserver

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/navjeevan-trust/orgsite/src/api/types"
)

type Gallery struct {
	db        *gorm.DB
	rdb       *redis.Client
	uploadDir string
}

func NewGallery(db *gorm.DB, rdb *redis.Client, uploadDir string) Gallery {
	return Gallery{db: db, rdb: rdb, uploadDir: uploadDir}
}

// Home backs the public landing page: only active images, in manual
// order, newest first within the same slot.
func (h Gallery) Home(c *gin.Context) {
	var images []types.GalleryImage
	err := h.db.Where("is_active = ?", true).
		Order("sort_order ASC, created_at DESC").
		Find(&images).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gallery": images, "flashes": popFlashes(c, h.rdb)})
}

func (h Gallery) Add(c *gin.Context) {
	title := c.PostForm("image_title")
	sortOrder, _ := strconv.Atoi(c.DefaultPostForm("sort_order", "0"))
	if title == "" {
		pushFlash(c, h.rdb, "danger", "Image title is required.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	file, err := c.FormFile("image_file")
	if err != nil {
		pushFlash(c, h.rdb, "danger", "No file selected.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}
	if !allowedFile(file.Filename, imageExts) {
		pushFlash(c, h.rdb, "danger", "Invalid file type. Please upload a valid image file.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	stored := time.Now().Format("20060102150405") + "_" + safeFilename(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, stored)); err != nil {
		log.Printf("gallery: save upload: %v", err)
		pushFlash(c, h.rdb, "danger", "Failed to store the uploaded image.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	image := types.GalleryImage{Title: title, Filename: stored, IsActive: true, SortOrder: sortOrder}
	if err := h.db.Create(&image).Error; err != nil {
		log.Printf("gallery: insert: %v", err)
		pushFlash(c, h.rdb, "danger", "Failed to save the gallery image.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	pushFlash(c, h.rdb, "success", "Gallery image uploaded successfully!")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// Toggle flips an image between shown and hidden.
func (h Gallery) Toggle(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var image types.GalleryImage
	if err := h.db.First(&image, id).Error; err != nil {
		pushFlash(c, h.rdb, "danger", "Gallery image not found.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	newState := !image.IsActive
	if err := h.db.Model(&image).Update("is_active", newState).Error; err != nil {
		log.Printf("gallery: toggle %d: %v", id, err)
		pushFlash(c, h.rdb, "danger", "Failed to update the gallery image.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	if newState {
		pushFlash(c, h.rdb, "success", "Gallery image activated successfully!")
	} else {
		pushFlash(c, h.rdb, "success", "Gallery image deactivated successfully!")
	}
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (h Gallery) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var image types.GalleryImage
	if err := h.db.First(&image, id).Error; err != nil {
		pushFlash(c, h.rdb, "danger", "Gallery image not found.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	if err := os.Remove(filepath.Join(h.uploadDir, image.Filename)); err != nil && !os.IsNotExist(err) {
		log.Printf("gallery: remove file %s: %v", image.Filename, err)
	}

	if err := h.db.Delete(&types.GalleryImage{}, id).Error; err != nil {
		log.Printf("gallery: delete row %d: %v", id, err)
		pushFlash(c, h.rdb, "danger", "Failed to delete the gallery image.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	pushFlash(c, h.rdb, "success", "Gallery image deleted successfully!")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}
