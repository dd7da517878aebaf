package webserver

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/navjeevan-trust/orgsite/src/api/types"
)

type Notices struct {
	db        *gorm.DB
	rdb       *redis.Client
	uploadDir string
}

func NewNotices(db *gorm.DB, rdb *redis.Client, uploadDir string) Notices {
	return Notices{db: db, rdb: rdb, uploadDir: uploadDir}
}

// List is the public notice board, newest first.
func (h Notices) List(c *gin.Context) {
	var notices []types.Notice
	if err := h.db.Order("created_at DESC").Find(&notices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

// Add stores an uploaded PDF and its notice row.
func (h Notices) Add(c *gin.Context) {
	title := c.PostForm("title")
	noticeDate := c.PostForm("notice_date")
	if title == "" {
		pushFlash(c, h.rdb, "danger", "Notice title is required.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	file, err := c.FormFile("pdf_file")
	if err != nil {
		pushFlash(c, h.rdb, "danger", "No file selected.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}
	if !allowedFile(file.Filename, noticeExts) {
		pushFlash(c, h.rdb, "danger", "Invalid file type. Only PDFs are allowed.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	// Prefix with a random ID so two notices with the same filename
	// never overwrite each other.
	stored := uuid.NewString()[:8] + "_" + safeFilename(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, stored)); err != nil {
		log.Printf("notices: save upload: %v", err)
		pushFlash(c, h.rdb, "danger", "Failed to store the uploaded file.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	notice := types.Notice{Title: title, Filename: stored, NoticeDate: noticeDate}
	if err := h.db.Create(&notice).Error; err != nil {
		log.Printf("notices: insert: %v", err)
		pushFlash(c, h.rdb, "danger", "Failed to save the notice.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	log.Printf("notices: %s added notice %d (%s)", authFrom(c).Username, notice.ID, stored)
	pushFlash(c, h.rdb, "success", "New notice has been successfully added!")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// Delete removes the stored file and the row. A missing file on disk is
// reported but does not keep the row alive.
func (h Notices) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var notice types.Notice
	if err := h.db.First(&notice, id).Error; err != nil {
		pushFlash(c, h.rdb, "danger", "Notice not found.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	if err := os.Remove(filepath.Join(h.uploadDir, notice.Filename)); err != nil && !os.IsNotExist(err) {
		log.Printf("notices: remove file %s: %v", notice.Filename, err)
	} else if os.IsNotExist(err) {
		pushFlash(c, h.rdb, "warning", "File not found on server, but deleting from database.")
	}

	if err := h.db.Delete(&types.Notice{}, id).Error; err != nil {
		log.Printf("notices: delete row %d: %v", id, err)
		pushFlash(c, h.rdb, "danger", "Failed to delete the notice.")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	pushFlash(c, h.rdb, "success", "Notice has been successfully deleted.")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}
