package webserver

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	noticeExts = map[string]bool{".pdf": true}
	imageExts  = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
)

func allowedFile(name string, allowed map[string]bool) bool {
	return allowed[strings.ToLower(filepath.Ext(name))]
}

// safeFilename reduces a client-supplied filename to a flat, shell-safe
// base name.
func safeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ServeUpload serves stored notice PDFs and gallery images. Only flat
// filenames are accepted; anything resembling a path is rejected.
func ServeUpload(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("filename")
		if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
			c.JSON(http.StatusBadRequest, gin.H{"err": "bad filename"})
			return
		}
		c.File(filepath.Join(dir, name))
	}
}
