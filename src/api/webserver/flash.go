package webserver

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/navjeevan-trust/orgsite/src/api/data"
)

// Flash notices follow the browser, not the session, so the public
// intake form gets them too. The cookie holds only a random ID; the
// notices themselves live in Redis until the redirect target reads
// them.
const flashCookie = "orgsite_flash"

func flashID(c *gin.Context) string {
	id, err := c.Cookie(flashCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
		c.SetCookie(flashCookie, id, 600, "/", "", false, true)
	}
	return id
}

func pushFlash(c *gin.Context, rdb *redis.Client, level, message string) {
	if err := data.PushFlash(c, rdb, flashID(c), data.Flash{Level: level, Message: message}); err != nil {
		log.Printf("flash: push failed: %v", err)
	}
}

func popFlashes(c *gin.Context, rdb *redis.Client) []data.Flash {
	flashes, err := data.PopFlashes(c, rdb, flashID(c))
	if err != nil {
		log.Printf("flash: pop failed: %v", err)
		return nil
	}
	return flashes
}
