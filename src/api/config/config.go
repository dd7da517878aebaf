package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MySQLDSN      string
	RedisURL      string
	JWTSecret     string
	Port          string
	UploadDir     string
	SessionTTLMin int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	_ = godotenv.Load()

	ttl, _ := strconv.Atoi(getenv("SESSION_TTL_MINUTES", "60"))
	return Config{
		MySQLDSN:      getenv("MYSQL_DSN", "orgsite:orgsite@tcp(localhost:3306)/orgsite?parseTime=true"),
		RedisURL:      getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:     getenv("JWT_SECRET", ""),
		Port:          getenv("PORT", "8080"),
		UploadDir:     getenv("UPLOAD_DIR", "static/uploads"),
		SessionTTLMin: ttl,
	}
}
