package app

import (
	"strings"
	"time"

	"github.com/adanepro/spotlightacademy-sub000/internal/logger"
	"github.com/adanepro/spotlightacademy-sub000/internal/utils"
)

type Config struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	AllowOrigins   []string
	Port           string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log)
	port := utils.GetEnv("PORT", "8080", log)
	return Config{
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		AllowOrigins:   strings.Split(origins, ","),
		Port:           port,
	}
}
