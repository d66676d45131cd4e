package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// ErrJWTSecretMissing is returned when JWT_SECRET is unset or blank.
var ErrJWTSecretMissing = errors.New("JWT_SECRET must be set to a non-empty value")

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	Env             string        `env:"APP_ENV" env-default:"local"`
	Port            string        `env:"PORT" env-default:"5000"`
	ListenAddr      string        `env:"LISTEN_ADDR"`
	DatabasePath    string        `env:"DATABASE_PATH" env-default:"biolink.db"`
	JWTSecret       string        `env:"JWT_SECRET" env-required:"true"`
	GinMode         string        `env:"GIN_MODE" env-default:"release"`
	UploadDir       string        `env:"UPLOAD_DIR" env-default:"uploads"`
	UploadURLPath   string        `env:"UPLOAD_URL_PATH" env-default:"/uploads"`
	ProfileUsername string        `env:"PROFILE_USERNAME"`
	StaticDir       string        `env:"STATIC_DIR"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// A .env file in the working directory is loaded first when present; real
// environment variables always win over it.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	cfg.normalize()
	if cfg.JWTSecret == "" {
		return AppConfig{}, ErrJWTSecretMissing
	}
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Env = strings.TrimSpace(c.Env)
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = "5000"
	}
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}
	c.DatabasePath = strings.TrimSpace(c.DatabasePath)
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.GinMode = strings.TrimSpace(c.GinMode)
	c.UploadDir = strings.TrimSpace(c.UploadDir)

	urlPath := "/" + strings.Trim(strings.TrimSpace(c.UploadURLPath), "/")
	if urlPath == "/" {
		urlPath = "/uploads"
	}
	c.UploadURLPath = urlPath

	c.ProfileUsername = strings.TrimSpace(c.ProfileUsername)
	c.StaticDir = strings.TrimSpace(c.StaticDir)

	origins := make([]string, 0, len(c.CORSOrigins))
	for _, origin := range c.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.CORSOrigins = origins
}
