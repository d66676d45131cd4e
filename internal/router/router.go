package router

import (
	"log/slog"
	"time"

	"github.com/biolink/internal/auth"
	"github.com/biolink/internal/config"
	"github.com/biolink/internal/handler"
	"github.com/biolink/internal/logging"
	"github.com/biolink/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig, log *slog.Logger) *gin.Engine {
	if log == nil {
		log = logging.Discard()
	}

	api := handler.NewAPI(gdb, auth.NewManager(cfg.JWTSecret), handler.Options{
		UploadDir:       cfg.UploadDir,
		UploadURL:       cfg.UploadURLPath,
		ProfileUsername: cfg.ProfileUsername,
		Logger:          log,
	})
	return New(api, cfg, log)
}

// New wires an existing handler set onto a fresh engine.
func New(api *handler.API, cfg config.AppConfig, log *slog.Logger) *gin.Engine {
	if log == nil {
		log = logging.Discard()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.MaxMultipartMemory = service.MaxImageBytes

	// 上传文件
	if cfg.UploadDir != "" && cfg.UploadURLPath != "" {
		r.Static(cfg.UploadURLPath, cfg.UploadDir)
	}

	r.GET("/config.js", api.ConfigScript)

	// 前端静态资源
	if cfg.StaticDir != "" {
		registerFrontend(r, cfg.StaticDir)
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.Health)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", api.Register)
			authGroup.POST("/login", api.Login)
			authGroup.POST("/change-password", api.AuthRequired(), api.ChangePassword)
		}

		profile := apiGroup.Group("/profile")
		{
			// 后台管理路由
			admin := profile.Group("/admin")
			admin.Use(api.AuthRequired())
			{
				admin.GET("/me", api.GetMyProfile)
				admin.PUT("/info", api.UpdateInfo)
				admin.PUT("/theme", api.UpdateTheme)
				admin.POST("/upload/avatar", api.UploadAvatar)
				admin.POST("/upload/cover", api.UploadCover)
				admin.GET("/links", api.ListLinks)
				admin.POST("/links", api.AddLink)
				admin.PUT("/links/reorder", api.ReorderLinks)
				admin.PUT("/links/:id", api.UpdateLink)
				admin.DELETE("/links/:id", api.DeleteLink)
				admin.PUT("/socials", api.UpdateSocials)
				admin.GET("/platforms", api.ListPlatforms)
				admin.GET("/stats", api.GetStats)
			}

			// 公开路由
			profile.GET("/:username", api.GetPublicProfile)
			profile.POST("/:username/click/:linkId", api.TrackClick)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Debug("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
