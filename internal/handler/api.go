package handler

import (
	"log/slog"

	"github.com/biolink/internal/auth"
	"github.com/biolink/internal/logging"
	"github.com/biolink/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	auth            *service.AuthService
	profiles        *service.ProfileService
	links           *service.LinkService
	socials         *service.SocialService
	analytics       *service.AnalyticsService
	log             *slog.Logger
	profileUsername string
}

// Options carries the deployment settings the handlers need.
type Options struct {
	UploadDir       string
	UploadURL       string
	ProfileUsername string
	Logger          *slog.Logger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, tokens *auth.Manager, opts Options) *API {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	analytics := service.NewAnalyticsService(gdb)
	media := service.NewMediaService(opts.UploadDir, opts.UploadURL)

	return &API{
		auth:            service.NewAuthService(gdb, tokens),
		profiles:        service.NewProfileService(gdb, analytics, media, log),
		links:           service.NewLinkService(gdb, analytics, log),
		socials:         service.NewSocialService(gdb),
		analytics:       analytics,
		log:             log,
		profileUsername: opts.ProfileUsername,
	}
}

// WithAuthService swaps the credential store, used by tests to lower the bcrypt cost.
func (a *API) WithAuthService(svc *service.AuthService) *API {
	if svc != nil {
		a.auth = svc
	}
	return a
}
