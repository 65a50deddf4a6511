package router

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/yatube/internal/handlers"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/internal/views"
	"github.com/anonto42/yatube/pkg/cache"
	"github.com/anonto42/yatube/pkg/config"
	"github.com/anonto42/yatube/pkg/storage"
	"github.com/anonto42/yatube/validators"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// CSRFCookieName and CSRFFormField carry the token checked on unsafe requests
const (
	CSRFCookieName = "csrftoken"
	CSRFFormField  = "csrfmiddlewaretoken"
)

// Options are the dependencies the application is built from
type Options struct {
	DB        *gorm.DB
	Config    *config.Config
	Images    *storage.ImageStore
	PageCache cache.Store
	// FirebaseAuth enables Firebase sign-in when set
	FirebaseAuth handlers.IDTokenVerifier
	// MediaRoot is served under the media URL when uploads are kept on disk
	MediaRoot string
}

// Migrate brings the schema up to date with the models
func Migrate(db *gorm.DB) error {
	return repositories.Migrate(db)
}

// New builds the echo application with its renderer, middleware and routes
func New(opts Options) (*echo.Echo, error) {
	renderer, err := views.New(opts.Images)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	users := repositories.NewPostgresUserRepository(opts.DB)
	sessions := middleware.NewSessions(opts.Config.SecretKey, opts.Config.SessionTTL, opts.Config.IsProduction(), users)

	SetupMiddleware(e, opts.Config, sessions)
	SetupRoutes(e, opts, sessions)
	return e, nil
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config, sessions *middleware.Sessions) {
	mediaPrefix := strings.TrimSuffix(cfg.MediaURL, "/") + "/"
	e.Pre(eMiddleware.AddTrailingSlashWithConfig(eMiddleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/health" || strings.HasPrefix(p, mediaPrefix)
		},
	}))

	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CSRFWithConfig(eMiddleware.CSRFConfig{
		TokenLookup:    "form:" + CSRFFormField,
		CookieName:     CSRFCookieName,
		CookiePath:     "/",
		CookieMaxAge:   int((365 * 24 * time.Hour).Seconds()),
		CookieSecure:   cfg.IsProduction(),
		CookieSameSite: http.SameSiteLaxMode,
		ErrorHandler: func(err error, c echo.Context) error {
			return echo.NewHTTPError(http.StatusForbidden, "CSRF verification failed. Request aborted.")
		},
	}))
	e.Use(sessions.LoadUser())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, opts Options, sessions *middleware.Sessions) {
	db := opts.DB
	perPage := opts.Config.PostsPerPage

	e.GET("/health", handlers.HealthCheck(db))
	if opts.MediaRoot != "" {
		e.Static(strings.TrimSuffix(opts.Config.MediaURL, "/"), opts.MediaRoot)
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	groupRepo := repositories.NewPostgresGroupRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)

	requireLogin := middleware.RequireLogin(handlers.LoginURL)
	cacheIndex := middleware.CachePage(opts.PageCache, opts.Config.IndexCacheTTL)

	authHandler := handlers.NewAuthHandler(userRepo, sessions, opts.FirebaseAuth)
	authHandler.RegisterAuthRoutes(e)

	postHandler := handlers.NewPostHandler(postRepo, groupRepo, commentRepo, opts.Images, perPage)
	postHandler.RegisterPostRoutes(e, requireLogin, cacheIndex)

	userHandler := handlers.NewUserHandler(userRepo, postRepo, followRepo, perPage)
	userHandler.RegisterProfileRoutes(e)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	commentHandler.RegisterCommentRoutes(e, requireLogin)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo)
	followHandler.RegisterFollowRoutes(e, requireLogin)

	feedHandler := handlers.NewFeedHandler(postRepo, perPage)
	feedHandler.RegisterFeedRoutes(e, requireLogin)

	handlers.RegisterAboutRoutes(e)
	log.Println("All routes configured.")
}
