package server

import (
	"errors"
	"strings"

	"github.com/MendeIT/django-blog-project/internal/auth"
	"github.com/MendeIT/django-blog-project/internal/config"
	"github.com/MendeIT/django-blog-project/internal/db"
	"github.com/MendeIT/django-blog-project/internal/media"
	"github.com/MendeIT/django-blog-project/internal/pagecache"
	"github.com/MendeIT/django-blog-project/internal/social"
	"github.com/MendeIT/django-blog-project/internal/stream"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     db.Querier
	Redis  *redis.Client
	Stream *stream.Hub
	Cache  *pagecache.Store
}

func NewServer(cfg config.Config, database db.Querier, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
		BodyLimit:    media.MaxImageSize + 1<<20,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(auth.IdentityMiddleware(cfg.JWTSecret))
	if cfg.CSRFEnabled {
		app.Use(csrfMiddleware())
	}

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     database,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
		Cache:  pagecache.New(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	requireLogin := auth.RequireLogin(auth.DefaultLoginURL)
	images := media.NewService(s.Cfg.UploadDir)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	media.RegisterRoutes(s.App.Group("/media"), images, requireLogin)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
	social.RegisterRoutes(s.App, social.NewService(s.DB, s.Stream), images, requireLogin,
		pagecache.Middleware(s.Cache, pagecache.IndexKeyPrefix, s.Cfg.PageCacheTTL))

	s.App.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}

// csrfMiddleware guards unsafe requests that ride on the access cookie.
// Bearer-authenticated and cookie-less requests carry no ambient
// credentials and skip the check.
func csrfMiddleware() fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "header:" + csrf.HeaderName,
		CookieName:     "csrftoken",
		CookieSameSite: "Lax",
		Next: func(c *fiber.Ctx) bool {
			if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderAuthorization)), "bearer ") {
				return true
			}
			return c.Cookies(auth.AccessCookie) == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Warn().Err(err).Str("path", c.Path()).Msg("csrf check failed")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "csrf token invalid"})
		},
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	switch {
	case code == fiber.StatusNotFound:
		return c.Status(code).JSON(fiber.Map{"error": "not found", "path": c.Path()})
	case code >= fiber.StatusInternalServerError:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
