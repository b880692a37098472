// Package httpapi binds the catalogue to HTTP: a JSON API under /api and a
// server-rendered website, both served by one echo instance.
package httpapi

import (
	"time"

	"github.com/dmitrijs2005/tilapp/internal/logging"
	"github.com/dmitrijs2005/tilapp/internal/server/config"
	"github.com/dmitrijs2005/tilapp/internal/server/gate"
	"github.com/dmitrijs2005/tilapp/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// Services are the business components the handlers call into.
type Services struct {
	Users      *services.UserService
	Tokens     *services.TokenAuthority
	Sessions   *services.SessionAuthenticator
	Forgery    *services.ForgeryGuard
	Categories *services.CategoryService
	Acronyms   *services.AcronymService
}

type Server struct {
	cfg    *config.Config
	logger logging.Logger
	svc    Services
	gate   *gate.Gate
}

// New builds the echo instance with middleware and every route registered.
func New(cfg *config.Config, logger logging.Logger, svc Services) *echo.Echo {
	s := &Server{
		cfg:    cfg,
		logger: logger.With("module", "http"),
		svc:    svc,
		gate:   gate.New(svc.Tokens, svc.Sessions, svc.Forgery),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)
	e.Renderer = newRenderer()
	e.HTTPErrorHandler = s.handleError

	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Secure(),
		middleware.BodyLimit("1M"),
		logRequests(s.logger),
	)

	s.registerAPI(e.Group("/api"))
	s.registerWeb(e.Group("", s.loadSession))
	return e
}

func logRequests(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			c.SetRequest(c.Request().WithContext(logging.WithAttrs(c.Request().Context(), "request_id", id)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			args := []any{
				"method", req.Method,
				"uri", req.RequestURI,
				"route", c.Path(),
				"status", res.Status,
				"latency", time.Since(start),
			}
			if err != nil {
				args = append(args, "error", err)
			}
			logger.Debug(req.Context(), "request handled", args...)
			return nil
		}
	}
}
