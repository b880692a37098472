package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/auth"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/labstack/echo/v4"
)

// loadSession attaches the browser session to the context, starting a new
// anonymous one when the cookie is missing, forged, expired or stale.
func (s *Server) loadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var sess *models.Session
		if cookie, err := c.Cookie(common.SessionCookieName); err == nil {
			if id, err := auth.SessionIDFromCookie(cookie.Value, []byte(s.cfg.SecretKey)); err == nil {
				sess, err = s.svc.Sessions.Load(ctx, id)
				if err != nil && !errors.Is(err, common.ErrorNotFound) {
					return err
				}
			}
		}

		if sess == nil {
			var err error
			if sess, err = s.svc.Sessions.Start(ctx); err != nil {
				return err
			}
			if err := s.writeSessionCookie(c, sess); err != nil {
				return err
			}
		}

		c.Set(sessionKey, sess)
		return next(c)
	}
}

func (s *Server) writeSessionCookie(c echo.Context, sess *models.Session) error {
	value, err := auth.SignSessionID(sess.ID, []byte(s.cfg.SecretKey), s.cfg.SessionTTL)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     common.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
