package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/gate"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/labstack/echo/v4"
)

const (
	sessionKey = "session"
	userKey    = "user"
)

// echoRequest adapts an echo.Context to gate.Request.
type echoRequest struct {
	c echo.Context
}

func (r echoRequest) Mutating() bool {
	switch r.c.Request().Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func (r echoRequest) BearerToken() string {
	scheme, token, ok := strings.Cut(r.c.Request().Header.Get(common.AuthorizationHeaderName), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

func (r echoRequest) Session() *models.Session {
	return sessionFrom(r.c)
}

func (r echoRequest) CSRFToken() string {
	return r.c.FormValue(common.CSRFFieldName)
}

// guard runs the gate for policy before the handler and stores the
// authenticated user on the context.
func (s *Server) guard(policy gate.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := s.gate.Authorize(c.Request().Context(), policy, echoRequest{c})
			if err != nil {
				return err
			}
			if user != nil {
				c.Set(userKey, user)
			}
			return next(c)
		}
	}
}

func sessionFrom(c echo.Context) *models.Session {
	sess, _ := c.Get(sessionKey).(*models.Session)
	return sess
}

func userFrom(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}
