package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/reconcile"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps service errors onto HTTP status codes. Unrecognized
// errors become 500 and keep the cause as the internal error.
func toHTTPError(err error) *echo.HTTPError {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	// a partial failure also unwraps to the causes of its failed steps, which
	// must not turn it into a client error
	var pf *reconcile.PartialFailureError
	if errors.As(err, &pf) {
		return echo.NewHTTPError(http.StatusInternalServerError, common.ErrPartialReconciliation.Error()).WithInternal(err)
	}

	switch {
	case errors.Is(err, common.ErrorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrConstraintViolation):
		return echo.NewHTTPError(http.StatusBadRequest, "constraint violation")
	case errors.Is(err, common.ErrForgeryCheckFailed):
		return echo.NewHTTPError(http.StatusBadRequest, "forgery check failed")
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error").WithInternal(err)
}

// partialFailure is the body returned when a category sync only partly
// applied.
type partialFailure struct {
	Error string `json:"error"`
	*reconcile.Result
	Failed []string `json:"failed"`
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	ctx := c.Request().Context()

	if errors.Is(err, common.ErrLoginRequired) {
		if err := c.Redirect(http.StatusSeeOther, "/login"); err != nil {
			s.logger.Error(ctx, "redirect failed", "error", err)
		}
		return
	}

	he := toHTTPError(err)
	if he.Code >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "path", c.Path(), "error", err)
	}

	switch {
	case c.Request().Method == http.MethodHead:
		err = c.NoContent(he.Code)
	case strings.HasPrefix(c.Request().URL.Path, "/api/"):
		err = c.JSON(he.Code, map[string]any{"error": he.Message})
	default:
		err = c.String(he.Code, http.StatusText(he.Code))
	}
	if err != nil {
		s.logger.Error(ctx, "writing error response failed", "error", err)
	}
}
