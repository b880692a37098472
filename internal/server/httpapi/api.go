package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/gate"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/dmitrijs2005/tilapp/internal/server/reconcile"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type acronymRequest struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

type categoriesRequest struct {
	Categories []string `json:"categories"`
}

type createUserRequest struct {
	Name       string  `json:"name"`
	UserName   string  `json:"username"`
	Password   string  `json:"password"`
	TwitterURL *string `json:"twitterURL"`
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// acronymView is an acronym together with its categories.
type acronymView struct {
	*models.Acronym
	Categories []*models.Category `json:"categories"`
}

func (s *Server) registerAPI(g *echo.Group) {
	token := s.guard(gate.RequiresToken)

	acronyms := g.Group("/acronyms")
	acronyms.GET("", s.listAcronyms)
	acronyms.POST("", s.createAcronym, token)
	acronyms.GET("/search", s.searchAcronyms)
	acronyms.GET("/first", s.firstAcronym)
	acronyms.GET("/sorted", s.sortedAcronyms)
	acronyms.GET("/:id", s.getAcronym)
	acronyms.PUT("/:id", s.updateAcronym, token)
	acronyms.DELETE("/:id", s.deleteAcronym, token)
	acronyms.GET("/:id/user", s.acronymOwner)
	acronyms.GET("/:id/categories", s.acronymCategories)
	acronyms.PUT("/:id/categories", s.syncAcronymCategories, token)
	acronyms.POST("/:id/categories/:categoryID", s.attachCategory, token)
	acronyms.DELETE("/:id/categories/:categoryID", s.detachCategory, token)

	users := g.Group("/users")
	users.GET("", s.listUsers)
	users.POST("", s.createUser)
	users.POST("/login", s.issueToken, middleware.BasicAuth(s.checkBasicAuth))
	users.DELETE("/tokens/current", s.revokeToken, token)
	users.GET("/:id", s.getUser)
	users.GET("/:id/acronyms", s.userAcronyms)

	categories := g.Group("/categories")
	categories.GET("", s.listCategories)
	categories.POST("", s.createCategory, token)
	categories.GET("/:id", s.getCategory)
	categories.GET("/:id/acronyms", s.categoryAcronyms)
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	return nil
}

func categoryID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

func publicUsers(list []*models.User) []models.PublicUser {
	out := make([]models.PublicUser, 0, len(list))
	for _, u := range list {
		out = append(out, u.Public())
	}
	return out
}

// acronyms

func (s *Server) listAcronyms(c echo.Context) error {
	list, err := s.svc.Acronyms.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) getAcronym(c echo.Context) error {
	a, err := s.svc.Acronyms.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) createAcronym(c echo.Context) error {
	var req acronymRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := s.svc.Acronyms.Create(c.Request().Context(), userFrom(c).ID, req.Short, req.Long)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (s *Server) updateAcronym(c echo.Context) error {
	var req acronymRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := s.svc.Acronyms.Update(c.Request().Context(), c.Param("id"), userFrom(c).ID, req.Short, req.Long)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAcronym(c echo.Context) error {
	if err := s.svc.Acronyms.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) searchAcronyms(c echo.Context) error {
	list, err := s.svc.Acronyms.Search(c.Request().Context(), c.QueryParam("term"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) firstAcronym(c echo.Context) error {
	a, err := s.svc.Acronyms.First(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) sortedAcronyms(c echo.Context) error {
	list, err := s.svc.Acronyms.Sorted(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) acronymOwner(c echo.Context) error {
	u, err := s.svc.Acronyms.Owner(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u.Public())
}

func (s *Server) acronymCategories(c echo.Context) error {
	list, err := s.svc.Acronyms.Categories(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) syncAcronymCategories(c echo.Context) error {
	var req categoriesRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	id := c.Param("id")

	res, err := s.svc.Acronyms.SyncCategories(ctx, id, req.Categories)
	if err != nil {
		var pf *reconcile.PartialFailureError
		if errors.As(err, &pf) {
			s.logger.Error(ctx, "category sync partially failed", "acronym", id, "error", err)
			return c.JSON(http.StatusInternalServerError, partialFailure{
				Error:  common.ErrPartialReconciliation.Error(),
				Result: res,
				Failed: pf.Failed,
			})
		}
		return err
	}
	s.logger.Debug(ctx, "categories synced", "acronym", id, "added", res.Added, "removed", res.Removed)

	a, err := s.svc.Acronyms.Get(ctx, id)
	if err != nil {
		return err
	}
	cats, err := s.svc.Acronyms.Categories(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acronymView{Acronym: a, Categories: cats})
}

func (s *Server) attachCategory(c echo.Context) error {
	cid, err := categoryID(c, "categoryID")
	if err != nil {
		return err
	}
	if err := s.svc.Acronyms.AttachCategory(c.Request().Context(), c.Param("id"), cid); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) detachCategory(c echo.Context) error {
	cid, err := categoryID(c, "categoryID")
	if err != nil {
		return err
	}
	if err := s.svc.Acronyms.DetachCategory(c.Request().Context(), c.Param("id"), cid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// users

func (s *Server) listUsers(c echo.Context) error {
	list, err := s.svc.Users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, publicUsers(list))
}

func (s *Server) getUser(c echo.Context) error {
	u, err := s.svc.Users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u.Public())
}

func (s *Server) createUser(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := s.svc.Users.Register(c.Request().Context(), req.Name, req.UserName, req.Password, req.TwitterURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u.Public())
}

func (s *Server) userAcronyms(c echo.Context) error {
	list, err := s.svc.Users.Acronyms(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) checkBasicAuth(userName, password string, c echo.Context) (bool, error) {
	user, err := s.svc.Tokens.Authenticate(c.Request().Context(), userName, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return false, nil
		}
		return false, err
	}
	c.Set(userKey, user)
	return true, nil
}

func (s *Server) issueToken(c echo.Context) error {
	user := userFrom(c)
	token, err := s.svc.Tokens.Issue(c.Request().Context(), user)
	if err != nil {
		return err
	}
	s.logger.Info(c.Request().Context(), "token issued", "user", user.UserName)
	return c.JSON(http.StatusOK, map[string]string{"token": token.Value})
}

func (s *Server) revokeToken(c echo.Context) error {
	if err := s.svc.Tokens.Revoke(c.Request().Context(), echoRequest{c}.BearerToken()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// categories

func (s *Server) listCategories(c echo.Context) error {
	list, err := s.svc.Categories.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) getCategory(c echo.Context) error {
	id, err := categoryID(c, "id")
	if err != nil {
		return err
	}
	cat, err := s.svc.Categories.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

func (s *Server) createCategory(c echo.Context) error {
	var req createCategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cat, err := s.svc.Categories.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cat)
}

func (s *Server) categoryAcronyms(c echo.Context) error {
	id, err := categoryID(c, "id")
	if err != nil {
		return err
	}
	list, err := s.svc.Categories.Acronyms(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
