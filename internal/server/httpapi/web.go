package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/gate"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/labstack/echo/v4"
)

// page is the data handed to every website template.
type page struct {
	Title     string
	User      *models.User
	CSRFToken string

	Acronyms   []*models.Acronym
	Acronym    *models.Acronym
	Owner      *models.User
	Users      []*models.User
	Person     *models.User
	Categories []*models.Category
	Editing    bool
	LoginError bool
}

func (s *Server) registerWeb(g *echo.Group) {
	session := s.guard(gate.RequiresSession)

	g.GET("/", s.indexPage)
	g.GET("/login", s.loginPage)
	g.POST("/login", s.loginPost)
	g.POST("/logout", s.logoutPost, session)

	g.GET("/acronyms/create", s.createAcronymPage, session)
	g.POST("/acronyms/create", s.createAcronymPost, session)
	g.GET("/acronyms/:id", s.acronymPage)
	g.GET("/acronyms/:id/edit", s.editAcronymPage, session)
	g.POST("/acronyms/:id/edit", s.editAcronymPost, session)
	g.POST("/acronyms/:id/delete", s.deleteAcronymPost, session)

	g.GET("/users", s.usersPage)
	g.GET("/users/:id", s.userPage)
	g.GET("/categories", s.categoriesPage)
	g.GET("/categories/:id", s.categoryPage)
}

// newPage resolves the visitor and, when the page will carry a form, issues
// a fresh anti-forgery token for it. Signed-in visitors always get one for
// the logout form.
func (s *Server) newPage(c echo.Context, title string, form bool) (*page, error) {
	ctx := c.Request().Context()
	sess := sessionFrom(c)

	p := &page{Title: title, User: userFrom(c)}
	if p.User == nil {
		user, err := s.svc.Sessions.CurrentUser(ctx, sess)
		if err != nil {
			return nil, err
		}
		p.User = user
	}

	if form || p.User != nil {
		token, err := s.svc.Forgery.Issue(ctx, sess)
		if err != nil {
			return nil, err
		}
		p.CSRFToken = token
	}
	return p, nil
}

func (s *Server) indexPage(c echo.Context) error {
	p, err := s.newPage(c, "Homepage", false)
	if err != nil {
		return err
	}
	if p.Acronyms, err = s.svc.Acronyms.List(c.Request().Context()); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "index", p)
}

func (s *Server) loginPage(c echo.Context) error {
	p, err := s.newPage(c, "Log In", true)
	if err != nil {
		return err
	}
	p.LoginError = c.QueryParam("error") != ""
	return c.Render(http.StatusOK, "login", p)
}

func (s *Server) loginPost(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.gate.CheckForgery(ctx, echoRequest{c}); err != nil {
		return err
	}

	user, err := s.svc.Tokens.Authenticate(ctx, c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return c.Redirect(http.StatusSeeOther, "/login?error=1")
		}
		return err
	}

	sess := sessionFrom(c)
	if err := s.svc.Sessions.Login(ctx, sess, user); err != nil {
		return err
	}
	if err := s.writeSessionCookie(c, sess); err != nil {
		return err
	}
	s.logger.Info(ctx, "user logged in", "user", user.UserName)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logoutPost(c echo.Context) error {
	sess := sessionFrom(c)
	if err := s.svc.Sessions.Logout(c.Request().Context(), sess); err != nil {
		return err
	}
	if err := s.writeSessionCookie(c, sess); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) acronymPage(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	a, err := s.svc.Acronyms.Get(ctx, id)
	if err != nil {
		return err
	}
	p, err := s.newPage(c, a.Short, false)
	if err != nil {
		return err
	}
	p.Acronym = a
	if p.Owner, err = s.svc.Acronyms.Owner(ctx, id); err != nil {
		return err
	}
	if p.Categories, err = s.svc.Acronyms.Categories(ctx, id); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "acronym", p)
}

func (s *Server) createAcronymPage(c echo.Context) error {
	p, err := s.newPage(c, "Create An Acronym", true)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "createAcronym", p)
}

func (s *Server) createAcronymPost(c echo.Context) error {
	ctx := c.Request().Context()
	a, err := s.svc.Acronyms.Create(ctx, userFrom(c).ID, c.FormValue("short"), c.FormValue("long"))
	if err != nil {
		return err
	}
	if err := s.syncFormCategories(c, a.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/acronyms/"+a.ID)
}

func (s *Server) editAcronymPage(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	a, err := s.svc.Acronyms.Get(ctx, id)
	if err != nil {
		return err
	}
	p, err := s.newPage(c, "Edit Acronym", true)
	if err != nil {
		return err
	}
	p.Acronym, p.Editing = a, true
	if p.Categories, err = s.svc.Acronyms.Categories(ctx, id); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "createAcronym", p)
}

func (s *Server) editAcronymPost(c echo.Context) error {
	id := c.Param("id")
	_, err := s.svc.Acronyms.Update(c.Request().Context(), id, userFrom(c).ID, c.FormValue("short"), c.FormValue("long"))
	if err != nil {
		return err
	}
	if err := s.syncFormCategories(c, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/acronyms/"+id)
}

func (s *Server) syncFormCategories(c echo.Context, id string) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	_, err = s.svc.Acronyms.SyncCategories(c.Request().Context(), id, form["categories"])
	return err
}

func (s *Server) deleteAcronymPost(c echo.Context) error {
	if err := s.svc.Acronyms.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) usersPage(c echo.Context) error {
	p, err := s.newPage(c, "All Users", false)
	if err != nil {
		return err
	}
	if p.Users, err = s.svc.Users.List(c.Request().Context()); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "users", p)
}

func (s *Server) userPage(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	u, err := s.svc.Users.Get(ctx, id)
	if err != nil {
		return err
	}
	p, err := s.newPage(c, u.Name, false)
	if err != nil {
		return err
	}
	p.Person = u
	if p.Acronyms, err = s.svc.Users.Acronyms(ctx, id); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "user", p)
}

func (s *Server) categoriesPage(c echo.Context) error {
	p, err := s.newPage(c, "All Categories", false)
	if err != nil {
		return err
	}
	if p.Categories, err = s.svc.Categories.List(c.Request().Context()); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "categories", p)
}

func (s *Server) categoryPage(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := categoryID(c, "id")
	if err != nil {
		return err
	}
	cat, err := s.svc.Categories.Get(ctx, id)
	if err != nil {
		return err
	}
	p, err := s.newPage(c, cat.Name, false)
	if err != nil {
		return err
	}
	if p.Acronyms, err = s.svc.Categories.Acronyms(ctx, id); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "category", p)
}
