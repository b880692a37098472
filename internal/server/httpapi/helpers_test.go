package httpapi

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/logging"
	"github.com/dmitrijs2005/tilapp/internal/server/auth"
	"github.com/dmitrijs2005/tilapp/internal/server/config"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tilapp/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*echo.Echo, Services) {
	t.Helper()
	return newServer(t, nil, repomanager.NewInMemoryRepositoryManager())
}

// newPostgresTestServer runs the handlers against the postgres repositories
// over sqlmock.
func newPostgresTestServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e, _ := newServer(t, db, repomanager.NewPostgresRepositoryManager())
	return e, mock
}

func newServer(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager) (*echo.Echo, Services) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	cats := services.NewCategoryService(db, rm)
	svc := Services{
		Users:      services.NewUserService(db, rm, hasher),
		Tokens:     services.NewTokenAuthority(db, rm, hasher, cfg.TokenSize),
		Sessions:   services.NewSessionAuthenticator(db, rm, time.Hour),
		Forgery:    services.NewForgeryGuard(db, rm, cfg.TokenSize),
		Categories: cats,
		Acronyms:   services.NewAcronymService(db, rm, cats, 4, logging.Nop{}),
	}
	return New(cfg, logging.Nop{}, svc), svc
}

type reqOpt func(*http.Request)

func withToken(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set(common.AuthorizationHeaderName, "Bearer "+token) }
}

func withCookie(c *http.Cookie) reqOpt {
	return func(r *http.Request) {
		if c != nil {
			r.AddCookie(c)
		}
	}
}

func do(t *testing.T, e *echo.Echo, method, target string, body io.Reader, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, e *echo.Echo, method, target, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	opts = append([]reqOpt{func(r *http.Request) {
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}}, opts...)
	return do(t, e, method, target, strings.NewReader(body), opts...)
}

func doForm(t *testing.T, e *echo.Echo, target string, form url.Values, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	opts = append([]reqOpt{func(r *http.Request) {
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}}, opts...)
	return do(t, e, http.MethodPost, target, strings.NewReader(form.Encode()), opts...)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// sessionCookie returns the session cookie set by rec, or prev when none was set.
func sessionCookie(rec *httptest.ResponseRecorder, prev *http.Cookie) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			return c
		}
	}
	return prev
}

var csrfRe = regexp.MustCompile(`name="csrfToken" value="([0-9a-f]+)"`)

func csrfToken(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	m := csrfRe.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "page has no csrf token")
	return m[1]
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
