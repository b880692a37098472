package httpapi

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/reconcile"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type acronymJSON struct {
	ID         string `json:"id"`
	Short      string `json:"short"`
	Long       string `json:"long"`
	UserID     string `json:"userID"`
	Categories []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"categories"`
}

func (a acronymJSON) categoryNames() []string {
	out := []string{}
	for _, c := range a.Categories {
		out = append(out, c.Name)
	}
	return out
}

func registerAndLogin(t *testing.T, e *echo.Echo, userName string) (string, string) {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/api/users",
		`{"name":"Tim","username":"`+userName+`","password":"password"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[map[string]any](t, rec)

	rec = do(t, e, http.MethodPost, "/api/users/login", nil, func(r *http.Request) {
		r.SetBasicAuth(userName, "password")
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]string](t, rec)
	require.NotEmpty(t, body["token"])
	return user["id"].(string), body["token"]
}

func TestAPI_Users(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/users",
		`{"name":"Tim","username":"timc","password":"password","twitterURL":"@0xTim"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "timc", body["username"])
	assert.Equal(t, "@0xTim", body["twitterURL"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = doJSON(t, e, http.MethodPost, "/api/users", `{"name":"T","username":"timc","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "duplicate username")

	rec = doJSON(t, e, http.MethodPost, "/api/users", `{"name":"T"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/users", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = do(t, e, http.MethodGet, "/api/users/"+body["id"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/users/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[map[string]string](t, rec)["error"])
}

func TestAPI_Login(t *testing.T) {
	e, _ := newTestServer(t)
	registerAndLogin(t, e, "tim")

	rec := do(t, e, http.MethodPost, "/api/users/login", nil, func(r *http.Request) {
		r.SetBasicAuth("tim", "wrong")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/users/login", nil, func(r *http.Request) {
		r.SetBasicAuth("nobody", "password")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/users/login", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_TokenRequired(t *testing.T) {
	e, _ := newTestServer(t)
	_, token := registerAndLogin(t, e, "tim")

	rec := doJSON(t, e, http.MethodPost, "/api/acronyms", `{"short":"OMG","long":"Oh My God"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/acronyms", `{"short":"OMG","long":"Oh My God"}`, withToken("bogus"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/acronyms", `{"short":"OMG","long":"Oh My God"}`, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeaderName, "Basic "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/acronyms", `{"short":"OMG","long":"Oh My God"}`, withToken(token))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodDelete, "/api/users/tokens/current", nil, withToken(token))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/acronyms", `{"short":"LOL","long":"Laugh Out Loud"}`, withToken(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "revoked token")
}

func TestAPI_AcronymLifecycle(t *testing.T) {
	e, _ := newTestServer(t)
	userID, token := registerAndLogin(t, e, "tim")

	rec := doJSON(t, e, http.MethodPost, "/api/acronyms", `{"short":"OMG","long":"Oh My God"}`, withToken(token))
	require.Equal(t, http.StatusCreated, rec.Code)
	a := decode[acronymJSON](t, rec)
	assert.Equal(t, userID, a.UserID)

	rec = doJSON(t, e, http.MethodPost, "/api/acronyms", `{"short":"AFK","long":"Away From Keyboard"}`, withToken(token))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, e, http.MethodPut, "/api/acronyms/"+a.ID, `{"short":"OMG","long":"Oh My Gosh"}`, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Oh My Gosh", decode[acronymJSON](t, rec).Long)

	rec = do(t, e, http.MethodGet, "/api/acronyms/search?term=Oh+My+Gosh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]acronymJSON](t, rec), 1)

	rec = do(t, e, http.MethodGet, "/api/acronyms/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/acronyms/sorted", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sorted := decode[[]acronymJSON](t, rec)
	require.Len(t, sorted, 2)
	assert.Equal(t, "AFK", sorted[0].Short)

	rec = do(t, e, http.MethodGet, "/api/acronyms/first", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/acronyms/"+a.ID+"/user", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, decode[map[string]any](t, rec)["id"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = do(t, e, http.MethodGet, "/api/users/"+userID+"/acronyms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]acronymJSON](t, rec), 2)

	rec = do(t, e, http.MethodDelete, "/api/acronyms/"+a.ID, nil, withToken(token))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/acronyms/"+a.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/acronyms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]acronymJSON](t, rec), 1)
}

func TestAPI_SyncCategories(t *testing.T) {
	e, _ := newTestServer(t)
	_, token := registerAndLogin(t, e, "tim")

	rec := doJSON(t, e, http.MethodPost, "/api/acronyms", `{"short":"OMG","long":"Oh My God"}`, withToken(token))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[acronymJSON](t, rec).ID

	rec = doJSON(t, e, http.MethodPut, "/api/acronyms/"+id+"/categories", `{"categories":["Funny","Nerdy"]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e, http.MethodPut, "/api/acronyms/"+id+"/categories", `{"categories":["Funny","Nerdy"]}`, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.ElementsMatch(t, []string{"Funny", "Nerdy"}, decode[acronymJSON](t, rec).categoryNames())

	rec = doJSON(t, e, http.MethodPut, "/api/acronyms/"+id+"/categories", `{"categories":["Nerdy","Silly"]}`, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[acronymJSON](t, rec)
	assert.Equal(t, id, got.ID)
	assert.ElementsMatch(t, []string{"Nerdy", "Silly"}, got.categoryNames())

	rec = do(t, e, http.MethodGet, "/api/acronyms/"+id+"/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	// Funny survives as a category without acronyms
	rec = do(t, e, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 3)

	rec = doJSON(t, e, http.MethodPut, "/api/acronyms/missing/categories", `{"categories":["x"]}`, withToken(token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Categories(t *testing.T) {
	e, _ := newTestServer(t)
	_, token := registerAndLogin(t, e, "tim")

	rec := doJSON(t, e, http.MethodPost, "/api/categories", `{"name":"Teenager"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/categories", `{"name":"Teenager"}`, withToken(token))
	require.Equal(t, http.StatusCreated, rec.Code)
	cat := decode[map[string]any](t, rec)
	catID := int64(cat["id"].(float64))

	rec = doJSON(t, e, http.MethodPost, "/api/categories", `{"name":"Teenager"}`, withToken(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/acronyms", `{"short":"OMG","long":"Oh My God"}`, withToken(token))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[acronymJSON](t, rec).ID

	target := "/api/acronyms/" + id + "/categories/" + itoa(catID)
	rec = do(t, e, http.MethodPost, target, nil, withToken(token))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/categories/"+itoa(catID)+"/acronyms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]acronymJSON](t, rec), 1)

	rec = do(t, e, http.MethodDelete, target, nil, withToken(token))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/categories/"+itoa(catID)+"/acronyms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]acronymJSON](t, rec))

	rec = do(t, e, http.MethodGet, "/api/categories/abc", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/acronyms/"+id+"/categories/999", nil, withToken(token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrConstraintViolation, http.StatusBadRequest},
		{common.ErrorValidation, http.StatusBadRequest},
		{common.ErrForgeryCheckFailed, http.StatusBadRequest},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrInvalidCredentials, http.StatusUnauthorized},
		{echo.NewHTTPError(http.StatusTeapot), http.StatusTeapot},
		{errors.New("db error: boom"), http.StatusInternalServerError},
		{&reconcile.PartialFailureError{Failed: []string{"Funny"}, Err: common.ErrConstraintViolation}, http.StatusInternalServerError},
		{fmt.Errorf("sync: %w", &reconcile.PartialFailureError{Failed: []string{"Nerdy"}, Err: common.ErrorNotFound}), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, toHTTPError(tt.err).Code, tt.err.Error())
	}
}

func TestAPI_MalformedIDsArePostgresSafe(t *testing.T) {
	e, mock := newPostgresTestServer(t)

	for _, path := range []string{
		"/api/acronyms/not-a-uuid",
		"/api/acronyms/not-a-uuid/user",
		"/api/acronyms/not-a-uuid/categories",
		"/api/users/not-a-uuid",
		"/api/users/not-a-uuid/acronyms",
	} {
		rec := do(t, e, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String(), path)
	}

	// a well-formed id still reaches the database
	id := uuid.NewString()
	mock.ExpectQuery(regexp.QuoteMeta("FROM acronyms WHERE id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)
	rec := do(t, e, http.MethodGet, "/api/acronyms/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPI_UnexpectedDriverErrorIsServerError(t *testing.T) {
	e, mock := newPostgresTestServer(t)
	id := uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta("FROM acronyms WHERE id = $1")).
		WithArgs(id).
		WillReturnError(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})

	rec := do(t, e, http.MethodGet, "/api/acronyms/"+id, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
