package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessions(t *testing.T) (*middleware.Sessions, *echo.Echo) {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.NewUser(t, db, "leo")
	sessions := middleware.NewSessions("secret", time.Hour, false, repositories.NewPostgresUserRepository(db))

	e := echo.New()
	e.Use(sessions.LoadUser())
	e.GET("/whoami", func(c echo.Context) error {
		if user := middleware.CurrentUser(c); user != nil {
			return c.String(http.StatusOK, user.Username)
		}
		return c.String(http.StatusOK, "guest")
	})
	e.GET("/private", func(c echo.Context) error {
		return c.String(http.StatusOK, "secret page")
	}, middleware.RequireLogin("/auth/login/"))
	e.GET("/login/:username", func(c echo.Context) error {
		user, err := repositories.NewPostgresUserRepository(db).GetUserByUsername(c.Request().Context(), c.Param("username"))
		if err != nil {
			return err
		}
		if err := sessions.Login(c, user); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})
	return sessions, e
}

func serve(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	_, e := newSessions(t)

	rec := serve(e, "/login/leo")
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)

	rec = serve(e, "/whoami", cookie)
	assert.Equal(t, "leo", rec.Body.String())

	rec = serve(e, "/private", cookie)
	assert.Equal(t, "secret page", rec.Body.String())
}

func TestInvalidSessionContinuesAsGuest(t *testing.T) {
	_, e := newSessions(t)

	rec := serve(e, "/whoami", &http.Cookie{Name: middleware.SessionCookieName, Value: "not-a-token"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "guest", rec.Body.String())
	assert.Less(t, sessionCookie(t, rec).MaxAge, 0)
}

func TestSessionSignedWithAnotherKey(t *testing.T) {
	_, e := newSessions(t)
	db := testutil.NewDB(t)
	testutil.NewUser(t, db, "leo")
	other := middleware.NewSessions("another-secret", time.Hour, false, repositories.NewPostgresUserRepository(db))

	o := echo.New()
	o.GET("/login", func(c echo.Context) error {
		user, err := repositories.NewPostgresUserRepository(db).GetUserByUsername(c.Request().Context(), "leo")
		if err != nil {
			return err
		}
		if err := other.Login(c, user); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})
	forged := sessionCookie(t, serve(o, "/login"))

	rec := serve(e, "/whoami", forged)
	assert.Equal(t, "guest", rec.Body.String())
}

func TestRequireLoginRedirects(t *testing.T) {
	_, e := newSessions(t)

	rec := serve(e, "/private?page=2")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login/?next=%2Fprivate%3Fpage%3D2", rec.Header().Get(echo.HeaderLocation))
}
