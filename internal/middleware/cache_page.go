package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/anonto42/yatube/pkg/cache"
	"github.com/labstack/echo/v4"
)

// CachePage serves successful GET responses from store for ttl. Entries are
// kept per viewer because pages show who is signed in. Nothing invalidates
// an entry early except clearing the store.
func CachePage(store cache.Store, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := pageKey(c)

			body, ok, err := store.Get(ctx, key)
			if err != nil {
				c.Logger().Warnf("page cache get %s: %v", key, err)
			} else if ok {
				return c.HTMLBlob(http.StatusOK, body)
			}

			res := c.Response()
			buf := new(bytes.Buffer)
			original := res.Writer
			res.Writer = &teeWriter{ResponseWriter: original, w: io.MultiWriter(original, buf)}
			defer func() { res.Writer = original }()

			if err := next(c); err != nil {
				return err
			}
			if res.Status == http.StatusOK {
				if err := store.Set(ctx, key, buf.Bytes(), ttl); err != nil {
					c.Logger().Warnf("page cache set %s: %v", key, err)
				}
			}
			return nil
		}
	}
}

func pageKey(c echo.Context) string {
	viewer := "anonymous"
	if user := CurrentUser(c); user != nil {
		viewer = user.Username
	}
	return c.Request().URL.RequestURI() + "|" + viewer
}

type teeWriter struct {
	http.ResponseWriter
	w io.Writer
}

func (t *teeWriter) Write(b []byte) (int, error) {
	return t.w.Write(b)
}
