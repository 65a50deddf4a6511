package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/paginator"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LoginURL is where guests are sent for pages that need an account
const LoginURL = "/auth/login/"

func getCurrentUser(c echo.Context) *models.User {
	return middleware.CurrentUser(c)
}

// postIDParam parses :post_id; malformed ids are treated as unknown posts
func postIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return uint(id), nil
}

// lookupError maps a repository error to the HTTP error the handler should return
func lookupError(c echo.Context, err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, what+" not found")
	}
	return internalError(c, err)
}

func internalError(c echo.Context, err error) error {
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
}

func profileURL(username string) string {
	return fmt.Sprintf("/profile/%s/", username)
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

// listPosts loads the page of filtered posts selected by the ?page= parameter
func listPosts(c echo.Context, posts repositories.PostRepository, perPage int, filter repositories.PostFilter) (*paginator.Page[models.Post], error) {
	ctx := c.Request().Context()
	count, err := posts.CountPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return paginator.Get(paginator.New(count, perPage), c.QueryParam("page"), func(offset, limit int) ([]models.Post, error) {
		return posts.ListPosts(ctx, filter, offset, limit)
	})
}
