package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the posts of the authors a user follows
type FeedHandler struct {
	postRepository repositories.PostRepository
	perPage        int
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, perPage int) *FeedHandler {
	return &FeedHandler{postRepository: postRepo, perPage: perPage}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/follow/", h.GetFeed, requireLogin)
}

// GetFeed lists the followed authors' posts, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID := getCurrentUser(c).ID
	page, err := listPosts(c, h.postRepository, h.perPage, repositories.PostFilter{FollowerID: &userID})
	if err != nil {
		return internalError(c, err)
	}
	return c.Render(http.StatusOK, "posts/follow.html", echo.Map{"Page": page})
}
