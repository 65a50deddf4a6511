package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/profile/:username/follow/", h.FollowUser, requireLogin)
	e.GET("/profile/:username/unfollow/", h.UnfollowUser, requireLogin)
}

// FollowUser subscribes the current user to the author. Following twice or
// following yourself changes nothing.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	author, err := h.author(c)
	if err != nil {
		return err
	}
	user := getCurrentUser(c)
	if author.ID != user.ID {
		if err := h.followRepository.Follow(c.Request().Context(), user.ID, author.ID); err != nil {
			return internalError(c, err)
		}
	}
	return c.Redirect(http.StatusFound, profileURL(author.Username))
}

// UnfollowUser removes the subscription if there is one
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	author, err := h.author(c)
	if err != nil {
		return err
	}
	if err := h.followRepository.Unfollow(c.Request().Context(), getCurrentUser(c).ID, author.ID); err != nil {
		return internalError(c, err)
	}
	return c.Redirect(http.StatusFound, profileURL(author.Username))
}

func (h *FollowHandler) author(c echo.Context) (*models.User, error) {
	author, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return nil, lookupError(c, err, "User")
	}
	return author, nil
}
