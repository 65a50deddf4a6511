package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler serves author profiles
type UserHandler struct {
	userRepository   repositories.UserRepository
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
	perPage          int
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, followRepo repositories.FollowRepository, perPage int) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		postRepository:   postRepo,
		followRepository: followRepo,
		perPage:          perPage,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(e *echo.Echo) {
	e.GET("/profile/:username/", h.GetProfile)
}

// GetProfile lists an author's posts together with the follow counters
func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	author, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return lookupError(c, err, "User")
	}

	filter := repositories.PostFilter{AuthorID: &author.ID}
	page, err := listPosts(c, h.postRepository, h.perPage, filter)
	if err != nil {
		return internalError(c, err)
	}

	followers, err := h.followRepository.GetFollowersCount(ctx, author.ID)
	if err != nil {
		return internalError(c, err)
	}
	following, err := h.followRepository.GetFollowingCount(ctx, author.ID)
	if err != nil {
		return internalError(c, err)
	}

	isFollowing := false
	if user := getCurrentUser(c); user != nil && user.ID != author.ID {
		if isFollowing, err = h.followRepository.IsFollowing(ctx, user.ID, author.ID); err != nil {
			return internalError(c, err)
		}
	}

	return c.Render(http.StatusOK, "posts/profile.html", echo.Map{
		"Author":         author,
		"Page":           page,
		"PostsCount":     page.Paginator.Count,
		"FollowersCount": followers,
		"FollowingCount": following,
		"Following":      isFollowing,
	})
}
