package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.POST("/posts/:post_id/comment/", h.AddComment, requireLogin)
}

// AddComment attaches a comment to the post. Empty comments are dropped; the
// user always lands back on the post page.
func (h *CommentHandler) AddComment(c echo.Context) error {
	ctx := c.Request().Context()

	postID, err := postIDParam(c)
	if err != nil {
		return err
	}
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return lookupError(c, err, "Post")
	}

	var form models.CommentForm
	if err := c.Bind(&form); err != nil {
		return c.Redirect(http.StatusFound, postURL(post.ID))
	}
	form.Text = strings.TrimSpace(form.Text)
	if err := c.Validate(form); err != nil {
		return c.Redirect(http.StatusFound, postURL(post.ID))
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: getCurrentUser(c).ID,
		Text:     form.Text,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return internalError(c, err)
	}
	return c.Redirect(http.StatusFound, postURL(post.ID))
}
