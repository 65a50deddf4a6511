package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/pkg/storage"
	"github.com/anonto42/yatube/validators"
	"github.com/labstack/echo/v4"
)

// PostHandler serves the post listings and the post form
type PostHandler struct {
	postRepository    repositories.PostRepository
	groupRepository   repositories.GroupRepository
	commentRepository repositories.CommentRepository
	images            *storage.ImageStore
	perPage           int
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	commentRepo repositories.CommentRepository,
	images *storage.ImageStore,
	perPage int,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		groupRepository:   groupRepo,
		commentRepository: commentRepo,
		images:            images,
		perPage:           perPage,
	}
}

// RegisterPostRoutes registers post-related routes. The index is wrapped in cacheIndex.
func (h *PostHandler) RegisterPostRoutes(e *echo.Echo, requireLogin, cacheIndex echo.MiddlewareFunc) {
	e.GET("/", h.Index, cacheIndex)
	e.GET("/group/:slug/", h.GroupPosts)
	e.GET("/posts/:post_id/", h.PostDetail)
	e.GET("/create/", h.CreatePostForm, requireLogin)
	e.POST("/create/", h.CreatePost, requireLogin)
	e.GET("/posts/:post_id/edit/", h.EditPostForm, requireLogin)
	e.POST("/posts/:post_id/edit/", h.EditPost, requireLogin)
}

// Index lists every post, newest first
func (h *PostHandler) Index(c echo.Context) error {
	page, err := listPosts(c, h.postRepository, h.perPage, repositories.PostFilter{})
	if err != nil {
		return internalError(c, err)
	}
	return c.Render(http.StatusOK, "posts/index.html", echo.Map{"Page": page})
}

// GroupPosts lists the posts of one group
func (h *PostHandler) GroupPosts(c echo.Context) error {
	group, err := h.groupRepository.GetGroupBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return lookupError(c, err, "Group")
	}
	page, err := listPosts(c, h.postRepository, h.perPage, repositories.PostFilter{GroupID: &group.ID})
	if err != nil {
		return internalError(c, err)
	}
	return c.Render(http.StatusOK, "posts/group_list.html", echo.Map{"Group": group, "Page": page})
}

// PostDetail shows a post with its comments
func (h *PostHandler) PostDetail(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := postIDParam(c)
	if err != nil {
		return err
	}
	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		return lookupError(c, err, "Post")
	}
	comments, err := h.commentRepository.GetCommentsByPostID(ctx, post.ID)
	if err != nil {
		return internalError(c, err)
	}
	authorPosts, err := h.postRepository.CountPosts(ctx, repositories.PostFilter{AuthorID: &post.AuthorID})
	if err != nil {
		return internalError(c, err)
	}
	return c.Render(http.StatusOK, "posts/post_detail.html", echo.Map{
		"Post":             post,
		"Comments":         comments,
		"AuthorPostsCount": authorPosts,
	})
}

// CreatePostForm renders the empty post form
func (h *PostHandler) CreatePostForm(c echo.Context) error {
	return h.renderForm(c, models.PostForm{}, nil, nil)
}

// CreatePost validates the submitted form and publishes the post as the current user
func (h *PostHandler) CreatePost(c echo.Context) error {
	user := getCurrentUser(c)

	form, groupID, errs := h.bindPostForm(c)
	if len(errs) > 0 {
		return h.renderForm(c, form, errs, nil)
	}
	image, errs := h.saveImage(c)
	if len(errs) > 0 {
		return h.renderForm(c, form, errs, nil)
	}

	post := &models.Post{
		Text:     form.Text,
		AuthorID: user.ID,
		GroupID:  groupID,
		Image:    image,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return internalError(c, err)
	}
	c.Logger().Infof("post %d created by %s", post.ID, user.Username)
	return c.Redirect(http.StatusFound, profileURL(user.Username))
}

// EditPostForm renders the form prefilled with the post. Only the author may edit.
func (h *PostHandler) EditPostForm(c echo.Context) error {
	post, err := h.ownPost(c)
	if err != nil || post == nil {
		return err
	}
	form := models.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return h.renderForm(c, form, nil, post)
}

// EditPost applies the submitted form to the post. A missing image keeps the current one.
func (h *PostHandler) EditPost(c echo.Context) error {
	post, err := h.ownPost(c)
	if err != nil || post == nil {
		return err
	}

	form, groupID, errs := h.bindPostForm(c)
	if len(errs) > 0 {
		return h.renderForm(c, form, errs, post)
	}
	image, errs := h.saveImage(c)
	if len(errs) > 0 {
		return h.renderForm(c, form, errs, post)
	}

	post.Text = form.Text
	post.GroupID = groupID
	if image != "" {
		post.Image = image
	}
	if err := h.postRepository.UpdatePost(c.Request().Context(), post); err != nil {
		return internalError(c, err)
	}
	return c.Redirect(http.StatusFound, postURL(post.ID))
}

// ownPost loads the post being edited. For a post of another author it has
// already redirected to the post page and returns a nil post.
func (h *PostHandler) ownPost(c echo.Context) (*models.Post, error) {
	id, err := postIDParam(c)
	if err != nil {
		return nil, err
	}
	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return nil, lookupError(c, err, "Post")
	}
	if post.AuthorID != getCurrentUser(c).ID {
		return nil, c.Redirect(http.StatusFound, postURL(post.ID))
	}
	return post, nil
}

func (h *PostHandler) bindPostForm(c echo.Context) (models.PostForm, *uint, map[string]string) {
	var form models.PostForm
	if err := c.Bind(&form); err != nil {
		return form, nil, map[string]string{"__all__": "Invalid form submission."}
	}
	form.Text = strings.TrimSpace(form.Text)
	form.Group = strings.TrimSpace(form.Group)

	if err := c.Validate(form); err != nil {
		return form, nil, validators.FieldErrors(err)
	}
	if form.Group == "" {
		return form, nil, nil
	}

	id, _ := strconv.ParseUint(form.Group, 10, 32)
	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), uint(id))
	if err != nil {
		return form, nil, map[string]string{"group": "Select a valid choice. That choice is not one of the available choices."}
	}
	return form, &group.ID, nil
}

// saveImage stores the optional "image" upload and returns its storage name
func (h *PostHandler) saveImage(c echo.Context) (string, map[string]string) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", map[string]string{"image": "The submitted file could not be read."}
	}

	f, err := fh.Open()
	if err != nil {
		return "", map[string]string{"image": "The submitted file could not be read."}
	}
	defer f.Close()

	name, err := h.images.SavePostImage(c.Request().Context(), fh.Filename, f)
	if errors.Is(err, storage.ErrInvalidImage) {
		return "", map[string]string{"image": "Upload a valid image. The file you uploaded was either not an image or a corrupted image."}
	}
	if err != nil {
		c.Logger().Errorf("save image %s: %v", fh.Filename, err)
		return "", map[string]string{"image": "The image could not be saved, please try again."}
	}
	return name, nil
}

func (h *PostHandler) renderForm(c echo.Context, form models.PostForm, errs map[string]string, post *models.Post) error {
	groups, err := h.groupRepository.GetGroups(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	if errs == nil {
		errs = map[string]string{}
	}
	return c.Render(http.StatusOK, "posts/create_post.html", echo.Map{
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
		"Post":   post,
		"IsEdit": post != nil,
	})
}
