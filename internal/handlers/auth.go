package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/validators"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// IDTokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

var usernameUnsafe = regexp.MustCompile(`[^\w.@+-]`)

// AuthHandler handles sign up, sign in and sign out
type AuthHandler struct {
	userRepository repositories.UserRepository
	sessions       *middleware.Sessions
	firebaseAuth   IDTokenVerifier
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, which
// disables Firebase sign-in.
func NewAuthHandler(userRepo repositories.UserRepository, sessions *middleware.Sessions, firebaseAuth IDTokenVerifier) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		sessions:       sessions,
		firebaseAuth:   firebaseAuth,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo) {
	e.GET("/auth/signup/", h.SignupForm)
	e.POST("/auth/signup/", h.Signup)
	e.GET("/auth/login/", h.LoginForm)
	e.POST("/auth/login/", h.Login)
	e.GET("/auth/logout/", h.Logout)
	if h.firebaseAuth != nil {
		e.POST("/auth/firebase/", h.FirebaseLogin)
	}
}

func (h *AuthHandler) SignupForm(c echo.Context) error {
	return h.renderSignup(c, models.SignupForm{}, nil)
}

// Signup registers a local account and signs it in
func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var form models.SignupForm
	if err := c.Bind(&form); err != nil {
		return h.renderSignup(c, form, map[string]string{"__all__": "Invalid form submission."})
	}
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)

	if err := c.Validate(form); err != nil {
		return h.renderSignup(c, form, validators.FieldErrors(err))
	}

	taken, err := h.userRepository.UsernameTaken(ctx, form.Username)
	if err != nil {
		return internalError(c, err)
	}
	if taken {
		return h.renderSignup(c, form, map[string]string{"username": "A user with that username already exists."})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, err)
	}

	user := &models.User{
		Username:  form.Username,
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     form.Email,
		Password:  string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return internalError(c, err)
	}
	if err := h.sessions.Login(c, user); err != nil {
		return internalError(c, err)
	}
	c.Logger().Infof("user %s signed up", user.Username)
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	return h.renderLogin(c, models.LoginForm{Next: c.QueryParam("next")}, nil)
}

// Login checks the credentials and redirects to the "next" page
func (h *AuthHandler) Login(c echo.Context) error {
	var form models.LoginForm
	if err := c.Bind(&form); err != nil {
		return h.renderLogin(c, form, map[string]string{"__all__": "Invalid form submission."})
	}
	if err := c.Validate(form); err != nil {
		return h.renderLogin(c, form, validators.FieldErrors(err))
	}

	invalid := map[string]string{"__all__": "Please enter a correct username and password. Note that both fields may be case-sensitive."}
	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), form.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		return h.renderLogin(c, form, invalid)
	}
	if err != nil {
		return internalError(c, err)
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)) != nil {
		return h.renderLogin(c, form, invalid)
	}

	if err := h.sessions.Login(c, user); err != nil {
		return internalError(c, err)
	}
	return c.Redirect(http.StatusFound, safeNext(form.Next))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c)
	return c.Redirect(http.StatusFound, "/")
}

// FirebaseLogin verifies a Firebase ID token and signs in the matching user,
// creating one on first sign-in
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var form models.FirebaseLoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id_token is required")
	}

	token, err := h.firebaseAuth.VerifyIDToken(ctx, form.IDToken)
	if err != nil {
		return h.renderLogin(c, models.LoginForm{}, map[string]string{"__all__": "Firebase sign-in failed."})
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		username, err := h.freeUsername(ctx, email, token.UID)
		if err != nil {
			return internalError(c, err)
		}
		uid := token.UID
		user = &models.User{
			Username:    username,
			FirstName:   name,
			Email:       email,
			FirebaseUID: &uid,
		}
		if err := h.userRepository.CreateUser(ctx, user); err != nil {
			return internalError(c, err)
		}
	case err != nil:
		return internalError(c, err)
	case email != "" && user.Email != email:
		user.Email = email
		if err := h.userRepository.UpdateUser(ctx, user); err != nil {
			return internalError(c, err)
		}
	}

	if err := h.sessions.Login(c, user); err != nil {
		return internalError(c, err)
	}
	return c.Redirect(http.StatusFound, "/")
}

// freeUsername derives a username from the email local part, adding a
// numeric suffix until it is unused
func (h *AuthHandler) freeUsername(ctx context.Context, email, uid string) (string, error) {
	base := email
	if i := strings.IndexByte(base, '@'); i >= 0 {
		base = base[:i]
	}
	base = usernameUnsafe.ReplaceAllString(base, "")
	if base == "" {
		base = "user"
	}
	if len(base) > 140 {
		base = base[:140]
	}

	candidate := base
	for i := 1; i < 100; i++ {
		taken, err := h.userRepository.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return uid, nil
}

func (h *AuthHandler) renderSignup(c echo.Context, form models.SignupForm, errs map[string]string) error {
	if errs == nil {
		errs = map[string]string{}
	}
	form.Password, form.PasswordConfirm = "", ""
	return c.Render(http.StatusOK, "users/signup.html", echo.Map{"Form": form, "Errors": errs})
}

func (h *AuthHandler) renderLogin(c echo.Context, form models.LoginForm, errs map[string]string) error {
	if errs == nil {
		errs = map[string]string{}
	}
	form.Password = ""
	return c.Render(http.StatusOK, "users/login.html", echo.Map{
		"Form":            form,
		"Errors":          errs,
		"FirebaseEnabled": h.firebaseAuth != nil,
	})
}

// safeNext only allows redirects to local paths
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
