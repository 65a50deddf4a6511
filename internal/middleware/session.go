package middleware

import (
	"net/http"
	"net/url"
	"time"

	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName holds the signed session token
	SessionCookieName = "sessionid"

	userContextKey = "user"
)

// Sessions issues and verifies the HS256 tokens kept in the session cookie
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	users  repositories.UserRepository
}

func NewSessions(secret string, ttl time.Duration, secure bool, users repositories.UserRepository) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure, users: users}
}

// Login signs a token for user and stores it in the session cookie
func (s *Sessions) Login(c echo.Context, user *models.User) error {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(userContextKey, user)
	return nil
}

// Logout drops the session cookie
func (s *Sessions) Logout(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	c.Set(userContextKey, nil)
}

// LoadUser resolves the session cookie to a user. Requests without a valid
// session continue as guests.
func (s *Sessions) LoadUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := s.parse(cookie.Value)
			if err != nil {
				s.Logout(c)
				return next(c)
			}

			user, err := s.users.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if err != repositories.ErrNotFound {
					return err
				}
				s.Logout(c)
				return next(c)
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

func (s *Sessions) parse(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

// RequireLogin redirects guests to loginURL, remembering where they were going
func RequireLogin(loginURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				target := loginURL + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusFound, target)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the signed-in user, or nil for guests
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
