package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/marketplace/classifieds/internal/core/domain"
)

const (
	sessionIDKey = "session_id"
	userKey      = "user"
)

// SessionCookie signs the opaque session id into an http-only cookie. The
// cookie carries no identity; the user is always looked up server-side.
type SessionCookie struct {
	name   string
	secret []byte
	ttl    time.Duration
	secure bool
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewSessionCookie(name, secret string, ttl time.Duration, secure bool) *SessionCookie {
	return &SessionCookie{name: name, secret: []byte(secret), ttl: ttl, secure: secure}
}

// Issue writes the cookie for sessionID.
func (sc *SessionCookie) Issue(c echo.Context, sessionID string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sc.ttl)),
		},
	})
	signed, err := token.SignedString(sc.secret)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     sc.name,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(sc.ttl.Seconds()),
		Expires:  now.Add(sc.ttl),
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read returns the session id from a valid, unexpired cookie.
func (sc *SessionCookie) Read(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(sc.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	var claims sessionClaims
	tkn, err := jwt.ParseWithClaims(cookie.Value, &claims, func(*jwt.Token) (interface{}, error) {
		return sc.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.SessionID == "" {
		return "", false
	}
	return claims.SessionID, true
}

// SessionResolver turns a session id into the user behind it.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*domain.User, error)
}

// Session resolves the identity for every request. Requests without a valid
// cookie, or whose session has no user, continue anonymously; store failures
// abort the request.
func Session(cookie *SessionCookie, sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, ok := cookie.Read(c)
			if !ok {
				return next(c)
			}
			user, err := sessions.Resolve(c.Request().Context(), sid)
			if err != nil {
				return err
			}
			SetIdentity(c, sid, user)
			return next(c)
		}
	}
}

// SetIdentity attaches a session id and its user (nil when anonymous) to c.
func SetIdentity(c echo.Context, sessionID string, user *domain.User) {
	c.Set(sessionIDKey, sessionID)
	if user != nil {
		c.Set(userKey, user)
	}
}

// CurrentUser returns the resolved identity, or nil for anonymous requests.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userKey).(*domain.User)
	return user
}

// SessionID returns the id of the session cookie sent with the request.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sessionIDKey).(string)
	return sid
}
