package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/marketplace/classifieds/internal/api/metrics"
	"github.com/marketplace/classifieds/internal/api/middleware"
	"github.com/marketplace/classifieds/internal/core/domain"
	"github.com/marketplace/classifieds/internal/core/ports"
)

// AuthHandler serves signup, login, logout and admin access.
type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionService
	cookie   *middleware.SessionCookie
	log      zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionService, cookie *middleware.SessionCookie, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookie: cookie, log: log}
}

// LoginForm returns the current identity, if any.
//
// @Summary      Login form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Router       /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, userResponse{User: middleware.CurrentUser(c)})
}

// Login verifies credentials, starts a fresh session and sets its cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		reason := loginFailureReason(err)
		metrics.LoginsTotal.WithLabelValues(reason).Inc()
		h.log.Warn().Str("username", req.Username).Str("reason", reason).Msg("login failed")
		return err
	}

	session, err := h.sessions.Start(ctx, user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}
	if err := h.cookie.Issue(c, session.ID); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, userResponse{User: user})
}

func loginFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrIncorrectUsername):
		return "unknown_user"
	case errors.Is(err, domain.ErrIncorrectPassword):
		return "bad_password"
	default:
		return "error"
	}
}

// Logout detaches the identity from the current session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sid := middleware.SessionID(c); sid != "" {
		if err := h.sessions.End(c.Request().Context(), sid); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// SignupForm returns the current identity, if any.
//
// @Summary      Signup form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Router       /signup [get]
func (h *AuthHandler) SignupForm(c echo.Context) error {
	return c.JSON(http.StatusOK, userResponse{User: middleware.CurrentUser(c)})
}

// Signup registers a new account. It does not log the user in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      signupRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.SignupsTotal.WithLabelValues(resultLabel(err, "created")).Inc()
		return err
	}

	user, err := h.auth.Signup(c.Request().Context(), ports.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	metrics.SignupsTotal.WithLabelValues(resultLabel(err, "created")).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// AdminForm returns the user the grant would apply to.
//
// @Summary      Admin access form
// @Tags         admin
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /adminaccess [get]
func (h *AuthHandler) AdminForm(c echo.Context) error {
	return c.JSON(http.StatusOK, userResponse{User: middleware.CurrentUser(c)})
}

// GrantAdmin elevates the logged-in user when the passphrase matches.
//
// @Summary      Grant admin access
// @Tags         admin
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      adminAccessRequest  true  "Passphrase and replacement account details"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /adminaccess [post]
func (h *AuthHandler) GrantAdmin(c echo.Context) error {
	var req adminAccessRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	current := middleware.CurrentUser(c)
	if current == nil {
		return domain.ErrUnauthenticated
	}

	user, err := h.auth.GrantAdmin(c.Request().Context(), current.ID, ports.AdminGrantInput{
		Passphrase: req.AdminPass,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Username:   req.Username,
		Password:   req.Password,
	})
	switch {
	case err == nil:
		metrics.AdminGrantsTotal.WithLabelValues("granted").Inc()
	case errors.Is(err, domain.ErrIncorrectPassphrase):
		metrics.AdminGrantsTotal.WithLabelValues("denied").Inc()
		h.log.Warn().Str("user_id", current.ID).Msg("admin access denied")
		return err
	default:
		metrics.AdminGrantsTotal.WithLabelValues("error").Inc()
		return err
	}

	return c.JSON(http.StatusOK, userResponse{User: user})
}

// resultLabel classifies the outcome of a create operation for metrics.
func resultLabel(err error, success string) string {
	var ve *domain.ValidationError
	var he *echo.HTTPError
	switch {
	case err == nil:
		return success
	case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrCategoryExists):
		return "conflict"
	case errors.As(err, &ve), errors.As(err, &he):
		return "invalid"
	default:
		return "error"
	}
}
