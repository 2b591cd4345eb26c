package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marketplace/classifieds/internal/api/middleware"
	"github.com/marketplace/classifieds/internal/core/domain"
	"github.com/marketplace/classifieds/internal/core/ports"
)

type stubAuthService struct {
	signupFn       func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	authenticateFn func(ctx context.Context, username, password string) (*domain.User, error)
	grantAdminFn   func(ctx context.Context, userID string, in ports.AdminGrantInput) (*domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *stubAuthService) GrantAdmin(ctx context.Context, userID string, in ports.AdminGrantInput) (*domain.User, error) {
	return s.grantAdminFn(ctx, userID, in)
}

type stubSessionService struct {
	started []string
	ended   []string
}

func (s *stubSessionService) Start(_ context.Context, user *domain.User) (*domain.Session, error) {
	s.started = append(s.started, user.ID)
	return &domain.Session{ID: "sess-" + user.ID, UserID: user.ID}, nil
}

func (s *stubSessionService) Resolve(context.Context, string) (*domain.User, error) {
	return nil, nil
}

func (s *stubSessionService) End(_ context.Context, sid string) error {
	s.ended = append(s.ended, sid)
	return nil
}

// stubListingService embeds the interface so tests only implement what they call.
type stubListingService struct {
	ports.ListingService

	home           *ports.HomePage
	categories     []*domain.Category
	createPostFn   func(owner *domain.User, in ports.PostInput) (*domain.Post, error)
	updatePostFn   func(actor *domain.User, id string, in ports.PostInput) (*domain.Post, error)
	createCategory func(in ports.CategoryInput) (*domain.Category, error)
	postErr        error
}

func (s *stubListingService) Home(context.Context) (*ports.HomePage, error) {
	return s.home, nil
}

func (s *stubListingService) Categories(context.Context) ([]*domain.Category, error) {
	return s.categories, nil
}

func (s *stubListingService) Post(_ context.Context, id string) (*domain.Post, error) {
	if s.postErr != nil {
		return nil, s.postErr
	}
	return &domain.Post{ID: id}, nil
}

func (s *stubListingService) CreatePost(_ context.Context, owner *domain.User, in ports.PostInput) (*domain.Post, error) {
	return s.createPostFn(owner, in)
}

func (s *stubListingService) UpdatePost(_ context.Context, actor *domain.User, id string, in ports.PostInput) (*domain.Post, error) {
	return s.updatePostFn(actor, id, in)
}

func (s *stubListingService) CreateCategory(_ context.Context, in ports.CategoryInput) (*domain.Category, error) {
	return s.createCategory(in)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func testCookie() *middleware.SessionCookie {
	return middleware.NewSessionCookie("sid", "test-secret", time.Hour, false)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}
