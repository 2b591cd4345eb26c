package handler

import (
	"strings"

	"github.com/marketplace/classifieds/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---
//
// Every request binds from either a form post or a JSON body.

type loginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type signupRequest struct {
	FirstName string `form:"first_name" json:"first_name" validate:"required,max=100"`
	LastName  string `form:"last_name"  json:"last_name"  validate:"required,max=100"`
	Username  string `form:"username"   json:"username"   validate:"required,max=64"`
	Password  string `form:"password"   json:"password"   validate:"required,max=72"`
	Email     string `form:"email"      json:"email"      validate:"omitempty,email"`
	Phone     string `form:"phone"      json:"phone"      validate:"max=32"`
}

type adminAccessRequest struct {
	AdminPass string `form:"adminPass"  json:"adminPass"  validate:"required"`
	FirstName string `form:"first_name" json:"first_name" validate:"required,max=100"`
	LastName  string `form:"last_name"  json:"last_name"  validate:"required,max=100"`
	Username  string `form:"username"   json:"username"   validate:"required,max=64"`
	Password  string `form:"password"   json:"password"   validate:"required,max=72"`
}

type postRequest struct {
	Title       string  `form:"title"       json:"title"       validate:"required,max=200"`
	Description string  `form:"description" json:"description"`
	Image       string  `form:"image"       json:"image"`
	Category    string  `form:"category"    json:"category"    validate:"required"`
	Price       float64 `form:"price"       json:"price"       validate:"gte=0"`
}

// categoryRequest keeps the historical "title" field for the category name.
type categoryRequest struct {
	Name        string `form:"title"       json:"title"       validate:"required,max=100"`
	Description string `form:"description" json:"description"`
	Image       string `form:"image"       json:"image"`
}

// normalize trims the fields the services trim, so validation limits apply
// to the stored values.
func (r *loginRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

func (r *signupRequest) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *adminAccessRequest) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Username = strings.TrimSpace(r.Username)
}

// --- Response types ---

type userResponse struct {
	User *domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type homeResponse struct {
	User       *domain.User       `json:"user"`
	Posts      []*domain.Post     `json:"posts"`
	Categories []*domain.Category `json:"categories"`
}

type postResponse struct {
	Post *domain.Post `json:"post"`
}

type postsResponse struct {
	Posts []*domain.Post `json:"posts"`
}

type editFormResponse struct {
	Post       *domain.Post       `json:"post"`
	Categories []*domain.Category `json:"categories"`
}

type categoryResponse struct {
	Category *domain.Category `json:"category"`
}

type categoriesResponse struct {
	Categories []*domain.Category `json:"categories"`
}

type categoryPageResponse struct {
	Category *domain.Category `json:"category"`
	Posts    []*domain.Post   `json:"posts"`
}

// orEmpty keeps list fields rendering as [] instead of null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
