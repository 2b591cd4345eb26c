package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace/classifieds/internal/api/metrics"
	"github.com/marketplace/classifieds/internal/api/middleware"
	"github.com/marketplace/classifieds/internal/core/ports"
)

// PostHandler serves the home page and the post pages.
type PostHandler struct {
	listings ports.ListingService
}

func NewPostHandler(listings ports.ListingService) *PostHandler {
	return &PostHandler{listings: listings}
}

// Index lists every post with its owner, plus all categories.
//
// @Summary      Home page
// @Tags         posts
// @Produce      json
// @Success      200  {object}  homeResponse
// @Router       / [get]
func (h *PostHandler) Index(c echo.Context) error {
	page, err := h.listings.Home(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, homeResponse{
		User:       middleware.CurrentUser(c),
		Posts:      orEmpty(page.Posts),
		Categories: orEmpty(page.Categories),
	})
}

// Show returns a single post with owner and category populated.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  errorResponse
// @Router       /post/{id} [get]
func (h *PostHandler) Show(c echo.Context) error {
	post, err := h.listings.Post(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postResponse{Post: post})
}

// CreateForm returns the category choices for a new post.
//
// @Summary      New post form
// @Tags         posts
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Failure      401  {object}  errorResponse
// @Router       /createpost [get]
func (h *PostHandler) CreateForm(c echo.Context) error {
	categories, err := h.listings.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoriesResponse{Categories: orEmpty(categories)})
}

// Create files a new post owned by the logged-in user.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      postRequest  true  "Post details"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /createpost [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.listings.CreatePost(c.Request().Context(), middleware.CurrentUser(c), req.input())
	if err != nil {
		return err
	}

	metrics.PostsWrittenTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, postResponse{Post: post})
}

// EditForm returns a post and the category choices for editing it.
//
// @Summary      Edit post form
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  editFormResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /update/{id} [get]
func (h *PostHandler) EditForm(c echo.Context) error {
	form, err := h.listings.EditForm(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, editFormResponse{Post: form.Post, Categories: orEmpty(form.Categories)})
}

// Update replaces every mutable field of a post.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path      string       true  "Post id"
// @Param        body  body      postRequest  true  "Post details"
// @Success      200   {object}  postResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /update/{id} [post]
func (h *PostHandler) Update(c echo.Context) error {
	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.listings.UpdatePost(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"), req.input())
	if err != nil {
		return err
	}

	metrics.PostsWrittenTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, postResponse{Post: post})
}

// OwnerListings returns the posts owned by a user.
//
// @Summary      A user's listings
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Owner user id"
// @Success      200  {object}  postsResponse
// @Router       /yourlistings/{id} [get]
func (h *PostHandler) OwnerListings(c echo.Context) error {
	posts, err := h.listings.OwnerListings(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: orEmpty(posts)})
}

func (r postRequest) input() ports.PostInput {
	return ports.PostInput{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		CategoryID:  r.Category,
		Price:       r.Price,
	}
}
