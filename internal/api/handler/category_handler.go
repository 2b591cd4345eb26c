package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace/classifieds/internal/api/metrics"
	"github.com/marketplace/classifieds/internal/core/ports"
)

// CategoryHandler serves the category pages.
type CategoryHandler struct {
	listings ports.ListingService
}

func NewCategoryHandler(listings ports.ListingService) *CategoryHandler {
	return &CategoryHandler{listings: listings}
}

// List returns all categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Router       /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.listings.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoriesResponse{Categories: orEmpty(categories)})
}

// Show returns a category and the posts filed under it.
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  categoryPageResponse
// @Failure      404  {object}  errorResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Show(c echo.Context) error {
	page, err := h.listings.CategoryPage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoryPageResponse{Category: page.Category, Posts: orEmpty(page.Posts)})
}

// CreateForm returns the existing categories.
//
// @Summary      New category form
// @Tags         categories
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Router       /createcategory [get]
func (h *CategoryHandler) CreateForm(c echo.Context) error {
	return h.List(c)
}

// Create adds a category. Names equal to an existing one, ignoring case and
// spacing, conflict.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      categoryRequest  true  "Category details"
// @Success      201   {object}  categoryResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /createcategory [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.CategoriesCreatedTotal.WithLabelValues(resultLabel(err, "created")).Inc()
		return err
	}

	category, err := h.listings.CreateCategory(c.Request().Context(), ports.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	})
	metrics.CategoriesCreatedTotal.WithLabelValues(resultLabel(err, "created")).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, categoryResponse{Category: category})
}
