package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/marketplace/classifieds/internal/core/domain"
	"github.com/marketplace/classifieds/internal/core/ports"
)

// PostPolicy controls who may overwrite a post.
type PostPolicy struct {
	// OwnerOnlyUpdates rejects updates from anyone but the current owner.
	// When false any authenticated user may replace any post.
	OwnerOnlyUpdates bool
}

// ListingService implements the post and category use cases.
type ListingService struct {
	posts      ports.PostRepository
	categories ports.CategoryRepository
	policy     PostPolicy
	logger     zerolog.Logger
}

func NewListingService(posts ports.PostRepository, categories ports.CategoryRepository, policy PostPolicy, logger zerolog.Logger) *ListingService {
	return &ListingService{posts: posts, categories: categories, policy: policy, logger: logger}
}

// Home loads all posts and all categories concurrently.
func (s *ListingService) Home(ctx context.Context) (*ports.HomePage, error) {
	var page ports.HomePage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page.Posts, err = s.posts.List(gctx, ports.PostFilter{})
		return err
	})
	g.Go(func() (err error) {
		page.Categories, err = s.categories.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *ListingService) Post(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.FindByID(ctx, id)
}

func (s *ListingService) Categories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// CategoryPage loads a category and its posts concurrently.
func (s *ListingService) CategoryPage(ctx context.Context, id string) (*ports.CategoryPage, error) {
	var page ports.CategoryPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page.Category, err = s.categories.FindByID(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		page.Posts, err = s.posts.List(gctx, ports.PostFilter{CategoryID: id})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *ListingService) OwnerListings(ctx context.Context, ownerID string) ([]*domain.Post, error) {
	return s.posts.List(ctx, ports.PostFilter{OwnerID: ownerID})
}

// EditForm loads a post and the category choices concurrently.
func (s *ListingService) EditForm(ctx context.Context, id string) (*ports.EditForm, error) {
	var form ports.EditForm
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		form.Post, err = s.posts.FindByID(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		form.Categories, err = s.categories.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &form, nil
}

// CreateCategory inserts a category. A second category with the same name,
// ignoring case and whitespace, is rejected by the store.
func (s *ListingService) CreateCategory(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	name := strings.Join(strings.Fields(in.Name), " ")
	if name == "" {
		return nil, domain.NewValidationError("category name is required")
	}
	key := domain.CategoryKey(name)

	created, err := s.categories.Create(ctx, &domain.Category{
		Name:        name,
		Key:         key,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrCategoryExists) {
			s.logger.Error().Err(err).Str("name", name).Msg("failed to create category")
		}
		return nil, err
	}

	s.logger.Info().Str("category_id", created.ID).Str("slug", created.Slug).Msg("category created")
	return created, nil
}

// CreatePost files a new post under an existing category, owned by owner.
func (s *ListingService) CreatePost(ctx context.Context, owner *domain.User, in ports.PostInput) (*domain.Post, error) {
	if owner == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := s.checkPostInput(ctx, in); err != nil {
		return nil, err
	}

	post := buildPost(in)
	post.OwnerID = owner.ID
	post.CreatedAt = time.Now().UTC()

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", owner.ID).Msg("failed to create post")
		return nil, err
	}

	s.logger.Info().Str("post_id", created.ID).Str("owner_id", owner.ID).Msg("post created")
	return s.posts.FindByID(ctx, created.ID)
}

// UpdatePost replaces every mutable field of the post and re-assigns it to
// actor. Ownership is only checked when the policy asks for it.
func (s *ListingService) UpdatePost(ctx context.Context, actor *domain.User, id string, in ports.PostInput) (*domain.Post, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	existing, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.policy.OwnerOnlyUpdates && existing.OwnerID != actor.ID {
		s.logger.Warn().Str("post_id", id).Str("actor_id", actor.ID).Msg("post update rejected: not owner")
		return nil, domain.ErrForbidden
	}
	if err := s.checkPostInput(ctx, in); err != nil {
		return nil, err
	}

	post := buildPost(in)
	post.ID = existing.ID
	post.OwnerID = actor.ID
	post.CreatedAt = existing.CreatedAt

	if err := s.posts.Replace(ctx, post); err != nil {
		return nil, err
	}

	if existing.OwnerID != actor.ID {
		s.logger.Info().Str("post_id", id).Str("from", existing.OwnerID).Str("to", actor.ID).Msg("post owner reassigned")
	}
	s.logger.Info().Str("post_id", id).Str("actor_id", actor.ID).Msg("post updated")
	return s.posts.FindByID(ctx, id)
}

func (s *ListingService) checkPostInput(ctx context.Context, in ports.PostInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.NewValidationError("title is required")
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return domain.NewValidationError("price must be a non-negative number")
	}
	if in.CategoryID == "" {
		return domain.NewValidationError("category is required")
	}
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.NewValidationError("category %q does not exist", in.CategoryID)
		}
		return err
	}
	return nil
}

func buildPost(in ports.PostInput) *domain.Post {
	return &domain.Post{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}
}
