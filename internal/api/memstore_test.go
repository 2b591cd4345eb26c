package api

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/marketplace/classifieds/internal/core/domain"
	"github.com/marketplace/classifieds/internal/core/ports"
)

// memStore backs every port with maps so the router can run end to end.
type memStore struct {
	mu         sync.Mutex
	seq        int
	users      map[string]domain.User
	sessions   map[string]domain.Session
	categories map[string]domain.Category
	posts      map[string]domain.Post
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]domain.User),
		sessions:   make(map[string]domain.Session),
		categories: make(map[string]domain.Category),
		posts:      make(map[string]domain.Post),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
	}
	stored := *u
	stored.ID = r.nextID("user")
	r.users[stored.ID] = stored
	return &stored, nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.ID] = *u
	return nil
}

type memSessions struct{ *memStore }

func (r memSessions) Create(_ context.Context, s *domain.Session, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; ok {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	r.sessions[s.ID] = *s
	return nil
}

func (r memSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r memSessions) Save(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	r.sessions[s.ID] = *s
	return nil
}

type memCategories struct{ *memStore }

func (r memCategories) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Key == c.Key {
			return nil, domain.ErrCategoryExists
		}
	}
	stored := *c
	stored.ID = r.nextID("cat")
	r.categories[stored.ID] = stored
	return &stored, nil
}

func (r memCategories) FindByID(_ context.Context, id string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r memCategories) List(context.Context) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memPosts struct{ *memStore }

func (r memPosts) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *p
	stored.ID = r.nextID("post")
	r.posts[stored.ID] = stored
	return &stored, nil
}

func (r memPosts) Replace(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	r.posts[p.ID] = *p
	return nil
}

func (r memPosts) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.populate(p), nil
}

func (r memPosts) List(_ context.Context, f ports.PostFilter) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if (f.OwnerID != "" && p.OwnerID != f.OwnerID) || (f.CategoryID != "" && p.CategoryID != f.CategoryID) {
			continue
		}
		out = append(out, r.populate(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// populate must be called with mu held.
func (r memPosts) populate(p domain.Post) *domain.Post {
	if u, ok := r.users[p.OwnerID]; ok {
		u.PasswordHash = ""
		p.Owner = &u
	}
	if c, ok := r.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return &p
}
