package store

import (
	"context"
	"strings"
	"sync"

	"bookbuddy/internal/util"
	"bookbuddy/pkg/apiclient"
	"bookbuddy/pkg/domain"
)

// BlogStore caches the blog post list.
type BlogStore struct {
	client *apiclient.Client
	notifier

	mu    sync.RWMutex
	blogs []domain.Blog
	state LoadState
}

func NewBlogStore(client *apiclient.Client) *BlogStore {
	return &BlogStore{client: client}
}

// FetchAll replaces the cached list; the last good list survives failures.
func (s *BlogStore) FetchAll(ctx context.Context) error {
	s.setState(StateLoading)
	defer s.setState(StateIdle)

	blogs, err := s.client.ListBlogs(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blogs = blogs
	s.mu.Unlock()
	s.notify()
	return nil
}

// Details fetches one blog post without touching the cache.
func (s *BlogStore) Details(ctx context.Context, id string) (domain.Blog, error) {
	return s.client.BlogDetails(ctx, id)
}

// Create posts a new blog entry and appends the server record to the cache.
func (s *BlogStore) Create(ctx context.Context, title, description string, image *apiclient.FormFile) (domain.Blog, error) {
	blog, err := s.client.CreateBlog(ctx, title, description, image)
	if err != nil {
		return domain.Blog{}, err
	}
	s.mu.Lock()
	s.blogs = append(s.blogs, blog)
	s.mu.Unlock()
	s.notify()
	return blog, nil
}

// Blogs returns a copy of the cached list.
func (s *BlogStore) Blogs() []domain.Blog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Blog, len(s.blogs))
	copy(out, s.blogs)
	return out
}

// State returns the current load state.
func (s *BlogStore) State() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *BlogStore) setState(state LoadState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.notify()
}

// Preview flattens a blog description to plain text and truncates it to at
// most max runes for list cards.
func Preview(b domain.Blog, max int) string {
	text := util.HTMLToText(b.Description)
	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
