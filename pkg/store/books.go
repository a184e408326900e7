package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bookbuddy/pkg/apiclient"
	"bookbuddy/pkg/domain"
	"bookbuddy/pkg/session"
	"bookbuddy/pkg/upload"
)

// BookStore caches the book catalogue and the category list.
type BookStore struct {
	client  *apiclient.Client
	session *session.Store
	notifier

	mu         sync.RWMutex
	books      []domain.Book
	categories []domain.Category
	state      LoadState
}

// NewBookStore wires the store to the API client and the session, which it
// needs for the client-side "my uploads" and "liked books" derivations.
func NewBookStore(client *apiclient.Client, sess *session.Store) *BookStore {
	return &BookStore{client: client, session: sess}
}

// FetchAll replaces the cached catalogue with the server's full book list.
// On failure the previous list stays in place; the load state always returns
// to idle.
func (s *BookStore) FetchAll(ctx context.Context) error {
	s.setState(StateLoading)
	defer s.setState(StateIdle)

	books, err := s.client.ListBooks(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.books = books
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchByCategory replaces the cached list with one category's books.
func (s *BookStore) FetchByCategory(ctx context.Context, categoryID string) error {
	s.setState(StateLoading)
	defer s.setState(StateIdle)

	books, err := s.client.BooksByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.books = books
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchCategories refreshes the category catalogue.
func (s *BookStore) FetchCategories(ctx context.Context) error {
	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	s.notify()
	return nil
}

// Search queries the dedicated search endpoint. Stateless: results go to the
// caller, the cached list is untouched.
func (s *BookStore) Search(ctx context.Context, query, category string) ([]domain.Book, error) {
	return s.client.SearchBooks(ctx, query, category)
}

// Details fetches one book without touching the cache.
func (s *BookStore) Details(ctx context.Context, id string) (domain.Book, error) {
	return s.client.BookDetails(ctx, id)
}

// UploadRequest describes a book upload sourced from local files. CoverPath
// is optional.
type UploadRequest struct {
	Name        string
	Author      string
	Description string
	CategoryID  string
	PDFPath     string
	CoverPath   string
}

// Upload inspects the PDF locally, posts the book as multipart form data and
// appends the server's record to the cached list.
func (s *BookStore) Upload(ctx context.Context, req UploadRequest) (domain.Book, error) {
	if _, err := upload.InspectPDF(req.PDFPath); err != nil {
		return domain.Book{}, fmt.Errorf("inspect pdf: %w", err)
	}

	pdfFile, err := os.Open(req.PDFPath)
	if err != nil {
		return domain.Book{}, fmt.Errorf("open pdf: %w", err)
	}
	defer pdfFile.Close()

	up := apiclient.BookUpload{
		Name:        req.Name,
		Author:      req.Author,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		PDF: apiclient.FormFile{
			Name:        filepath.Base(req.PDFPath),
			ContentType: "application/pdf",
			Reader:      pdfFile,
		},
	}
	if req.CoverPath != "" {
		cover, err := os.Open(req.CoverPath)
		if err != nil {
			return domain.Book{}, fmt.Errorf("open cover: %w", err)
		}
		defer cover.Close()
		up.Cover = &apiclient.FormFile{
			Name:        filepath.Base(req.CoverPath),
			ContentType: imageContentType(req.CoverPath),
			Reader:      cover,
		}
	}

	book, err := s.client.UploadBook(ctx, up)
	if err != nil {
		return domain.Book{}, err
	}
	s.mu.Lock()
	s.books = append(s.books, book)
	s.mu.Unlock()
	s.notify()
	return book, nil
}

// Delete removes a book server-side, then resynchronizes with a full
// re-fetch. A failed delete leaves the cache unchanged and skips the
// re-fetch.
func (s *BookStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteBook(ctx, id); err != nil {
		return err
	}
	return s.FetchAll(ctx)
}

// ToggleLike flips the current user's like on a book. Callers re-fetch
// details to observe the new like count.
func (s *BookStore) ToggleLike(ctx context.Context, id string) error {
	return s.client.ToggleLike(ctx, id)
}

// Books returns a copy of the cached list.
func (s *BookStore) Books() []domain.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Categories returns a copy of the cached category list.
func (s *BookStore) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// State returns the current load state.
func (s *BookStore) State() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// MyUploads derives the logged-in user's uploads from the cached full list,
// order preserved.
func (s *BookStore) MyUploads() []domain.Book {
	userID := s.session.UserID()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Book
	for _, b := range s.books {
		if b.UploadedBy(userID) {
			out = append(out, b)
		}
	}
	return out
}

// LikedBooks derives the books whose likes contain the logged-in user's ID,
// order preserved.
func (s *BookStore) LikedBooks() []domain.Book {
	userID := s.session.UserID()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Book
	for _, b := range s.books {
		if b.LikedBy(userID) {
			out = append(out, b)
		}
	}
	return out
}

func (s *BookStore) setState(state LoadState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.notify()
}

func imageContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
