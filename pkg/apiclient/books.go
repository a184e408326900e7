package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bookbuddy/pkg/domain"
)

// ListCategories returns the fixed category catalogue.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.get(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListBooks returns the full book catalogue.
func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.get(ctx, "/book", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// BooksByCategory returns books belonging to one category.
func (c *Client) BooksByCategory(ctx context.Context, categoryID string) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.get(ctx, "/book/"+url.PathEscape(categoryID), nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// SearchBooks queries the dedicated search endpoint. Both parameters are
// optional; an empty category is omitted from the query string.
func (c *Client) SearchBooks(ctx context.Context, query, category string) ([]domain.Book, error) {
	params := url.Values{}
	params.Set("q", query)
	if category != "" {
		params.Set("category", category)
	}
	var books []domain.Book
	if err := c.get(ctx, "/book/search", params, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// BookDetails returns a single book with its uploader populated.
func (c *Client) BookDetails(ctx context.Context, id string) (domain.Book, error) {
	var book domain.Book
	if err := c.get(ctx, "/book/details/"+url.PathEscape(id), nil, &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// BookUpload describes a new book posted as multipart form data. Cover is
// optional; PDF is required by the server.
type BookUpload struct {
	Name        string
	Author      string
	Description string
	CategoryID  string
	Cover       *FormFile
	PDF         FormFile
}

// UploadBook posts a new book and returns the server's stored record.
func (c *Client) UploadBook(ctx context.Context, up BookUpload) (domain.Book, error) {
	fields := map[string]string{
		"category":    up.CategoryID,
		"name":        up.Name,
		"author":      up.Author,
		"description": up.Description,
	}
	pdf := up.PDF
	pdf.Field = "pdfFile"
	files := []FormFile{pdf}
	if up.Cover != nil {
		cover := *up.Cover
		cover.Field = "coverImage"
		files = append(files, cover)
	}

	var book domain.Book
	if err := c.doMultipart(ctx, http.MethodPost, "/book", fields, files, &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// DeleteBook removes a book the current user uploaded.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/book/"+url.PathEscape(id), nil, nil)
}

// ToggleLike flips the current user's like on a book.
func (c *Client) ToggleLike(ctx context.Context, id string) error {
	path := fmt.Sprintf("/book/like/%s", url.PathEscape(id))
	return c.doJSON(ctx, http.MethodPatch, path, nil, nil)
}
