package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookbuddy/pkg/domain"
)

func TestSearchBooksQueryParameters(t *testing.T) {
	var gotQuery, gotCategory string
	var categoryPresent bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/book/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		params := r.URL.Query()
		gotQuery = params.Get("q")
		gotCategory = params.Get("category")
		_, categoryPresent = params["category"]
		w.Write(envelopeJSON([]domain.Book{}))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	if _, err := c.SearchBooks(context.Background(), "dune", "SciFi"); err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotQuery != "dune" || gotCategory != "SciFi" {
		t.Fatalf("unexpected params q=%q category=%q", gotQuery, gotCategory)
	}

	if _, err := c.SearchBooks(context.Background(), "dune", ""); err != nil {
		t.Fatalf("search without category: %v", err)
	}
	if categoryPresent {
		t.Fatal("empty category should be omitted from the query string")
	}
}

func TestUploadBookMultipartFieldNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/book" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("name"); got != "Dune" {
			t.Errorf("name = %q", got)
		}
		if got := r.FormValue("category"); got != "cat-1" {
			t.Errorf("category = %q", got)
		}
		if _, _, err := r.FormFile("pdfFile"); err != nil {
			t.Errorf("pdfFile part missing: %v", err)
		}
		if _, _, err := r.FormFile("coverImage"); err != nil {
			t.Errorf("coverImage part missing: %v", err)
		}
		w.Write(envelopeJSON(domain.Book{ID: "b1", Name: "Dune"}))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	book, err := c.UploadBook(context.Background(), BookUpload{
		Name:       "Dune",
		Author:     "Frank Herbert",
		CategoryID: "cat-1",
		PDF:        FormFile{Name: "dune.pdf", Reader: strings.NewReader("%PDF-fake")},
		Cover:      &FormFile{Name: "cover.jpg", Reader: strings.NewReader("jpeg-bytes")},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if book.ID != "b1" {
		t.Fatalf("expected server record, got %+v", book)
	}
}

func TestDeleteAndLikeUseExpectedRoutes(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Write(envelopeJSON(nil))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	if err := c.DeleteBook(context.Background(), "42"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.ToggleLike(context.Background(), "42"); err != nil {
		t.Fatalf("like: %v", err)
	}
	want := []string{"DELETE /book/42", "PATCH /book/like/42"}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("unexpected calls %v", calls)
	}
}
