package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"bookbuddy/pkg/apiclient"
	"bookbuddy/pkg/domain"
	"bookbuddy/pkg/session"
)

func writeEnvelope(w http.ResponseWriter, data any) {
	json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "ok", "data": data})
}

func newBookStore(t *testing.T, handler http.Handler) (*BookStore, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.NewStore(session.Options{})
	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Tokens: sess})
	return NewBookStore(client, sess), sess
}

func TestFetchAllReplacesListAndResetsLoading(t *testing.T) {
	var fail atomic.Bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeEnvelope(w, []domain.Book{{ID: "1", Name: "Dune"}})
	})
	s, _ := newBookStore(t, handler)

	var states []LoadState
	cancel := s.Subscribe(func() { states = append(states, s.State()) })
	defer cancel()

	if s.State() != StateInitial {
		t.Fatalf("fresh store state = %v", s.State())
	}
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if got := s.Books(); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected cache %+v", got)
	}
	if s.State() != StateIdle {
		t.Fatalf("state after fetch = %v", s.State())
	}
	if len(states) == 0 || states[0] != StateLoading {
		t.Fatalf("subscribers must observe the loading transition, got %v", states)
	}

	// A failed refresh keeps the last good list and still goes idle.
	fail.Store(true)
	if err := s.FetchAll(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if got := s.Books(); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("failed refresh must keep the last good list, got %+v", got)
	}
	if s.State() != StateIdle {
		t.Fatalf("state after failed fetch = %v", s.State())
	}
}

func TestDeleteRefetchesOnlyOnSuccess(t *testing.T) {
	var deleteFails atomic.Bool
	var listCalls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			if deleteFails.Load() {
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "not yours"})
				return
			}
			writeEnvelope(w, nil)
		case r.Method == http.MethodGet && r.URL.Path == "/book":
			listCalls.Add(1)
			writeEnvelope(w, []domain.Book{})
		default:
			http.NotFound(w, r)
		}
	})
	s, _ := newBookStore(t, handler)

	if err := s.Delete(context.Background(), "42"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if listCalls.Load() != 1 {
		t.Fatalf("successful delete must trigger one re-fetch, got %d", listCalls.Load())
	}

	deleteFails.Store(true)
	if err := s.Delete(context.Background(), "42"); err == nil {
		t.Fatal("expected delete error")
	}
	if listCalls.Load() != 1 {
		t.Fatalf("failed delete must not re-fetch, got %d list calls", listCalls.Load())
	}
}

func TestMyUploadsAndLikedBooksDerivations(t *testing.T) {
	me := domain.User{ID: "me", Name: "Me", Email: "me@example.com"}
	other := domain.User{ID: "other"}
	books := []domain.Book{
		{ID: "1", Name: "A", User: &me},
		{ID: "2", Name: "B", User: &other, Likes: []string{"me"}},
		{ID: "3", Name: "C", User: &other},
		{ID: "4", Name: "D", User: &me, Likes: []string{"other", "me"}},
		{ID: "5", Name: "E"},
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, books)
	})
	s, sess := newBookStore(t, handler)
	sess.Login(me, "tok")

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch all: %v", err)
	}

	uploads := s.MyUploads()
	if len(uploads) != 2 || uploads[0].ID != "1" || uploads[1].ID != "4" {
		t.Fatalf("my uploads = %+v", uploads)
	}
	liked := s.LikedBooks()
	if len(liked) != 2 || liked[0].ID != "2" || liked[1].ID != "4" {
		t.Fatalf("liked books = %+v", liked)
	}
}

func TestUploadInspectsPDFAndAppends(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if _, _, err := r.FormFile("pdfFile"); err != nil {
			t.Errorf("pdfFile part missing: %v", err)
		}
		writeEnvelope(w, domain.Book{ID: "new", Name: r.FormValue("name")})
	})
	s, _ := newBookStore(t, handler)

	pdfPath := filepath.Join(t.TempDir(), "book.pdf")
	writeMinimalPDF(t, pdfPath)

	book, err := s.Upload(context.Background(), UploadRequest{
		Name:       "Dune",
		Author:     "Frank Herbert",
		CategoryID: "cat-1",
		PDFPath:    pdfPath,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if book.ID != "new" {
		t.Fatalf("unexpected record %+v", book)
	}
	if got := s.Books(); len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("upload must append to the cache, got %+v", got)
	}
}

func TestUploadRejectsBrokenPDFLocally(t *testing.T) {
	var requests atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		writeEnvelope(w, domain.Book{})
	})
	s, _ := newBookStore(t, handler)

	badPath := filepath.Join(t.TempDir(), "not-really.pdf")
	if err := os.WriteFile(badPath, []byte("plain text"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := s.Upload(context.Background(), UploadRequest{Name: "X", CategoryID: "c", PDFPath: badPath}); err == nil {
		t.Fatal("expected local inspection failure")
	}
	if requests.Load() != 0 {
		t.Fatal("broken file must be rejected before any network call")
	}
}

func TestFetchCategories(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories" {
			http.NotFound(w, r)
			return
		}
		writeEnvelope(w, []domain.Category{{ID: "c1", Name: "Fiction"}})
	})
	s, _ := newBookStore(t, handler)

	if err := s.FetchCategories(context.Background()); err != nil {
		t.Fatalf("fetch categories: %v", err)
	}
	if got := s.Categories(); len(got) != 1 || got[0].Name != "Fiction" {
		t.Fatalf("categories = %+v", got)
	}
}

// writeMinimalPDF assembles a single-page PDF with a correct xref table so
// the inspection path accepts it.
func writeMinimalPDF(t *testing.T, path string) {
	t.Helper()
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	var offsets []int
	addObj := func(s string) {
		offsets = append(offsets, b.Len())
		b.WriteString(s)
	}
	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	addObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n")
	xrefStart := b.Len()
	b.WriteString("xref\n0 4\n")
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	b.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n")
	fmt.Fprintf(&b, "%d\n", xrefStart)
	b.WriteString("%%EOF\n")
	if err := os.WriteFile(path, b.Bytes(), 0o600); err != nil {
		t.Fatalf("write pdf fixture: %v", err)
	}
}
