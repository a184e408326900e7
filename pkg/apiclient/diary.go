package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"bookbuddy/pkg/domain"
)

// NotePayload is the JSON body for a new diary note.
type NotePayload struct {
	Title string    `json:"title"`
	Entry string    `json:"entry"`
	Mood  string    `json:"mood,omitempty"`
	Tags  []string  `json:"tags,omitempty"`
	Date  time.Time `json:"date"`
}

// ListNotes returns the current user's diary notes.
func (c *Client) ListNotes(ctx context.Context) ([]domain.DiaryNote, error) {
	var notes []domain.DiaryNote
	if err := c.get(ctx, "/note", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// NoteDetails returns a single diary note.
func (c *Client) NoteDetails(ctx context.Context, id string) (domain.DiaryNote, error) {
	var note domain.DiaryNote
	if err := c.get(ctx, "/note/"+url.PathEscape(id), nil, &note); err != nil {
		return domain.DiaryNote{}, err
	}
	return note, nil
}

// CreateNote stores a new diary note and returns the server record.
func (c *Client) CreateNote(ctx context.Context, payload NotePayload) (domain.DiaryNote, error) {
	var note domain.DiaryNote
	if err := c.doJSON(ctx, http.MethodPost, "/note", payload, &note); err != nil {
		return domain.DiaryNote{}, err
	}
	return note, nil
}

// DeleteNote removes a diary note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/note/"+url.PathEscape(id), nil, nil)
}
