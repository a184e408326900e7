package store

import (
	"context"
	"sync"

	"bookbuddy/pkg/apiclient"
	"bookbuddy/pkg/domain"
)

// DiaryStore caches the current user's diary notes.
type DiaryStore struct {
	client *apiclient.Client
	notifier

	mu    sync.RWMutex
	notes []domain.DiaryNote
	state LoadState
}

func NewDiaryStore(client *apiclient.Client) *DiaryStore {
	return &DiaryStore{client: client}
}

// FetchAll replaces the cached list; the last good list survives failures.
func (s *DiaryStore) FetchAll(ctx context.Context) error {
	s.setState(StateLoading)
	defer s.setState(StateIdle)

	notes, err := s.client.ListNotes(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
	s.notify()
	return nil
}

// Details fetches one note without touching the cache.
func (s *DiaryStore) Details(ctx context.Context, id string) (domain.DiaryNote, error) {
	return s.client.NoteDetails(ctx, id)
}

// Create stores a new note and appends the server record to the cache.
func (s *DiaryStore) Create(ctx context.Context, payload apiclient.NotePayload) (domain.DiaryNote, error) {
	note, err := s.client.CreateNote(ctx, payload)
	if err != nil {
		return domain.DiaryNote{}, err
	}
	s.mu.Lock()
	s.notes = append(s.notes, note)
	s.mu.Unlock()
	s.notify()
	return note, nil
}

// Delete removes a note server-side, then resynchronizes with a full
// re-fetch. A failed delete leaves the cache unchanged and skips the
// re-fetch.
func (s *DiaryStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteNote(ctx, id); err != nil {
		return err
	}
	return s.FetchAll(ctx)
}

// Notes returns a copy of the cached list.
func (s *DiaryStore) Notes() []domain.DiaryNote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DiaryNote, len(s.notes))
	copy(out, s.notes)
	return out
}

// State returns the current load state.
func (s *DiaryStore) State() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *DiaryStore) setState(state LoadState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.notify()
}
