package session

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisPersisterRoundTrip(t *testing.T) {
	redis := miniredis.RunT(t)
	p := NewRedisPersister(redis.Addr(), "")

	if _, ok, err := p.Load(); err != nil || ok {
		t.Fatalf("empty backend should report ok=false, got ok=%v err=%v", ok, err)
	}

	user := testUser()
	if err := p.Save(Session{User: &user, Token: "tok"}.derived()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := p.Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.User == nil || got.User.ID != "u1" || got.Token != "tok" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	if err := p.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := p.Load(); ok {
		t.Fatal("cleared backend should report ok=false")
	}
}

func TestRedisPersisterBacksStore(t *testing.T) {
	redis := miniredis.RunT(t)
	p := NewRedisPersister(redis.Addr(), "")

	first := NewStore(Options{Persister: p})
	first.Login(testUser(), "tok-shared")

	second := NewStore(Options{Persister: p})
	if !second.IsAuthenticated() || second.Token() != "tok-shared" {
		t.Fatalf("session not shared through redis: %+v", second.Current())
	}

	second.Logout()
	third := NewStore(Options{Persister: p})
	if third.IsAuthenticated() {
		t.Fatal("logout must clear the shared session")
	}
}
