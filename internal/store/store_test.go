package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	v, err := s.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "" {
		t.Errorf("value = %q, want empty", v)
	}
}

func TestSetGetRoundtrip(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set(KeyLastView, "tasks"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := s.Get(KeyLastView)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "tasks" {
		t.Errorf("value = %q, want tasks", v)
	}

	// Upsert replaces
	if err := s.Set(KeyLastView, "dashboard"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, _ = s.Get(KeyLastView)
	if v != "dashboard" {
		t.Errorf("value = %q, want dashboard", v)
	}
}

func TestSaveCredentials(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveCredentials("acc", "ref", "alice"); err != nil {
		t.Fatalf("SaveCredentials: %v", err)
	}

	creds, err := s.Credentials()
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if creds.AccessToken != "acc" || creds.RefreshToken != "ref" || creds.Username != "alice" {
		t.Errorf("credentials = %+v", creds)
	}
}

func TestSetAccessTokenKeepsRest(t *testing.T) {
	s := newTestStore(t)
	s.SaveCredentials("acc", "ref", "alice")

	if err := s.SetAccessToken("acc2"); err != nil {
		t.Fatalf("SetAccessToken: %v", err)
	}
	creds, _ := s.Credentials()
	if creds.AccessToken != "acc2" {
		t.Errorf("access = %q, want acc2", creds.AccessToken)
	}
	if creds.RefreshToken != "ref" || creds.Username != "alice" {
		t.Errorf("other keys changed: %+v", creds)
	}
}

func TestClearCredentials(t *testing.T) {
	s := newTestStore(t)
	s.SaveCredentials("acc", "ref", "alice")
	s.Set(KeyLastView, "tasks")

	if err := s.ClearCredentials(); err != nil {
		t.Fatalf("ClearCredentials: %v", err)
	}

	creds, _ := s.Credentials()
	if creds.AccessToken != "" || creds.RefreshToken != "" || creds.Username != "" {
		t.Errorf("credentials not cleared: %+v", creds)
	}
	// Non-credential settings survive a logout
	v, _ := s.Get(KeyLastView)
	if v != "tasks" {
		t.Errorf("last_view = %q, want tasks", v)
	}
}

func TestCredentialsEmptyStore(t *testing.T) {
	s := newTestStore(t)
	creds, err := s.Credentials()
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if creds != (Credentials{}) {
		t.Errorf("credentials = %+v, want zero", creds)
	}
}
