package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/zalando/go-keyring"
)

func testSession() Session {
	name := "Kim"
	return Session{Token: "tok-1", User: api.User{ID: "3", Name: &name, Email: "kim@x.io"}}
}

func TestRememberedSessionSurvivesRestart(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	if err := NewStore(dir).Save(testSession(), true); err != nil {
		t.Fatalf("save: %v", err)
	}

	s, err := NewStore(dir).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s == nil || s.Token != "tok-1" || s.User.ID != "3" {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestUnrememberedSessionIsMemoryOnly(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	st := NewStore(dir)
	if err := st.Save(testSession(), false); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s, _ := st.Load(); s == nil {
		t.Fatal("expected in-memory session")
	}

	s, err := NewStore(dir).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != nil {
		t.Errorf("expected no session after restart, got %+v", s)
	}
}

func TestFileFallbackWithoutKeyring(t *testing.T) {
	keyring.MockInitWithError(errors.New("no keyring"))
	dir := t.TempDir()

	if err := NewStore(dir).Save(testSession(), true); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, credFileName))
	if err != nil {
		t.Fatalf("expected session file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	s, err := NewStore(dir).Load()
	if err != nil || s == nil || s.Token != "tok-1" {
		t.Fatalf("unexpected load result %+v, %v", s, err)
	}
}

func TestClear(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	st := NewStore(dir)
	if err := st.Save(testSession(), true); err != nil {
		t.Fatal(err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s, _ := st.Load(); s != nil {
		t.Errorf("expected no session, got %+v", s)
	}
	if s, _ := NewStore(dir).Load(); s != nil {
		t.Errorf("expected keyring entry removed, got %+v", s)
	}
}

func TestRememberedEmail(t *testing.T) {
	st := NewStore(t.TempDir())

	if got := st.RememberedEmail(); got != "" {
		t.Errorf("expected empty email, got %q", got)
	}
	if err := st.SetRememberedEmail("kim@x.io"); err != nil {
		t.Fatal(err)
	}
	if got := st.RememberedEmail(); got != "kim@x.io" {
		t.Errorf("expected kim@x.io, got %q", got)
	}
	if err := st.SetRememberedEmail(""); err != nil {
		t.Fatal(err)
	}
	if got := st.RememberedEmail(); got != "" {
		t.Errorf("expected email forgotten, got %q", got)
	}
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	keyring.MockInit()
	if err := NewStore(t.TempDir()).Save(Session{}, true); err == nil {
		t.Error("expected error for empty token")
	}
}
