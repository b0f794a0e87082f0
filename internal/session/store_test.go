package session

import (
	"testing"

	"github.com/sadopc/targetflow/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/targetflow.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen; should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Session lifecycle
// ============================================================

func TestLoadSessionEmpty(t *testing.T) {
	s := newTestStore(t)
	_, _, ok, err := s.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("fresh store should have no session")
	}
}

func TestSaveAndLoadSession(t *testing.T) {
	s := newTestStore(t)
	user := model.User{Name: "Ada", Email: "ada@example.com", CollegeName: "MIT"}
	if err := s.SaveSession("tok-123", user); err != nil {
		t.Fatal(err)
	}

	token, loaded, ok, err := s.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a session")
	}
	if token != "tok-123" {
		t.Fatalf("expected tok-123, got %q", token)
	}
	if loaded.Name != "Ada" || loaded.CollegeName != "MIT" {
		t.Fatalf("unexpected user: %+v", loaded)
	}
}

func TestSaveSessionOverwrites(t *testing.T) {
	s := newTestStore(t)
	s.SaveSession("first", model.User{Name: "A"})
	s.SaveSession("second", model.User{Name: "B"})

	token, user, _, _ := s.LoadSession()
	if token != "second" || user.Name != "B" {
		t.Fatalf("expected second session, got %q %+v", token, user)
	}
}

func TestUpdateUserKeepsToken(t *testing.T) {
	s := newTestStore(t)
	s.SaveSession("tok", model.User{Name: "Before"})

	if err := s.UpdateUser(model.User{Name: "After"}); err != nil {
		t.Fatal(err)
	}
	token, user, _, _ := s.LoadSession()
	if token != "tok" {
		t.Fatal("token should survive a profile update")
	}
	if user.Name != "After" {
		t.Fatalf("expected updated user, got %+v", user)
	}
}

func TestClearSession(t *testing.T) {
	s := newTestStore(t)
	s.SaveSession("tok", model.User{Name: "Ada"})

	if err := s.ClearSession(); err != nil {
		t.Fatal(err)
	}
	_, _, ok, err := s.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("session should be gone after clear")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		"theme":       "dark",
		"focus_work":  "1500",
		"focus_break": "300",
		"focus_count": "4",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("focus_work", "3000")
	val, _ := s.GetSetting("focus_work")
	if val != "3000" {
		t.Fatalf("expected 3000, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 4 {
		t.Fatalf("expected at least 4 default settings, got %d", len(all))
	}
	// Should be sorted by key
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}
