package backup

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sadopc/targetflow/internal/model"
)

func sampleTargets() []model.Target {
	return []model.Target{
		{
			PersistedID: "t1",
			Title:       "Read Book",
			DueDate:     "2025-01-01",
			Tags:        []string{"reading"},
			Logs: []model.Log{
				{PersistedID: "l1", Date: "2024-12-01", Completed: "50", Note: "ch 1-3"},
				{PersistedID: "l2", Date: "2024-12-02", Completed: "120"},
			},
		},
		{
			PersistedID: "t2",
			Title:       "Practice",
			Tags:        []string{"CP", "Contest"},
			Pinned:      true,
		},
	}
}

// ============================================================
// JSON round trip
// ============================================================

func TestJSONRoundTrip(t *testing.T) {
	targets := sampleTargets()
	path := filepath.Join(t.TempDir(), "backup.json")

	if err := ToJSON(targets, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	imported, err := Import(path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !reflect.DeepEqual(imported, targets) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", targets, imported)
	}
}

func TestJSONExportIsFlatArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := ToJSON(sampleTargets(), path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("export should be a top-level JSON array: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(raw))
	}
	// Pretty-printed
	if !strings.Contains(string(data), "\n") {
		t.Fatal("export should be indented")
	}
}

func TestJSONExportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("expected empty array, got %q", data)
	}
}

func TestJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Import validation
// ============================================================

func TestImportRejectsNonArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"targets": []}`), 0o644)

	if _, err := Import(path); err == nil {
		t.Fatal("expected error for non-array backup")
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json")
	os.WriteFile(path, []byte(`not json at all`), 0o644)

	if _, err := Import(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportMissingFile(t *testing.T) {
	if _, err := Import(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	os.WriteFile(path, []byte(`[]`), 0o644)

	targets, err := Import(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 0 {
		t.Fatalf("expected no targets, got %d", len(targets))
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.csv")
	if err := ToCSV(sampleTargets(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 log rows for t1 + 1 row for logless t2
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}
	if records[1][0] != "Read Book" || records[1][7] != "50" {
		t.Fatalf("unexpected first data row: %v", records[1])
	}
	if records[3][0] != "Practice" || records[3][5] != "" {
		t.Fatalf("logless target should still export: %v", records[3])
	}
	if records[3][2] != "CP,Contest" {
		t.Fatalf("tags not joined: %q", records[3][2])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}
