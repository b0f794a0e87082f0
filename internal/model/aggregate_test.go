package model

import (
	"testing"
	"time"
)

// ============================================================
// DaysLeft
// ============================================================

func TestDaysLeftAbsentDate(t *testing.T) {
	if got := DaysLeft("", time.Now()); got != 0 {
		t.Fatalf("expected 0 for absent date, got %d", got)
	}
}

func TestDaysLeftUnparseableDate(t *testing.T) {
	if got := DaysLeft("someday", time.Now()); got != 0 {
		t.Fatalf("expected 0 for unparseable date, got %d", got)
	}
}

func TestDaysLeftFuture(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := DaysLeft("2025-01-04", now); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestDaysLeftOverdue(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if got := DaysLeft("2025-01-05", now); got >= 0 {
		t.Fatalf("expected negative for overdue, got %d", got)
	}
}

func TestDaysLeftAntitoneInNow(t *testing.T) {
	// Advancing the clock by a day decreases the result by exactly one.
	due := "2025-03-15"
	now := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	prev := DaysLeft(due, now)
	for i := 0; i < 30; i++ {
		now = now.Add(24 * time.Hour)
		cur := DaysLeft(due, now)
		if cur != prev-1 {
			t.Fatalf("day %d: expected %d, got %d", i, prev-1, cur)
		}
		prev = cur
	}
}

// ============================================================
// Units parsing
// ============================================================

func TestLogUnits(t *testing.T) {
	tests := []struct {
		completed string
		want      int
		ok        bool
	}{
		{"50", 50, true},
		{"120", 120, true},
		{"  75  ", 75, true},
		{"50 pages", 50, true},
		{"-10", -10, true},
		{"+5", 5, true},
		{"", 0, false},
		{"none", 0, false},
		{"a100", 0, false},
	}
	for _, tt := range tests {
		got, ok := Log{Completed: tt.completed}.Units()
		if got != tt.want || ok != tt.ok {
			t.Errorf("Units(%q) = %d, %v; want %d, %v", tt.completed, got, ok, tt.want, tt.ok)
		}
	}
}

// ============================================================
// TotalProgress
// ============================================================

func TestTotalProgressEmpty(t *testing.T) {
	if got := TotalProgress(nil); got != 0 {
		t.Fatalf("expected 0 for empty logs, got %d", got)
	}
}

func TestTotalProgressSkipsUnparseable(t *testing.T) {
	logs := []Log{{Completed: "40"}, {Completed: "rest day"}, {Completed: "10"}}
	if got := TotalProgress(logs); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestTotalProgressAssociative(t *testing.T) {
	a := []Log{{Completed: "10"}, {Completed: "nope"}, {Completed: "25"}}
	b := []Log{{Completed: "100"}, {Completed: "-5"}}
	combined := append(append([]Log{}, a...), b...)
	if TotalProgress(combined) != TotalProgress(a)+TotalProgress(b) {
		t.Fatal("TotalProgress(A++B) != TotalProgress(A)+TotalProgress(B)")
	}
}

// ============================================================
// SuccessStats / SuccessRate
// ============================================================

func TestSuccessStatsPartitionTotal(t *testing.T) {
	tests := [][]Log{
		nil,
		{{Completed: "100"}},
		{{Completed: "100"}, {Completed: "99"}, {Completed: ""}},
		{{Completed: "junk"}, {Completed: "150"}, {Completed: "0"}, {Completed: "-3"}},
	}
	for i, logs := range tests {
		achieved, missed := SuccessStats(logs)
		if achieved+missed != len(logs) {
			t.Errorf("case %d: achieved(%d)+missed(%d) != len(%d)", i, achieved, missed, len(logs))
		}
	}
}

func TestSuccessRateNoLogs(t *testing.T) {
	if got := SuccessRate(nil); got != 0 {
		t.Fatalf("expected 0 for no logs, got %d", got)
	}
}

func TestSuccessRateRounds(t *testing.T) {
	// 2 achieved of 3 logs = 66.67 -> 67
	logs := []Log{{Completed: "100"}, {Completed: "120"}, {Completed: "10"}}
	if got := SuccessRate(logs); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
}

// ============================================================
// DeadlineStatus
// ============================================================

func TestDeadlineStatus(t *testing.T) {
	tests := []struct {
		daysLeft int
		complete bool
		kind     StatusKind
		label    string
	}{
		{10, true, StatusCompleted, "Completed"},
		{-1, false, StatusOverdue, "Overdue"},
		{0, false, StatusDueSoon, "0 days left"},
		{3, false, StatusDueSoon, "3 days left"},
		{4, false, StatusUpcoming, "4 days left"},
		{30, false, StatusUpcoming, "30 days left"},
	}
	for _, tt := range tests {
		got := DeadlineStatus(tt.daysLeft, tt.complete)
		if got.Kind != tt.kind || got.Label != tt.label {
			t.Errorf("DeadlineStatus(%d, %v) = %+v; want kind %d label %q",
				tt.daysLeft, tt.complete, got, tt.kind, tt.label)
		}
	}
}

// ============================================================
// Scenario from the original dataset
// ============================================================

func TestReadBookScenario(t *testing.T) {
	target := Target{
		Title:   "Read Book",
		DueDate: "2025-01-01",
		Logs:    []Log{{Completed: "50"}, {Completed: "120"}},
	}
	if got := TotalProgress(target.Logs); got != 170 {
		t.Fatalf("totalProgress: expected 170, got %d", got)
	}
	achieved, missed := SuccessStats(target.Logs)
	if achieved != 1 || missed != 1 {
		t.Fatalf("successStats: expected {1,1}, got {%d,%d}", achieved, missed)
	}
	if got := SuccessRate(target.Logs); got != 50 {
		t.Fatalf("successRate: expected 50, got %d", got)
	}
}
