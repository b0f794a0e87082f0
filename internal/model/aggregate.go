package model

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// DaysLeft returns the number of whole days between now and the due date,
// rounded up. Negative when overdue, 0 when the date is absent or
// unparseable.
func DaysLeft(dueDate string, now time.Time) int {
	if dueDate == "" {
		return 0
	}
	due, err := time.Parse(dateLayout, dueDate)
	if err != nil {
		return 0
	}
	diff := due.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// TotalProgress sums the units of every log. Logs without a parseable
// completed value contribute 0.
func TotalProgress(logs []Log) int {
	total := 0
	for _, l := range logs {
		if n, ok := l.Units(); ok {
			total += n
		}
	}
	return total
}

// SuccessStats partitions logs into achieved (units >= 100) and missed
// (everything else, including unparseable values). The partition is total:
// achieved + missed == len(logs).
func SuccessStats(logs []Log) (achieved, missed int) {
	for _, l := range logs {
		if n, ok := l.Units(); ok && n >= 100 {
			achieved++
		} else {
			missed++
		}
	}
	return achieved, missed
}

// SuccessRate is achieved over total logs as a percentage rounded to the
// nearest integer, 0 when there are no logs.
func SuccessRate(logs []Log) int {
	achieved, missed := SuccessStats(logs)
	total := achieved + missed
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(achieved) / float64(total) * 100))
}

// StatusKind classifies a target's deadline state.
type StatusKind int

const (
	StatusCompleted StatusKind = iota
	StatusOverdue
	StatusDueSoon  // 0-3 days remaining
	StatusUpcoming // more than 3 days remaining
)

// Status is the deadline classification with a display label. The label
// embeds the day count for pending targets.
type Status struct {
	Kind  StatusKind
	Label string
}

// DeadlineStatus classifies by days remaining. A completed target short
// circuits the deadline check.
func DeadlineStatus(daysLeft int, complete bool) Status {
	switch {
	case complete:
		return Status{Kind: StatusCompleted, Label: "Completed"}
	case daysLeft < 0:
		return Status{Kind: StatusOverdue, Label: "Overdue"}
	case daysLeft <= 3:
		return Status{Kind: StatusDueSoon, Label: fmt.Sprintf("%d days left", daysLeft)}
	default:
		return Status{Kind: StatusUpcoming, Label: fmt.Sprintf("%d days left", daysLeft)}
	}
}
