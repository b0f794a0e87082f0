package backup

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/targetflow/internal/model"
)

// ToCSV writes a one-row-per-log flattening of the targets. Targets without
// logs still get one row so they are not lost from the export. CSV is an
// export-only format; Import accepts JSON.
func ToCSV(targets []model.Target, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Target", "Due", "Tags", "Pinned", "Archived", "Log Date", "Planned", "Completed", "Note"}); err != nil {
		return err
	}

	for _, t := range targets {
		base := []string{
			t.Title,
			t.DueDate,
			strings.Join(t.Tags, ","),
			fmt.Sprintf("%t", t.Pinned),
			fmt.Sprintf("%t", t.Archived),
		}
		if len(t.Logs) == 0 {
			if err := w.Write(append(base, "", "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, l := range t.Logs {
			row := append(append([]string{}, base...), l.Date, l.Planned, l.Completed, l.Note)
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}
