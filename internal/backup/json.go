package backup

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sadopc/targetflow/internal/model"
)

// ToJSON writes the targets as an indented flat JSON array. The same shape
// is accepted back by Import.
func ToJSON(targets []model.Target, path string) error {
	if targets == nil {
		targets = []model.Target{}
	}
	data, err := json.MarshalIndent(targets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// Import reads a backup file. The only structural requirement is that the
// top level is a JSON array; element contents are taken as-is. The caller
// replaces the whole collection after user confirmation.
func Import(path string) ([]model.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup file: %w", err)
	}

	var targets []model.Target
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("invalid backup format, expected a JSON array: %w", err)
	}
	return targets, nil
}
