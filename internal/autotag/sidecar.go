package autotag

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/a3tai/pdf-autotag/internal/model"
)

// WriteSidecar serializes the full structure-item list as an indented JSON
// array for audit and debugging. An empty item list produces an empty
// array, not null.
func WriteSidecar(path string, items []model.StructureItem) error {
	if items == nil {
		items = []model.StructureItem{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal structure items: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
