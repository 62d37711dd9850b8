package report

import (
	"encoding/json"
	"fmt"

	"github.com/Investorold/arcshield-sub000/internal/model"
	"github.com/Investorold/arcshield-sub000/internal/safefile"
)

// WriteJSON writes the scan report as indented JSON, atomically.
func WriteJSON(path string, rep model.ScanReport) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scan report: %w", err)
	}
	b = append(b, '\n')
	if err := safefile.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write scan report: %w", err)
	}
	return nil
}
