package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmtruong/rightsizer/pkg/types"
)

// JSONWriter writes the report as pretty-printed JSON under dir.
type JSONWriter struct {
	Dir string
}

// Write creates dir if needed and writes report.json into it, returning
// the file path.
func (w JSONWriter) Write(_ context.Context, report *types.Report) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	outputPath := filepath.Join(w.Dir, "report.json")
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report.json: %w", err)
	}

	return outputPath, nil
}
