package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmtruong/rightsizer/pkg/types"
)

// CSVWriter writes the report as report.csv under dir, one row per
// underutilized instance.
type CSVWriter struct {
	Dir string
}

// Write creates dir if needed and writes report.csv, returning the file
// path. An empty report still produces a file with just the header.
func (w CSVWriter) Write(_ context.Context, report *types.Report) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(w.Dir, "report.csv")
	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create report.csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(Header()); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(Rows(report)); err != nil {
		return "", fmt.Errorf("failed to write csv rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return outputPath, nil
}
