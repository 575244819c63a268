// Package sheets is the spreadsheet sink: each run lands on a new dated
// worksheet inside a fixed spreadsheet, the way the reporting sheet is
// shared with operators.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/dmtruong/rightsizer/internal/report"
	"github.com/dmtruong/rightsizer/pkg/provider"
	"github.com/dmtruong/rightsizer/pkg/types"
)

// Writer appends a dated worksheet per run to one spreadsheet.
type Writer struct {
	sheetKey string
	secrets  provider.SecretSource
	credsRef string

	now func() time.Time
}

// NewWriter creates a sheets writer. credsRef is the secret reference for
// the service-account JSON; the raw material is only ever read through
// the secret source.
func NewWriter(sheetKey, credsRef string, secrets provider.SecretSource) *Writer {
	return &Writer{
		sheetKey: sheetKey,
		secrets:  secrets,
		credsRef: credsRef,
		now:      time.Now,
	}
}

// Write creates the dated worksheet and fills it with the report rows,
// returning the worksheet title. A worksheet that already exists for
// today means a run already reported; it is left untouched.
func (w *Writer) Write(ctx context.Context, rep *types.Report) (string, error) {
	svc, err := w.service(ctx)
	if err != nil {
		return "", err
	}

	title := w.now().UTC().Format("01/02/06")

	_, err = svc.Spreadsheets.BatchUpdate(w.sheetKey, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{
			{
				AddSheet: &sheetsapi.AddSheetRequest{
					Properties: &sheetsapi.SheetProperties{Title: title},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return title, nil
		}
		return "", fmt.Errorf("failed to add worksheet: %w", err)
	}

	values := buildValues(rep)
	_, err = svc.Spreadsheets.Values.Update(w.sheetKey, fmt.Sprintf("'%s'!A1", title), &sheetsapi.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to write worksheet values: %w", err)
	}

	return title, nil
}

func (w *Writer) service(ctx context.Context) (*sheetsapi.Service, error) {
	creds, err := w.secrets.Get(ctx, w.credsRef)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheets credentials: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(creds, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(jwt.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to build sheets client: %w", err)
	}
	return svc, nil
}

// buildValues lays out the worksheet: header plus one row per result, or
// a single notice cell when nothing qualified.
func buildValues(rep *types.Report) [][]any {
	if len(rep.Results) == 0 {
		return [][]any{{"No underutilized instances found."}}
	}

	values := make([][]any, 0, len(rep.Results)+1)
	values = append(values, toAnyRow(report.Header()))
	for _, row := range report.Rows(rep) {
		values = append(values, toAnyRow(row))
	}
	return values
}

func toAnyRow(row []string) []any {
	out := make([]any, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}
