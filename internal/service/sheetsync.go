package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"license-gateway/internal/model"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// AuditSheetSync mirrors activity-log entries to a Google Sheet so the
// audit trail can be reviewed outside the console. Entries are immutable,
// so the sheet is append-only.
type AuditSheetSync struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewAuditSheetSync(enableSync bool, credentialPath, spreadsheetID, sheetName string) (*AuditSheetSync, error) {
	if !enableSync {
		return nil, nil
	}

	ctx := context.Background()

	b, err := os.ReadFile(credentialPath)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to load sheet credentials: %v", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, err
	}

	return &AuditSheetSync{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendLog appends one audit entry to the sheet.
func (s *AuditSheetSync) AppendLog(entry *model.ActivityLog) error {
	if s == nil {
		return nil
	}

	values := [][]interface{}{logRow(entry)}
	_, err := s.service.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.sheetName+"!A2:F",
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Do()
	if err != nil {
		return fmt.Errorf("failed to append activity log to sheet: %v", err)
	}
	return nil
}

// ExportLogs replaces the sheet body with the given entries. Used by the
// admin export endpoint to backfill a fresh spreadsheet.
func (s *AuditSheetSync) ExportLogs(entries []model.ActivityLog) error {
	if s == nil {
		return nil
	}

	// Confirm the target sheet exists before writing.
	spreadsheet, err := s.service.Spreadsheets.Get(s.spreadsheetID).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet info: %v", err)
	}
	sheetExists := false
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == s.sheetName {
			sheetExists = true
			break
		}
	}
	if !sheetExists {
		return fmt.Errorf("sheet %q does not exist", s.sheetName)
	}

	values := make([][]interface{}, 0, len(entries))
	for i := range entries {
		values = append(values, logRow(&entries[i]))
	}

	_, err = s.service.Spreadsheets.Values.Update(
		s.spreadsheetID,
		fmt.Sprintf("%s!A2:F%d", s.sheetName, len(values)+1),
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Do()
	if err != nil {
		return fmt.Errorf("failed to export activity logs to sheet: %v", err)
	}
	return nil
}

func logRow(entry *model.ActivityLog) []interface{} {
	return []interface{}{
		entry.CreatedAt.Format(time.RFC3339),
		entry.EventKind,
		entry.LicenseKey,
		entry.ProductName,
		entry.IPAddress,
		entry.Details,
	}
}
