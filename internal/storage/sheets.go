package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/thedittmer/news-search/internal/models"
)

const spreadsheetFile = "spreadsheet.json"

var ErrNoCredentials = errors.New("sheets credentials file is not configured")

type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	FolderID        string
}

type ExportResult struct {
	SpreadsheetID string
	URL           string
	Rows          int
	Error         error
}

var sheetHeader = []interface{}{
	"Company", "Rank", "Title", "Source", "Date", "Link", "Score", "Exported Date",
}

// ExportToSheets writes the ranked entries to a spreadsheet using a service
// account. Without a configured or previously saved spreadsheet ID a new one
// is created, moved into FolderID when set, and remembered in the data dir.
func (s *Storage) ExportToSheets(ctx context.Context, cfg SheetsConfig, company string, scored []models.ScoredArticle, limit int) ExportResult {
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = s.Path("credentials.json")
	}

	credentials, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return ExportResult{Error: fmt.Errorf("%w: %v", ErrNoCredentials, err)}
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentials,
		sheets.SpreadsheetsScope,
		drive.DriveFileScope,
	)
	if err != nil {
		return ExportResult{Error: fmt.Errorf("unable to parse credentials: %w", err)}
	}

	client := jwtConfig.Client(ctx)
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return ExportResult{Error: fmt.Errorf("unable to create sheets client: %w", err)}
	}

	spreadsheetID := cfg.SpreadsheetID
	if spreadsheetID == "" {
		spreadsheetID, _ = s.LoadSpreadsheetID()
	}

	if spreadsheetID == "" {
		driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
		if err != nil {
			return ExportResult{Error: fmt.Errorf("unable to create drive client: %w", err)}
		}

		spreadsheetID, err = createSpreadsheet(ctx, sheetsService, driveService, cfg.FolderID)
		if err != nil {
			return ExportResult{Error: err}
		}
		if err := s.SaveSpreadsheetID(spreadsheetID); err != nil {
			return ExportResult{Error: fmt.Errorf("failed to save spreadsheet ID: %w", err)}
		}
	}

	spreadsheet, err := sheetsService.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return ExportResult{Error: fmt.Errorf("unable to get spreadsheet: %w", err)}
	}
	if len(spreadsheet.Sheets) == 0 {
		return ExportResult{Error: fmt.Errorf("spreadsheet has no sheets")}
	}
	sheet := spreadsheet.Sheets[0].Properties

	values := SheetRows(company, Entries(scored, limit), time.Now())
	writeRange := fmt.Sprintf("%s!A1:H%d", sheet.Title, len(values))

	_, err = sheetsService.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return ExportResult{Error: fmt.Errorf("unable to update spreadsheet: %w", err)}
	}

	freeze := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        sheet.SheetId,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		}},
	}
	if _, err := sheetsService.Spreadsheets.BatchUpdate(spreadsheetID, freeze).Context(ctx).Do(); err != nil {
		return ExportResult{Error: fmt.Errorf("unable to freeze first row: %w", err)}
	}

	return ExportResult{
		SpreadsheetID: spreadsheetID,
		URL:           fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", spreadsheetID),
		Rows:          len(values) - 1,
	}
}

// SheetRows builds the header row followed by one row per entry.
func SheetRows(company string, entries []ResultEntry, exportedAt time.Time) [][]interface{} {
	values := make([][]interface{}, 0, len(entries)+1)
	values = append(values, sheetHeader)

	exported := exportedAt.Format("2006-01-02 15:04:05")
	for _, e := range entries {
		values = append(values, []interface{}{
			company,
			e.Rank,
			e.Title,
			e.Source,
			e.Date,
			e.Link,
			fmt.Sprintf("%.2f", e.Score),
			exported,
		})
	}

	return values
}

func createSpreadsheet(ctx context.Context, sheetsService *sheets.Service, driveService *drive.Service, folderID string) (string, error) {
	title := fmt.Sprintf("News Search Results - %s", time.Now().Format("2006-01-02-15-04-05"))

	spreadsheet, err := sheetsService.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: "Results"}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	if folderID != "" {
		_, err = driveService.Files.Update(spreadsheet.SpreadsheetId, nil).
			AddParents(folderID).
			Fields("id, parents").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("unable to move spreadsheet to folder %s: %w", folderID, err)
		}
	}

	return spreadsheet.SpreadsheetId, nil
}

func (s *Storage) SaveSpreadsheetID(id string) error {
	data, err := json.MarshalIndent(map[string]string{"id": id}, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling spreadsheet ID: %w", err)
	}
	return writeAtomic(s.Path(spreadsheetFile), data)
}

func (s *Storage) LoadSpreadsheetID() (string, error) {
	data, err := os.ReadFile(s.Path(spreadsheetFile))
	if err != nil {
		return "", fmt.Errorf("error reading spreadsheet ID: %w", err)
	}

	var saved map[string]string
	if err := json.Unmarshal(data, &saved); err != nil {
		return "", fmt.Errorf("error parsing spreadsheet ID: %w", err)
	}

	return saved["id"], nil
}
