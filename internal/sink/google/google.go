// Package google appends expenses as rows of a Google Sheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"expensepad/internal/core"
	"expensepad/internal/sink"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Columns written for each expense, in order.
var Columns = []string{"Date", "Category", "Subcategory", "Description", "Quantity", "Unit Price", "Recipient", "Total", "ID"}

// Config selects the spreadsheet and service-account credentials.
type Config struct {
	SpreadsheetID string
	// SheetName defaults to "Expenses".
	SheetName string
	// CredentialsJSON takes precedence over CredentialsFile.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ sink.Sender = (*Client)(nil)

// New creates a Sheets client. With an empty SpreadsheetID no service is
// built and every Send reports NotConfigured. Extra client options (endpoint,
// HTTP client) replace the credential lookup when given.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	c := &Client{
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		sheetName:     strings.TrimSpace(cfg.SheetName),
	}
	if c.sheetName == "" {
		c.sheetName = "Expenses"
	}
	if c.spreadsheetID == "" {
		slog.InfoContext(ctx, "Google Sheets sink disabled - no spreadsheet id")
		return c, nil
	}

	if len(opts) == 0 {
		credentialsJSON, err := readCredentials(cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(credentialsJSON),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	c.svc = svc

	slog.InfoContext(ctx, "Google Sheets sink ready", "spreadsheet_id", c.spreadsheetID, "sheet", c.sheetName)
	return c, nil
}

func readCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// Row converts an expense to the cell values appended to the sheet.
func Row(e core.Expense) []any {
	return []any{
		e.Date.String(),
		e.Category,
		e.Subcategory,
		e.Description,
		e.Quantity,
		e.UnitPrice,
		e.Recipient,
		e.TotalAmount,
		e.ID,
	}
}

// Send appends one row after the last filled row of the sheet.
func (c *Client) Send(ctx context.Context, e core.Expense) error {
	if c.spreadsheetID == "" || c.svc == nil {
		return sink.Unconfigured("spreadsheet id")
	}

	rng := fmt.Sprintf("%s!A:I", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{Row(e)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return sink.Transport(fmt.Errorf("append to %s: %w", c.sheetName, err))
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Expense appended to Google Sheets", "id", e.ID, "sheets_ref", ref)
	return nil
}
