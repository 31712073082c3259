// Package google implements the ledger store on a Google Sheets
// spreadsheet using service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"varlik/internal/core"
	"varlik/internal/ledger"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ledger.Store = (*Client)(nil)

// Config for the Sheets client. Exactly one of the credential fields must
// be set.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountFile string
	ServiceAccountJSON string
}

// New creates a Sheets-backed store.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(cfg.SheetName) == "" {
		return nil, errors.New("missing sheet name")
	}

	credentialsJSON, err := resolveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"spreadsheet_id", cfg.SpreadsheetID,
		"sheet", cfg.SheetName,
		"credentials_size", len(credentialsJSON))

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetName: cfg.SheetName}, nil
}

func resolveCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		return []byte(cfg.ServiceAccountJSON), nil
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		data, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

func (c *Client) LoadAll(ctx context.Context) ([]core.LedgerRow, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:E", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseValues(resp.Values)
}

func (c *Client) UpsertForDate(ctx context.Context, date core.Date, rows []core.LedgerRow) error {
	if err := ledger.CheckUpsert(date, rows); err != nil {
		return err
	}
	existing, err := c.LoadAll(ctx)
	if err != nil {
		return err
	}
	final := append(ledger.WithoutDate(existing, date), rows...)
	if err := c.rewrite(ctx, final); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Snapshot saved to Google Sheets",
		"date", date.String(), "rows", len(rows), "total_rows", len(final))
	return nil
}

func (c *Client) DeleteForDate(ctx context.Context, date core.Date) error {
	existing, err := c.LoadAll(ctx)
	if err != nil {
		return err
	}
	remaining := ledger.WithoutDate(existing, date)
	if err := c.rewrite(ctx, remaining); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Snapshot date deleted from Google Sheets",
		"date", date.String(), "remaining_rows", len(remaining))
	return nil
}

// rewrite clears the sheet and writes header plus the full row set, the
// same clear-and-append cycle the spreadsheet-side scripts use.
func (c *Client) rewrite(ctx context.Context, rows []core.LedgerRow) error {
	rng := fmt.Sprintf("%s!A:E", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}

	values := make([][]any, 0, len(rows)+1)
	header := make([]any, len(headerCells))
	for i, h := range headerCells {
		header[i] = h
	}
	values = append(values, header)
	for _, r := range rows {
		values = append(values, []any{
			r.Date.String(),
			r.Institution,
			r.TLAmount.String(),
			r.USDAmount.String(),
			r.USDRate.String(),
		})
	}

	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", c.sheetName), vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", c.sheetName, err)
	}
	return nil
}
