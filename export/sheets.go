// Package export republishes the store to a Google spreadsheet. It only
// reads records; nothing flows back into the store.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/rustyeddy/sfx/journal"
)

const (
	DefaultBaseURL = "https://sheets.googleapis.com"
	sheetsScope    = "https://www.googleapis.com/auth/spreadsheets"
)

// Sheets writes records to one sheet of a spreadsheet.
type Sheets struct {
	SpreadsheetID string
	Sheet         string
	BaseURL       string
	Client        *http.Client
}

// NewSheets authenticates with a service account key.
func NewSheets(ctx context.Context, credentialsJSON []byte, spreadsheetID, sheet string) (*Sheets, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheetsScope)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	return &Sheets{
		SpreadsheetID: spreadsheetID,
		Sheet:         sheet,
		BaseURL:       DefaultBaseURL,
		Client:        oauth2.NewClient(ctx, creds.TokenSource),
	}, nil
}

// APIError is a non-2xx answer from the Sheets API.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sheets %s: status %d: %s", e.Op, e.Status, e.Body)
}

type valueRange struct {
	Range          string  `json:"range"`
	MajorDimension string  `json:"majorDimension"`
	Values         [][]any `json:"values"`
}

// Export clears the sheet and writes the header followed by every record.
func (s *Sheets) Export(ctx context.Context, records []journal.TradeRecord) error {
	clearURL := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:clear",
		s.BaseURL, url.PathEscape(s.SpreadsheetID), url.PathEscape(s.Sheet))
	if err := s.do(ctx, "clear", http.MethodPost, clearURL, struct{}{}); err != nil {
		return err
	}

	rng := s.Sheet + "!A1"
	body := valueRange{
		Range:          rng,
		MajorDimension: "ROWS",
		Values:         Rows(records),
	}
	updateURL := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=RAW",
		s.BaseURL, url.PathEscape(s.SpreadsheetID), url.PathEscape(rng))
	return s.do(ctx, "update", http.MethodPut, updateURL, body)
}

// Rows lays records out as sheet rows, header first. Numeric gains are
// written as numbers.
func Rows(records []journal.TradeRecord) [][]any {
	rows := make([][]any, 0, len(records)+1)

	head := make([]any, len(journal.Header))
	for i, h := range journal.Header {
		head[i] = h
	}
	rows = append(rows, head)

	for _, t := range records {
		var gain any = t.Gain.String()
		if n, ok := t.Gain.Int(); ok {
			gain = n
		}
		rows = append(rows, []any{
			t.Symbol, t.Action, gain, t.StopLoss, t.Date.Value, t.Time.Value, t.Provider,
		})
	}
	return rows
}

func (s *Sheets) do(ctx context.Context, op, method, u string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sheets %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Op: op, Status: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
