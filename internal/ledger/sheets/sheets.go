// Package sheets appends audit records to a Google Sheets spreadsheet using
// a service-account credential pair.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"wound-backend/internal/ledger"
	"wound-backend/internal/shared/metrics"
	"wound-backend/internal/shared/telemetry"
)

// Config carries the ledger addressing and credentials.
type Config struct {
	SpreadsheetID string
	Range         string
	ClientEmail   string
	PrivateKey    string
	Timeout       time.Duration
}

// Configured reports whether all required credentials/identifiers are present.
func (c Config) Configured() bool {
	return c.SpreadsheetID != "" && c.ClientEmail != "" && c.PrivateKey != ""
}

// Sink implements ledger.Sink against the Sheets v4 values.append API.
type Sink struct {
	service       *sheets.Service
	spreadsheetID string
	appendRange   string
	timeout       time.Duration
}

// New constructs a Sink, building the authenticated Sheets client once at
// process start.
func New(ctx context.Context, cfg Config) (*Sink, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("sheets ledger is not configured")
	}

	conf := &jwt.Config{
		Email: cfg.ClientEmail,
		// Deployment environments store the key with escaped newlines.
		PrivateKey: []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("build sheets service: %w", err)
	}

	appendRange := cfg.Range
	if appendRange == "" {
		appendRange = "Respuestas_IA!A:L"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Sink{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		appendRange:   appendRange,
		timeout:       timeout,
	}, nil
}

// Append inserts one new row per call. Re-invocation appends duplicate rows;
// each invocation represents one real analysis event.
func (s *Sink) Append(ctx context.Context, record ledger.Record) string {
	appendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	values := &sheets.ValueRange{
		Values: [][]interface{}{record.Row()},
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.appendRange, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(appendCtx).
		Do()
	if err != nil {
		metrics.IncLedgerAppendFailed()
		telemetry.Error("ledger.append_failed", map[string]any{
			"spreadsheet_id": s.spreadsheetID,
			"error":          err.Error(),
		})
		return ledger.FailureStatus(err)
	}
	return ledger.StatusOK
}

var _ ledger.Sink = (*Sink)(nil)
