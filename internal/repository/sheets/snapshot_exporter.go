package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/poultrypms/internal/config"
	"github.com/mamadbah2/poultrypms/internal/domain/models"
)

const (
	snapshotRange = "Ledger!A:J"
	dateLayout    = "2006-01-02"
)

// Exporter mirrors daily ledger snapshots into an external spreadsheet for
// the farm owner.
type Exporter interface {
	AppendSnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.ExportConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSnapshot appends one row per snapshot: date, stock per feed type in a
// fixed column order, egg stock, then the day's money columns.
func (e *GoogleSheetExporter) AppendSnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	stockByType := make(map[models.FeedType]float64, len(snapshot.FeedStocks))
	for _, level := range snapshot.FeedStocks {
		stockByType[level.FeedType] = level.Quantity
	}

	row := []interface{}{snapshot.Date.Format(dateLayout)}
	for _, ft := range models.FeedTypes {
		row = append(row, stockByType[ft])
	}
	row = append(row, snapshot.EggStock, snapshot.Revenue, snapshot.Expenses, snapshot.NetProfit)

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}
	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, snapshotRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot row: %w", err)
	}

	e.logger.Debug("snapshot appended to sheet", zap.String("date", snapshot.Date.Format(dateLayout)))
	return nil
}
