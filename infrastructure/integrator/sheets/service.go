package sheets

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	gsheets "google.golang.org/api/sheets/v4"

	sheetsdomain "github.com/vfg2006/oea-pipeline/infrastructure/integrator/sheets/domain"
	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/sheets/sheetsclient"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/pkg/a1"
)

type SheetsIntegrator interface {
	GetValues(ctx context.Context, spreadsheetID, rng string) ([][]any, error)
	GetDisplayValues(ctx context.Context, spreadsheetID, rng string) ([][]any, error)
	UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any) error
	ClearRanges(ctx context.Context, spreadsheetID string, ranges ...string) error
	ClearSheet(ctx context.Context, spreadsheetID, sheet string) error
	GetSheet(ctx context.Context, spreadsheetID, title string) (*sheetsdomain.Sheet, error)
	AddSheet(ctx context.Context, spreadsheetID, title string, rows, cols int64) (*sheetsdomain.Sheet, error)
	AppendRows(ctx context.Context, spreadsheetID string, sheetID, rows int64) error
	FormatColumnsAsDate(ctx context.Context, spreadsheetID string, sheetID int64, columns []int, pattern string) error
}

type SheetsService struct {
	cfg    *config.Config
	Client sheetsclient.Client
}

func New(cfg *config.Config, client sheetsclient.Client) SheetsIntegrator {
	return &SheetsService{
		cfg:    cfg,
		Client: client,
	}
}

// GetValues lê valores nativos: números como números e datas como serial
func (s *SheetsService) GetValues(ctx context.Context, spreadsheetID, rng string) ([][]any, error) {
	resp, err := s.Client.GetValues(ctx, spreadsheetID, rng, sheetsdomain.RenderUnformatted, sheetsdomain.DateTimeSerialNumber)
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// GetDisplayValues lê os valores como aparecem na planilha
func (s *SheetsService) GetDisplayValues(ctx context.Context, spreadsheetID, rng string) ([][]any, error) {
	resp, err := s.Client.GetValues(ctx, spreadsheetID, rng, sheetsdomain.RenderFormatted, "")
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (s *SheetsService) UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	if len(values) == 0 {
		return nil
	}
	return s.Client.UpdateValues(ctx, spreadsheetID, rng, values, sheetsdomain.ValueInputRaw)
}

func (s *SheetsService) ClearRanges(ctx context.Context, spreadsheetID string, ranges ...string) error {
	return s.Client.BatchClear(ctx, spreadsheetID, ranges)
}

// ClearSheet limpa todo o conteúdo da aba
func (s *SheetsService) ClearSheet(ctx context.Context, spreadsheetID, sheet string) error {
	return s.Client.Clear(ctx, spreadsheetID, a1.QuoteSheet(sheet))
}

// GetSheet retorna a aba pelo título ou ErrSheetNotFound
func (s *SheetsService) GetSheet(ctx context.Context, spreadsheetID, title string) (*sheetsdomain.Sheet, error) {
	spreadsheet, err := s.Client.GetSpreadsheet(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}

	for _, sh := range spreadsheet.Sheets {
		if sh.Properties == nil || sh.Properties.Title != title {
			continue
		}
		return toSheet(sh.Properties), nil
	}

	return nil, fmt.Errorf("%w: %s", sheetsdomain.ErrSheetNotFound, title)
}

func (s *SheetsService) AddSheet(ctx context.Context, spreadsheetID, title string, rows, cols int64) (*sheetsdomain.Sheet, error) {
	resp, err := s.Client.BatchUpdate(ctx, spreadsheetID, []*gsheets.Request{
		{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{
					Title: title,
					GridProperties: &gsheets.GridProperties{
						RowCount:    rows,
						ColumnCount: cols,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"planilha": spreadsheetID,
		"aba":      title,
	}).Info("Aba criada")

	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		return toSheet(resp.Replies[0].AddSheet.Properties), nil
	}

	return &sheetsdomain.Sheet{Title: title, RowCount: rows, ColumnCount: cols}, nil
}

func (s *SheetsService) AppendRows(ctx context.Context, spreadsheetID string, sheetID, rows int64) error {
	if rows <= 0 {
		return nil
	}

	_, err := s.Client.BatchUpdate(ctx, spreadsheetID, []*gsheets.Request{
		{
			AppendDimension: &gsheets.AppendDimensionRequest{
				SheetId:         sheetID,
				Dimension:       "ROWS",
				Length:          rows,
				ForceSendFields: []string{"SheetId"},
			},
		},
	})
	return err
}

// FormatColumnsAsDate aplica formato de data às colunas inteiras (1-based)
func (s *SheetsService) FormatColumnsAsDate(ctx context.Context, spreadsheetID string, sheetID int64, columns []int, pattern string) error {
	if len(columns) == 0 {
		return nil
	}

	requests := make([]*gsheets.Request, 0, len(columns))
	for _, col := range columns {
		requests = append(requests, &gsheets.Request{
			RepeatCell: &gsheets.RepeatCellRequest{
				Range: &gsheets.GridRange{
					SheetId:          sheetID,
					StartColumnIndex: int64(col - 1),
					EndColumnIndex:   int64(col),
					ForceSendFields:  []string{"SheetId", "StartColumnIndex"},
				},
				Cell: &gsheets.CellData{
					UserEnteredFormat: &gsheets.CellFormat{
						NumberFormat: &gsheets.NumberFormat{
							Type:    "DATE",
							Pattern: pattern,
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		})
	}

	_, err := s.Client.BatchUpdate(ctx, spreadsheetID, requests)
	return err
}

func toSheet(p *gsheets.SheetProperties) *sheetsdomain.Sheet {
	sh := &sheetsdomain.Sheet{
		ID:    p.SheetId,
		Title: p.Title,
	}
	if p.GridProperties != nil {
		sh.RowCount = p.GridProperties.RowCount
		sh.ColumnCount = p.GridProperties.ColumnCount
	}
	return sh
}
