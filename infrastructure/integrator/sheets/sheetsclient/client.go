package sheetsclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"

	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/googleauth"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/pkg/retry"
)

const spreadsheetFields = "sheets(properties(sheetId,title,gridProperties(rowCount,columnCount)))"

type Client interface {
	GetValues(ctx context.Context, spreadsheetID, rng, valueRender, dateRender string) (*sheets.ValueRange, error)
	UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any, inputOption string) error
	BatchClear(ctx context.Context, spreadsheetID string, ranges []string) error
	Clear(ctx context.Context, spreadsheetID, rng string) error
	GetSpreadsheet(ctx context.Context, spreadsheetID string) (*sheets.Spreadsheet, error)
	BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error)
}

type SheetsClient struct {
	service *sheets.Service
	limiter *rate.Limiter
	retrier *retry.Retrier
	timeout time.Duration
}

// NewClient cria o cliente do Sheets autenticado com a conta de serviço
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	opts, err := googleauth.ClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar cliente do Sheets")
	}

	return NewClientWithService(cfg, service), nil
}

func NewClientWithService(cfg *config.Config, service *sheets.Service) Client {
	limit := rate.Inf
	if interval := googleauth.RequestInterval(cfg.Google.RequestsPerMinute); interval > 0 {
		limit = rate.Every(interval)
	}

	return &SheetsClient{
		service: service,
		limiter: rate.NewLimiter(limit, 1),
		retrier: retry.New(
			retry.Policy{MaxAttempts: cfg.API.MaxRetries, BaseDelay: cfg.APIBaseSleep()},
			retry.WithLogger(logrus.WithField("servico", "sheets")),
		),
		timeout: cfg.RequestTimeout(),
	}
}

func (c *SheetsClient) call(ctx context.Context, desc string, fn func(ctx context.Context) error) error {
	return c.retrier.Do(ctx, desc, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}

		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		return fn(ctx)
	})
}

func (c *SheetsClient) GetValues(ctx context.Context, spreadsheetID, rng, valueRender, dateRender string) (*sheets.ValueRange, error) {
	var out *sheets.ValueRange

	err := c.call(ctx, fmt.Sprintf("leitura %s", rng), func(ctx context.Context) error {
		call := c.service.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx)
		if valueRender != "" {
			call = call.ValueRenderOption(valueRender)
		}
		if dateRender != "" {
			call = call.DateTimeRenderOption(dateRender)
		}

		resp, err := call.Do()
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler %s", rng)
	}

	return out, nil
}

func (c *SheetsClient) UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any, inputOption string) error {
	body := &sheets.ValueRange{
		Range:          rng,
		MajorDimension: "ROWS",
		Values:         values,
	}

	err := c.call(ctx, fmt.Sprintf("update %s", rng), func(ctx context.Context) error {
		_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, rng, body).
			ValueInputOption(inputOption).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "erro ao gravar %s", rng)
	}

	return nil
}

func (c *SheetsClient) BatchClear(ctx context.Context, spreadsheetID string, ranges []string) error {
	desc := fmt.Sprintf("limpeza %s", strings.Join(ranges, ","))

	err := c.call(ctx, desc, func(ctx context.Context) error {
		_, err := c.service.Spreadsheets.Values.BatchClear(spreadsheetID, &sheets.BatchClearValuesRequest{Ranges: ranges}).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return errors.Wrap(err, desc)
	}

	return nil
}

func (c *SheetsClient) Clear(ctx context.Context, spreadsheetID, rng string) error {
	err := c.call(ctx, fmt.Sprintf("limpeza %s", rng), func(ctx context.Context) error {
		_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "erro ao limpar %s", rng)
	}

	return nil
}

func (c *SheetsClient) GetSpreadsheet(ctx context.Context, spreadsheetID string) (*sheets.Spreadsheet, error) {
	var out *sheets.Spreadsheet

	err := c.call(ctx, fmt.Sprintf("abrir planilha %s", spreadsheetID), func(ctx context.Context) error {
		resp, err := c.service.Spreadsheets.Get(spreadsheetID).
			Fields(googleapi.Field(spreadsheetFields)).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao abrir planilha %s", spreadsheetID)
	}

	return out, nil
}

func (c *SheetsClient) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	var out *sheets.BatchUpdateSpreadsheetResponse

	err := c.call(ctx, "batchUpdate", func(ctx context.Context) error {
		resp, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "erro no batchUpdate")
	}

	return out, nil
}
