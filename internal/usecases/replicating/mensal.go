package replicating

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/drive"
	drivedomain "github.com/vfg2006/oea-pipeline/infrastructure/integrator/drive/domain"
	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/sheets"
	sheetsdomain "github.com/vfg2006/oea-pipeline/infrastructure/integrator/sheets/domain"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/internal/domain"
	"github.com/vfg2006/oea-pipeline/pkg/a1"
	"github.com/vfg2006/oea-pipeline/pkg/utils"
)

const (
	summaryLayout = "02/01/2006 15:04"
	summaryRows   = 10
	summaryCols   = 5
	newSheetRows  = 10
)

// MensalResult resume uma réplica Historico_Mensal.csv -> BD_Mensal
type MensalResult struct {
	FileID         string
	Rows           int
	Columns        int
	DateColumns    []int
	NumberColumns  []int
	SummaryWritten bool
}

// MensalReplicator cola o CSV mensal na aba de destino e converte apenas as colunas
// configuradas de data e número.
type MensalReplicator struct {
	cfg    *config.Config
	drive  drive.DriveIntegrator
	sheets sheets.SheetsIntegrator
	now    func() time.Time
}

func NewMensalReplicator(cfg *config.Config, driveService drive.DriveIntegrator, sheetsService sheets.SheetsIntegrator) *MensalReplicator {
	return &MensalReplicator{
		cfg:    cfg,
		drive:  driveService,
		sheets: sheetsService,
		now:    time.Now,
	}
}

func (r *MensalReplicator) Run(ctx context.Context) (*MensalResult, error) {
	c := r.cfg.BDMensal

	logrus.WithFields(logrus.Fields{
		"pasta":   c.FolderID,
		"arquivo": c.CSVName,
	}).Info("Buscando CSV mensal na pasta do Drive")

	file, err := r.drive.FindLatest(ctx, c.FolderID, c.CSVName, drivedomain.MimeCSV)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("%w: %s", ErrCSVNotFound, c.CSVName)
	}

	logrus.WithFields(logrus.Fields{
		"id":              file.ID,
		"ultima_alteracao": file.ModifiedTime.Format(time.RFC3339),
	}).Info("Arquivo encontrado")

	content, err := r.drive.Download(ctx, file.ID)
	if err != nil {
		return nil, err
	}
	logrus.WithField("bytes", len(content)).Info("CSV baixado")

	tbl, err := parseMonthlyCSV(content)
	if err != nil {
		return nil, err
	}
	tbl.Truncate(c.MaxColumns)

	result := &MensalResult{FileID: file.ID, Rows: tbl.Len(), Columns: tbl.Width()}
	logrus.WithFields(logrus.Fields{
		"linhas":  tbl.Len(),
		"colunas": tbl.Width(),
	}).Info("CSV lido")

	sheet, err := r.openDest(ctx)
	if err != nil {
		return nil, err
	}

	lastCol := a1.ColumnLetters(c.MaxColumns)
	clearRange := a1.WithSheet(c.DestSheet, a1.Columns("A", lastCol))
	if err := r.sheets.ClearRanges(ctx, c.DestSpreadsheetID, clearRange); err != nil {
		return nil, NewReplicationError(ErrClearDest, c.DestSpreadsheetID, clearRange, err)
	}

	// cabeçalho + linhas
	totalRows := tbl.Len() + 1
	if err := r.ensureRows(ctx, sheet, max(totalRows, c.MinRows)); err != nil {
		return nil, err
	}

	grid := make([][]any, 0, totalRows)
	grid = append(grid, toAny(tbl.Header))
	for _, row := range tbl.Rows {
		grid = append(grid, toAny(row))
	}

	logrus.WithField("linhas", totalRows).Info("Colando conteúdo")
	writer := NewChunkedWriter(r.sheets, c.DestSpreadsheetID, c.DestSheet, c.ChunkRows).
		OnChunk(func(chunk Chunk, _ time.Duration) {
			logrus.WithField("linhas", fmt.Sprintf("%d–%d", chunk.FirstRow, chunk.LastRow)).Info("Bloco colado")
		})
	if _, err := writer.Write(ctx, "A", 1, "", grid); err != nil {
		return nil, err
	}

	if tbl.Empty() {
		logrus.Info("Sem linhas de dados, nada para converter")
		result.SummaryWritten = r.writeSummary(ctx)
		return result, nil
	}

	result.DateColumns, err = r.convertColumns(ctx, tbl, c.DateColumns, utils.CoerceDate)
	if err != nil {
		return nil, err
	}

	result.NumberColumns, err = r.convertColumns(ctx, tbl, c.NumberColumns, utils.CoerceNumber)
	if err != nil {
		return nil, err
	}

	if len(result.DateColumns) > 0 {
		if err := r.sheets.FormatColumnsAsDate(ctx, c.DestSpreadsheetID, sheet.ID, result.DateColumns, c.DateFormat); err != nil {
			logrus.WithError(err).Warn("Não foi possível aplicar a formatação de data")
		}
	}

	result.SummaryWritten = r.writeSummary(ctx)

	logrus.WithFields(logrus.Fields{
		"colunas_data":   result.DateColumns,
		"colunas_numero": result.NumberColumns,
	}).Info("Réplica do BD mensal concluída")

	return result, nil
}

// openDest abre a aba de destino, criando-a se não existir
func (r *MensalReplicator) openDest(ctx context.Context) (*sheetsdomain.Sheet, error) {
	c := r.cfg.BDMensal

	sheet, err := r.sheets.GetSheet(ctx, c.DestSpreadsheetID, c.DestSheet)
	if err == nil {
		return sheet, nil
	}
	if !errors.Is(err, sheetsdomain.ErrSheetNotFound) {
		return nil, NewReplicationError(ErrOpenDest, c.DestSpreadsheetID, c.DestSheet, err)
	}

	logrus.WithField("aba", c.DestSheet).Info("Aba não existe, criando")
	sheet, err = r.sheets.AddSheet(ctx, c.DestSpreadsheetID, c.DestSheet, newSheetRows, int64(c.MaxColumns))
	if err != nil {
		return nil, NewReplicationError(ErrOpenDest, c.DestSpreadsheetID, c.DestSheet, err)
	}
	return sheet, nil
}

func (r *MensalReplicator) ensureRows(ctx context.Context, sheet *sheetsdomain.Sheet, required int) error {
	missing := int64(required) - sheet.RowCount
	if missing <= 0 {
		return nil
	}

	c := r.cfg.BDMensal
	if err := r.sheets.AppendRows(ctx, c.DestSpreadsheetID, sheet.ID, missing); err != nil {
		return NewReplicationError(ErrWriteDest, c.DestSpreadsheetID, c.DestSheet, err)
	}
	sheet.RowCount += missing
	return nil
}

// convertColumns reescreve, a partir da linha 2, cada coluna (1-based) com os valores
// convertidos. Valores que não convertem são mantidos. Retorna as colunas convertidas.
func (r *MensalReplicator) convertColumns(ctx context.Context, tbl *domain.Table, columns []int, convert func(any) any) ([]int, error) {
	c := r.cfg.BDMensal

	sorted := slices.Clone(columns)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var converted []int
	for _, col := range sorted {
		if col < 1 || col > tbl.Width() {
			continue
		}

		values := make([][]any, tbl.Len())
		for i, row := range tbl.Rows {
			values[i] = []any{convert(row[col-1])}
		}

		letter := a1.ColumnLetters(col)
		writer := NewChunkedWriter(r.sheets, c.DestSpreadsheetID, c.DestSheet, c.ChunkRows)
		if _, err := writer.Write(ctx, letter, 2, letter, values); err != nil {
			return converted, err
		}

		logrus.WithField("coluna", letter).Info("Coluna convertida onde possível")
		converted = append(converted, col)
	}

	return converted, nil
}

// writeSummary grava data e hora da atualização na aba de resumo, criando-a se preciso.
// Falhas são apenas registradas.
func (r *MensalReplicator) writeSummary(ctx context.Context) bool {
	c := r.cfg.BDMensal
	ts := r.now().In(r.cfg.Location()).Format(summaryLayout)
	log := logrus.WithField("celula", c.SummarySheet+"!"+c.SummaryCell)

	if _, err := r.sheets.GetSheet(ctx, c.DestSpreadsheetID, c.SummarySheet); err != nil {
		if !errors.Is(err, sheetsdomain.ErrSheetNotFound) {
			log.WithError(err).Warn("Não foi possível atualizar o resumo")
			return false
		}
		if _, err := r.sheets.AddSheet(ctx, c.DestSpreadsheetID, c.SummarySheet, summaryRows, summaryCols); err != nil {
			log.WithError(err).Warn("Não foi possível criar a aba de resumo")
			return false
		}
	}

	rng := a1.WithSheet(c.SummarySheet, c.SummaryCell)
	if err := r.sheets.UpdateValues(ctx, c.DestSpreadsheetID, rng, [][]any{{ts}}); err != nil {
		log.WithError(err).Warn("Não foi possível atualizar o resumo")
		return false
	}

	log.WithField("valor", ts).Info("Resumo atualizado")
	return true
}

// parseMonthlyCSV lê o CSV com o separador detectado. Se falhar ou resultar em uma
// coluna só, tenta ';' e depois ','. Todas as células ficam como texto.
func parseMonthlyCSV(content []byte) (*domain.Table, error) {
	records, err := utils.ReadCSV(content, utils.SniffDelimiter(content))
	if err != nil || width(records) == 1 {
		records = nil
		for _, sep := range []rune{';', ','} {
			tmp, err := utils.ReadCSV(content, sep)
			if err != nil {
				continue
			}
			if width(tmp) == 1 && sep == ';' {
				continue
			}
			records = tmp
			break
		}
	}

	if len(records) == 0 {
		return nil, ErrCSVUnreadable
	}

	tbl := &domain.Table{Header: records[0]}
	for _, rec := range records[1:] {
		tbl.AppendRow(rec)
	}
	return tbl, nil
}

func width(records [][]string) int {
	if len(records) == 0 {
		return 0
	}
	return len(records[0])
}

func toAny(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
