package replicating

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/sheets"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/pkg/a1"
)

const (
	statusRunning = "⏱️ Em execução..."
	statusLayout  = "Atualizado em: 02/01/2006 15:04:05"
)

// EsteiraResult resume uma réplica BD_Carteira -> Base_Esteira
type EsteiraResult struct {
	Rows     int
	Columns  int
	Chunks   int
	Duration time.Duration
}

// EsteiraReplicator copia A:AN da aba de origem (cabeçalho na linha 3) para a aba de
// destino a partir de A2, preservando os valores nativos.
type EsteiraReplicator struct {
	cfg    *config.Config
	sheets sheets.SheetsIntegrator
	now    func() time.Time
}

func NewEsteiraReplicator(cfg *config.Config, sheetsService sheets.SheetsIntegrator) *EsteiraReplicator {
	return &EsteiraReplicator{
		cfg:    cfg,
		sheets: sheetsService,
		now:    time.Now,
	}
}

func (r *EsteiraReplicator) Run(ctx context.Context) (*EsteiraResult, error) {
	t0 := r.now()
	c := r.cfg.Esteira

	log := logrus.WithFields(logrus.Fields{
		"origem":  c.SourceSpreadsheetID + " › " + c.SourceSheet,
		"destino": c.DestSpreadsheetID + " › " + c.DestSheet,
	})
	log.Info("Iniciando réplica da esteira")

	r.setStatus(ctx, statusRunning)

	header, data, err := r.read(ctx)
	if err != nil {
		return nil, err
	}

	result := &EsteiraResult{Rows: len(data), Columns: len(header)}
	log.WithFields(logrus.Fields{
		"linhas":  len(data),
		"colunas": len(header),
		"leitura": r.now().Sub(t0).Round(time.Millisecond).String(),
	}).Info("Origem lida")

	columns := a1.Columns(c.FirstColumn, c.LastColumn)
	destColumns := a1.WithSheet(c.DestSheet, columns)

	if len(header) == 0 && len(data) == 0 {
		log.Warn("Nada para copiar. Limpando destino e finalizando com timestamp")
		if err := r.sheets.ClearRanges(ctx, c.DestSpreadsheetID, destColumns); err != nil {
			return nil, NewReplicationError(ErrClearDest, c.DestSpreadsheetID, destColumns, err)
		}
		r.setStatus(ctx, r.now().In(r.cfg.Location()).Format(statusLayout))
		result.Duration = r.now().Sub(t0)
		return result, nil
	}

	if err := r.clear(ctx, destColumns); err != nil {
		return nil, err
	}

	if len(header) > 0 {
		rng := a1.WithSheet(c.DestSheet, fmt.Sprintf("%s%d:%s%d", c.FirstColumn, c.DestHeaderRow, c.LastColumn, c.DestHeaderRow))
		if err := r.sheets.UpdateValues(ctx, c.DestSpreadsheetID, rng, [][]any{header}); err != nil {
			return nil, NewReplicationError(ErrWriteDest, c.DestSpreadsheetID, rng, err)
		}
		log.WithField("intervalo", rng).Info("Cabeçalho gravado")
	}

	if len(data) > 0 {
		chunks, err := r.writeData(ctx, data)
		result.Chunks = len(chunks)
		if err != nil {
			return nil, err
		}
	}

	r.setStatus(ctx, r.now().In(r.cfg.Location()).Format(statusLayout))

	result.Duration = r.now().Sub(t0)
	log.WithField("total", result.Duration.Round(time.Millisecond).String()).Info("Réplica da esteira concluída")

	return result, nil
}

// read lê o cabeçalho e os dados da origem, remove linhas vazias ao final e ajusta a largura
func (r *EsteiraReplicator) read(ctx context.Context) ([]any, [][]any, error) {
	c := r.cfg.Esteira

	headerRange := a1.WithSheet(c.SourceSheet, fmt.Sprintf("%s%d:%s%d", c.FirstColumn, c.HeaderRow, c.LastColumn, c.HeaderRow))
	headerRows, err := r.sheets.GetValues(ctx, c.SourceSpreadsheetID, headerRange)
	if err != nil {
		return nil, nil, NewReplicationError(ErrReadSource, c.SourceSpreadsheetID, headerRange, err)
	}

	var header []any
	if len(headerRows) > 0 {
		header = headerRows[0]
	}

	dataRange := a1.WithSheet(c.SourceSheet, fmt.Sprintf("%s%d:%s", c.FirstColumn, c.HeaderRow+1, c.LastColumn))
	data, err := r.sheets.GetValues(ctx, c.SourceSpreadsheetID, dataRange)
	if err != nil {
		return nil, nil, NewReplicationError(ErrReadSource, c.SourceSpreadsheetID, dataRange, err)
	}

	data = trimTrailingEmptyRows(data)
	if len(header) > 0 {
		data = normalizeWidth(data, len(header))
	}

	return header, data, nil
}

// clear limpa as colunas do destino; se falhar, limpa a aba inteira
func (r *EsteiraReplicator) clear(ctx context.Context, destColumns string) error {
	c := r.cfg.Esteira

	err := r.sheets.ClearRanges(ctx, c.DestSpreadsheetID, destColumns)
	if err == nil {
		return nil
	}

	logrus.WithError(err).Warn("Limpeza por intervalo falhou, limpando a aba inteira")
	if err := r.sheets.ClearSheet(ctx, c.DestSpreadsheetID, c.DestSheet); err != nil {
		return NewReplicationError(ErrClearDest, c.DestSpreadsheetID, c.DestSheet, err)
	}
	return nil
}

func (r *EsteiraReplicator) writeData(ctx context.Context, data [][]any) ([]Chunk, error) {
	c := r.cfg.Esteira
	total := len(data)
	started := r.now()
	done := 0

	logrus.WithFields(logrus.Fields{
		"linhas": total,
		"bloco":  c.ChunkRows,
	}).Info("Gravando dados em blocos")

	writer := NewChunkedWriter(r.sheets, c.DestSpreadsheetID, c.DestSheet, c.ChunkRows).
		OnChunk(func(chunk Chunk, elapsed time.Duration) {
			done += chunk.Len()
			rate, eta := progress(done, total, r.now().Sub(started))

			logrus.WithFields(logrus.Fields{
				"intervalo":  chunk.Range,
				"linhas":     chunk.Len(),
				"tempo":      elapsed.Round(time.Millisecond).String(),
				"progresso":  strconv.Itoa(done) + "/" + strconv.Itoa(total),
				"velocidade": fmt.Sprintf("%.1f l/s", rate),
				"eta":        eta.Round(100 * time.Millisecond).String(),
			}).Info("Bloco gravado")
		})

	return writer.Write(ctx, c.FirstColumn, c.DestHeaderRow+1, c.LastColumn, data)
}

// setStatus escreve na célula de status sem interromper a réplica em caso de falha
func (r *EsteiraReplicator) setStatus(ctx context.Context, text string) {
	c := r.cfg.Esteira
	rng := a1.WithSheet(c.DestSheet, c.StatusCell)

	if err := r.sheets.UpdateValues(ctx, c.DestSpreadsheetID, rng, [][]any{{text}}); err != nil {
		logrus.WithError(err).WithField("celula", rng).Warn("Falha ao escrever status")
	}
}

// progress calcula linhas por segundo e o tempo restante estimado
func progress(done, total int, elapsed time.Duration) (float64, time.Duration) {
	if elapsed <= 0 || done <= 0 {
		return 0, 0
	}

	rate := float64(done) / elapsed.Seconds()
	remaining := float64(total-done) / rate
	return rate, time.Duration(remaining * float64(time.Second))
}

func trimTrailingEmptyRows(rows [][]any) [][]any {
	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func isEmptyRow(row []any) bool {
	for _, v := range row {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return false
	}
	return true
}

// normalizeWidth completa com "" ou corta cada linha para ter width células
func normalizeWidth(rows [][]any, width int) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		fitted := make([]any, width)
		n := copy(fitted, row)
		for j := n; j < width; j++ {
			fitted[j] = ""
		}
		out[i] = fitted
	}
	return out
}
