package replicating

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/oea-pipeline/pkg/a1"
)

// GridWriter grava um bloco de valores em um intervalo A1
type GridWriter interface {
	UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

// Chunk é um bloco de linhas contíguas e o intervalo onde ele será gravado
type Chunk struct {
	Index    int
	Total    int
	Start    int // posição da primeira linha em rows
	End      int // posição após a última linha em rows
	FirstRow int
	LastRow  int
	Range    string
}

func (c Chunk) Len() int {
	return c.End - c.Start
}

// PlanChunks divide rows em blocos de até size linhas a partir de startCol/startRow.
// Sem endCol, a última coluna de cada bloco vem da largura da primeira linha do bloco.
func PlanChunks(startCol string, startRow int, endCol string, rows [][]any, size int) ([]Chunk, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunk, size)
	}

	first := a1.ColumnIndex(startCol)
	if first == 0 || startRow < 1 {
		return nil, fmt.Errorf("%w: %s%d", ErrInvalidAnchor, startCol, startRow)
	}

	total := (len(rows) + size - 1) / size
	chunks := make([]Chunk, 0, total)

	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))

		last := endCol
		if last == "" {
			width := max(len(rows[start]), 1)
			last = a1.ColumnLetters(first + width - 1)
		}

		r0 := startRow + start
		r1 := startRow + end - 1
		chunks = append(chunks, Chunk{
			Index:    len(chunks) + 1,
			Total:    total,
			Start:    start,
			End:      end,
			FirstRow: r0,
			LastRow:  r1,
			Range:    fmt.Sprintf("%s%d:%s%d", startCol, r0, last, r1),
		})
	}

	return chunks, nil
}

// ChunkedWriter grava uma grade em blocos sequenciais, cada um com seu próprio retry
type ChunkedWriter struct {
	writer        GridWriter
	spreadsheetID string
	sheet         string
	size          int
	onChunk       func(c Chunk, elapsed time.Duration)
}

func NewChunkedWriter(writer GridWriter, spreadsheetID, sheet string, size int) *ChunkedWriter {
	return &ChunkedWriter{
		writer:        writer,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
		size:          size,
	}
}

// OnChunk registra um callback chamado após cada bloco gravado
func (w *ChunkedWriter) OnChunk(fn func(c Chunk, elapsed time.Duration)) *ChunkedWriter {
	w.onChunk = fn
	return w
}

// Write grava rows a partir de startCol/startRow e retorna os blocos gravados
func (w *ChunkedWriter) Write(ctx context.Context, startCol string, startRow int, endCol string, rows [][]any) ([]Chunk, error) {
	chunks, err := PlanChunks(startCol, startRow, endCol, rows, w.size)
	if err != nil {
		return nil, err
	}

	for i, c := range chunks {
		rng := a1.WithSheet(w.sheet, c.Range)

		t0 := time.Now()
		if err := w.writer.UpdateValues(ctx, w.spreadsheetID, rng, rows[c.Start:c.End]); err != nil {
			return chunks[:i], NewReplicationError(ErrWriteDest, w.spreadsheetID, rng, err)
		}

		if w.onChunk != nil {
			w.onChunk(c, time.Since(t0))
		}
	}

	return chunks, nil
}
