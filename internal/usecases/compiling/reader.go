package compiling

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	drivedomain "github.com/vfg2006/oea-pipeline/infrastructure/integrator/drive/domain"
	"github.com/vfg2006/oea-pipeline/internal/domain"
	"github.com/vfg2006/oea-pipeline/pkg/a1"
	"github.com/vfg2006/oea-pipeline/pkg/utils"
)

// loadMonthFile lê o arquivo conforme o tipo: planilha Google, Excel ou CSV
func (s *Service) loadMonthFile(ctx context.Context, f drivedomain.File) (*domain.Table, error) {
	switch {
	case f.IsSpreadsheet():
		if tab := s.cfg.Compilar.SheetTabName; tab != "" {
			values, err := s.sheets.GetDisplayValues(ctx, f.ID, a1.QuoteSheet(tab))
			if err != nil {
				return nil, err
			}
			return tableFromValues(values), nil
		}

		content, err := s.drive.ExportCSV(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		return parseCSV(content, ',')

	case f.MimeType == drivedomain.MimeXLS:
		return nil, ErrUnsupportedXLS

	case f.IsExcel():
		content, err := s.drive.Download(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		return parseXLSX(content)

	default:
		content, err := s.drive.Download(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		return parseCSVWithFallback(content)
	}
}

// parseCSVWithFallback tenta ',' e, se falhar ou resultar em uma coluna só, ';'
func parseCSVWithFallback(content []byte) (*domain.Table, error) {
	tbl, err := parseCSV(content, ',')
	if err == nil && tbl.Width() > 1 {
		return tbl, nil
	}

	alt, altErr := parseCSV(content, ';')
	if altErr != nil {
		if err == nil {
			return tbl, nil
		}
		return nil, altErr
	}
	return alt, nil
}

func parseCSV(content []byte, sep rune) (*domain.Table, error) {
	records, err := utils.ReadCSV(content, sep)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	return tableFromRecords(records), nil
}

// parseXLSX lê a primeira aba da pasta de trabalho
func parseXLSX(content []byte) (*domain.Table, error) {
	book, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return &domain.Table{}, nil
	}

	rows, err := book.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}

	conv := newXLSXDateConverter(book, sheets[0])
	for r := 1; r < len(rows); r++ {
		for c, v := range rows[r] {
			rows[r][c] = conv.convert(r, c, v)
		}
	}
	return tableFromRecords(rows), nil
}

// Formatos nativos de data e hora do Excel (numFmtId)
var (
	xlsxDateFormats = map[int]bool{
		14: true, 15: true, 16: true, 17: true, 22: true,
		27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
		50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
	}
	xlsxTimeFormats = map[int]bool{18: true, 19: true, 20: true, 21: true, 45: true, 46: true, 47: true}
)

var customFmtLiterals = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

const (
	xlsxDateTimeLayout = "2006-01-02 15:04:05"
	xlsxTimeLayout     = "15:04:05"
)

// xlsxDateConverter troca o serial das células com estilo de data pelo texto
// "YYYY-MM-DD HH:MM:SS", que é como a data chega das demais fontes.
type xlsxDateConverter struct {
	book     *excelize.File
	sheet    string
	date1904 bool
	layouts  map[int]string
}

func newXLSXDateConverter(book *excelize.File, sheet string) *xlsxDateConverter {
	conv := &xlsxDateConverter{book: book, sheet: sheet, layouts: map[int]string{}}
	if props, err := book.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		conv.date1904 = *props.Date1904
	}
	return conv
}

// convert recebe linha e coluna 0-based
func (x *xlsxDateConverter) convert(row, col int, value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return value
	}
	styleID, err := x.book.GetCellStyle(x.sheet, cell)
	if err != nil {
		return value
	}

	layout := x.layoutFor(styleID)
	if layout == "" {
		return value
	}

	t, err := excelize.ExcelDateToTime(serial, x.date1904)
	if err != nil {
		return value
	}
	return t.Format(layout)
}

// layoutFor devolve "" quando o estilo não é de data
func (x *xlsxDateConverter) layoutFor(styleID int) string {
	if layout, ok := x.layouts[styleID]; ok {
		return layout
	}

	layout := ""
	if style, err := x.book.GetStyle(styleID); err == nil {
		layout = styleLayout(style)
	}
	x.layouts[styleID] = layout
	return layout
}

func styleLayout(style *excelize.Style) string {
	switch {
	case xlsxDateFormats[style.NumFmt]:
		return xlsxDateTimeLayout
	case xlsxTimeFormats[style.NumFmt]:
		return xlsxTimeLayout
	case style.CustomNumFmt != nil:
		code := strings.ToLower(customFmtLiterals.ReplaceAllString(*style.CustomNumFmt, ""))
		if strings.ContainsAny(code, "dy") {
			return xlsxDateTimeLayout
		}
		if strings.Contains(code, "h") {
			return xlsxTimeLayout
		}
	}
	return ""
}

func tableFromValues(values [][]any) *domain.Table {
	records := make([][]string, len(values))
	for i, row := range values {
		records[i] = make([]string, len(row))
		for j, v := range row {
			records[i][j] = fmt.Sprint(v)
		}
	}
	return tableFromRecords(records)
}

// tableFromRecords usa o primeiro registro como cabeçalho e descarta linhas totalmente vazias
func tableFromRecords(records [][]string) *domain.Table {
	if len(records) == 0 {
		return &domain.Table{}
	}

	tbl := domain.NewTable(records[0])
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		tbl.AppendRow(rec)
	}
	return tbl
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}
