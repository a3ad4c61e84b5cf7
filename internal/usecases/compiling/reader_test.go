package compiling

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vfg2006/oea-pipeline/internal/domain"
)

func TestParseCSVWithFallback(t *testing.T) {
	tests := []struct {
		name    string
		content string
		header  []string
		rows    int
	}{
		{"vírgula", "Data,Obra\n05/03/2025,Ponte\n", []string{"Data", "Obra"}, 1},
		{"ponto e vírgula", "\xef\xbb\xbfData;Obra;Valor\n05/03/2025;Ponte;1.234,56\n", []string{"Data", "Obra", "Valor"}, 1},
		{"uma coluna", "Data\n05/03/2025\n", []string{"Data"}, 1},
		{"cabeçalho com espaços", " Data , Obra \n\n05/03/2025,Ponte\n", []string{"Data", "Obra"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := parseCSVWithFallback([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.header, tbl.Header)
			assert.Equal(t, tt.rows, tbl.Len())
		})
	}
}

func TestParseCSV_OnlyHeaderIsEmpty(t *testing.T) {
	tbl, err := parseCSVWithFallback([]byte("Data,Obra\n"))
	require.NoError(t, err)
	assert.True(t, tbl.Empty())
}

func TestParseXLSX(t *testing.T) {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"Data", "Obra", "Valor"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"05/03/2025", "Ponte", "10"}))
	require.NoError(t, book.SetSheetRow(sheet, "A3", &[]any{"06/03/2025", "Viaduto"}))

	buf, err := book.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := parseXLSX(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Obra", "Valor"}, tbl.Header)
	assert.Equal(t, [][]string{{"05/03/2025", "Ponte", "10"}, {"06/03/2025", "Viaduto", ""}}, tbl.Rows)
}

func TestParseXLSX_DateStyledCells(t *testing.T) {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	shortDate, err := book.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	customFmt := "dd/mm/yyyy hh:mm"
	custom, err := book.NewStyle(&excelize.Style{CustomNumFmt: &customFmt})
	require.NoError(t, err)
	twoDecimals, err := book.NewStyle(&excelize.Style{NumFmt: 2})
	require.NoError(t, err)

	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"Data", "Valor", "Registro"}))
	days := []int{4, 5, 5}
	for i, day := range days {
		row := i + 2
		require.NoError(t, book.SetCellValue(sheet, fmt.Sprintf("A%d", row), time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, book.SetCellValue(sheet, fmt.Sprintf("B%d", row), i))
	}
	require.NoError(t, book.SetCellStyle(sheet, "A2", "A4", shortDate))
	require.NoError(t, book.SetCellValue(sheet, "C2", time.Date(2025, 3, 5, 14, 30, 0, 0, time.UTC)))
	require.NoError(t, book.SetCellStyle(sheet, "C2", "C2", custom))
	require.NoError(t, book.SetCellValue(sheet, "C3", 10.5))
	require.NoError(t, book.SetCellStyle(sheet, "C3", "C3", twoDecimals))

	buf, err := book.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := parseXLSX(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"2025-03-04 00:00:00", "0", "2025-03-05 14:30:00"},
		{"2025-03-05 00:00:00", "1", "10.5"},
		{"2025-03-05 00:00:00", "2", ""},
	}, tbl.Rows)

	tbl.SetColumn(domain.SourceFileColumn, "03-2025.xlsx")
	monthly := BuildMonthly(BuildDaily([]*domain.Table{tbl}))
	require.Equal(t, 2, monthly.Len())
	assert.Equal(t, "1", monthly.Rows[0][1])
	assert.Equal(t, "2", monthly.Rows[1][1])
}

func TestParseXLSX_Invalid(t *testing.T) {
	_, err := parseXLSX([]byte("não é um xlsx"))
	assert.ErrorIs(t, err, ErrUnreadableFile)
}

func TestTableFromValues(t *testing.T) {
	tbl := tableFromValues([][]any{{"Data", "Qtd"}, {"05/03/2025", 3}, {}})
	assert.Equal(t, []string{"Data", "Qtd"}, tbl.Header)
	assert.Equal(t, [][]string{{"05/03/2025", "3"}}, tbl.Rows)
	assert.True(t, tableFromValues(nil).Empty())
}
