package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTable_TrimsHeader(t *testing.T) {
	tbl := NewTable([]string{" Data ", "Obra", "Valor  "})
	assert.Equal(t, []string{"Data", "Obra", "Valor"}, tbl.Header)
	assert.True(t, tbl.Empty())
}

func TestNewTable_RenamesDuplicateAndBlankColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"repetidas", []string{"Data", "Valor", "Valor", "Valor"}, []string{"Data", "Valor", "Valor.1", "Valor.2"}},
		{"em branco", []string{"Data", "", " "}, []string{"Data", "Unnamed: 1", "Unnamed: 2"}},
		{"sufixo já existente", []string{"Valor", "Valor.1", "Valor"}, []string{"Valor", "Valor.1", "Valor.2"}},
		{"repetida após trim", []string{"Obra", " Obra"}, []string{"Obra", "Obra.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTable(tt.header).Header)
		})
	}
}

func TestTable_AppendRowFitsWidth(t *testing.T) {
	tbl := NewTable([]string{"a", "b", "c"})
	tbl.AppendRow([]string{"1"})
	tbl.AppendRow([]string{"1", "2", "3", "4"})

	assert.Equal(t, [][]string{{"1", "", ""}, {"1", "2", "3"}}, tbl.Rows)
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_SetColumn(t *testing.T) {
	tbl := NewTable([]string{"a"})
	tbl.AppendRow([]string{"x"})
	tbl.AppendRow([]string{"y"})

	tbl.SetColumn(SourceFileColumn, "03-2025.csv")
	tbl.SetColumn(SourceFileColumn, "04-2025.csv")

	assert.Equal(t, []string{"a", SourceFileColumn}, tbl.Header)
	assert.Equal(t, [][]string{{"x", "04-2025.csv"}, {"y", "04-2025.csv"}}, tbl.Rows)
}

func TestTable_Truncate(t *testing.T) {
	tbl := NewTable([]string{"a", "b", "c"})
	tbl.AppendRow([]string{"1", "2", "3"})

	tbl.Truncate(5)
	assert.Equal(t, 3, tbl.Width())

	tbl.Truncate(2)
	assert.Equal(t, []string{"a", "b"}, tbl.Header)
	assert.Equal(t, [][]string{{"1", "2"}}, tbl.Rows)
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, 0, tbl.Width())
	assert.True(t, tbl.Empty())
}
