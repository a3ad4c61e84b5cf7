package domain

import (
	"strconv"
	"strings"
)

// Colunas de procedência adicionadas a cada linha lida de um arquivo mensal
const (
	SourceFileColumn = "__ARQUIVO_ORIGEM__"
	SourceIDColumn   = "__FILE_ID__"
)

// Table é uma tabela em memória com cabeçalho e linhas de texto.
// Toda linha tem exatamente len(Header) células.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable normaliza o cabeçalho: nomes em branco viram "Unnamed: <posição>" e
// repetidos ganham sufixo (Valor, Valor.1, Valor.2), para nenhuma coluna se perder
// quando tabelas são unidas por nome.
func NewTable(header []string) *Table {
	h := make([]string, len(header))
	counts := make(map[string]int, len(header))

	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		n := counts[name]
		for n > 0 {
			counts[name] = n + 1
			name = name + "." + strconv.Itoa(n)
			n = counts[name]
		}
		counts[name] = n + 1
		h[i] = name
	}
	return &Table{Header: h}
}

func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Header)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Empty() bool {
	return t.Len() == 0
}

// ColumnIndex retorna a posição da coluna ou -1
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// AppendRow adiciona a linha ajustando-a à largura do cabeçalho
func (t *Table) AppendRow(row []string) {
	t.Rows = append(t.Rows, FitWidth(row, len(t.Header)))
}

// SetColumn define o valor da coluna em todas as linhas, criando-a se não existir
func (t *Table) SetColumn(name, value string) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		t.Header = append(t.Header, name)
		idx = len(t.Header) - 1
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], "")
		}
	}
	for i := range t.Rows {
		t.Rows[i][idx] = value
	}
}

// Truncate mantém apenas as primeiras n colunas
func (t *Table) Truncate(n int) {
	if n < 0 || n >= len(t.Header) {
		return
	}
	t.Header = t.Header[:n]
	for i := range t.Rows {
		t.Rows[i] = t.Rows[i][:n]
	}
}

// FitWidth completa com "" ou corta a linha para ter exatamente width células
func FitWidth(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
