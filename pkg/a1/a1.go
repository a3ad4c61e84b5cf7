package a1

import (
	"fmt"
	"strings"
)

// ColumnIndex converte letras de coluna (A, Z, AA, AK...) para índice 1-based.
// Retorna 0 para entradas inválidas.
func ColumnIndex(letters string) int {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0
	}

	idx := 0
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return 0
		}
		idx = idx*26 + int(r-'A'+1)
	}
	return idx
}

// ColumnLetters converte um índice 1-based para letras de coluna
func ColumnLetters(idx int) string {
	if idx <= 0 {
		return ""
	}

	var out []byte
	for idx > 0 {
		idx--
		out = append([]byte{byte('A' + idx%26)}, out...)
		idx /= 26
	}
	return string(out)
}

// Cell monta o endereço de uma célula, ex.: Cell(2, 1) = "A2"
func Cell(row, col int) string {
	return fmt.Sprintf("%s%d", ColumnLetters(col), row)
}

// Range monta um intervalo retangular, ex.: Range(1, 1, 10, 37) = "A1:AK10"
func Range(startRow, startCol, endRow, endCol int) string {
	return Cell(startRow, startCol) + ":" + Cell(endRow, endCol)
}

// Columns monta um intervalo de colunas inteiras, ex.: Columns("A", "AN") = "A:AN"
func Columns(first, last string) string {
	return first + ":" + last
}

// WithSheet qualifica o intervalo com o nome da aba
func WithSheet(sheet, rng string) string {
	if sheet == "" {
		return rng
	}
	return QuoteSheet(sheet) + "!" + rng
}

// QuoteSheet envolve o nome da aba em aspas simples, dobrando as aspas internas.
// Um nome de aba sozinho é um intervalo válido que cobre a aba inteira.
func QuoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
