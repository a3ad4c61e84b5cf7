package utils

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadCSV lê o conteúdo removendo o BOM, se houver. Linhas podem ter tamanhos diferentes.
func ReadCSV(content []byte, sep rune) ([][]string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())

	r := csv.NewReader(transform.NewReader(bytes.NewReader(content), decoder))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	return r.ReadAll()
}

// SniffDelimiter escolhe entre ';' e ',' pela primeira linha não vazia
func SniffDelimiter(content []byte) rune {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Count(line, ";") > strings.Count(line, ",") {
			return ';'
		}
		return ','
	}
	return ','
}

// WriteCSV grava cabeçalho e linhas em UTF-8 com BOM, terminador \n e aspas só quando necessário
func WriteCSV(w io.Writer, header []string, rows [][]string, sep rune) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	cw := csv.NewWriter(tw)
	cw.Comma = sep
	cw.UseCRLF = false

	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}

	return tw.Close()
}
