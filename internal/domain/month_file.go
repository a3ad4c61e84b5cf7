package domain

import (
	"regexp"
	"strings"
)

// Aceita "MM-YYYY" com ou sem extensão e espaços: "03-2025", "03-2025.csv", "03-2025 .xlsx"
var monthFileRegex = regexp.MustCompile(`^\s*\d{2}-\d{4}\s*(?:\.[A-Za-z0-9]+)?\s*$`)

// MonthFile é um arquivo mensal encontrado na pasta de origem
type MonthFile struct {
	ID       string
	Name     string
	MimeType string
}

// IsMonthFileName indica se o nome segue o padrão MM-YYYY
func IsMonthFileName(name string) bool {
	return monthFileRegex.MatchString(name)
}

// Period retorna o trecho MM-YYYY do nome do arquivo
func (f MonthFile) Period() string {
	name := strings.TrimSpace(f.Name)
	if i := strings.IndexAny(name, " ."); i > 0 {
		name = name[:i]
	}
	return name
}
