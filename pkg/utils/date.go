package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layouts aceitos, na ordem em que são tentados
var dateLayouts = []string{
	"02/01/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// Formas sem zero à esquerda: D/M/AAAA e AAAA-M-D, com hora opcional
var (
	looseDateRegex = regexp.MustCompile(`^\s*(\d{1,2})/(\d{1,2})/(\d{4})(?:\s+(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?)?\s*$`)
	looseISORegex  = regexp.MustCompile(`^\s*(\d{4})-(\d{1,2})-(\d{1,2})(?:\s+(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?)?\s*$`)
)

// sheetsEpoch é o "dia zero" das planilhas (datas seriais)
var sheetsEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate interpreta datas em formato brasileiro ou ISO.
// Retorna false quando o valor não é uma data reconhecível.
func ParseDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if isNullLike(s) {
		return time.Time{}, false
	}

	s = strings.ReplaceAll(s, "T", " ")
	s = strings.ReplaceAll(s, "  ", " ")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if m := looseDateRegex.FindStringSubmatch(s); m != nil {
		return buildDate(atoiOrZero(m[3]), atoiOrZero(m[2]), atoiOrZero(m[1]), m[4:])
	}
	if m := looseISORegex.FindStringSubmatch(s); m != nil {
		return buildDate(atoiOrZero(m[1]), atoiOrZero(m[2]), atoiOrZero(m[3]), m[4:])
	}
	return time.Time{}, false
}

// buildDate valida os componentes; clock traz hora, minuto e segundo (podem ser vazios)
func buildDate(year, month, day int, clock []string) (time.Time, bool) {
	hour := atoiOrZero(clock[0])
	minute := atoiOrZero(clock[1])
	second := atoiOrZero(clock[2])

	if month < 1 || month > 12 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normaliza 31/02 para março; isso não é uma data válida
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}

	return t, true
}

// SerialFromTime converte para o número serial usado pelas planilhas:
// dias desde 30/12/1899 mais a fração do dia.
func SerialFromTime(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return float64(wall.Sub(sheetsEpoch)) / float64(24*time.Hour)
}

// CoerceDate devolve o serial da data quando o valor é reconhecido,
// caso contrário devolve o valor original.
func CoerceDate(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	t, ok := ParseDate(s)
	if !ok {
		return v
	}
	return SerialFromTime(t)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

func isNullLike(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "none", "null", "-":
		return true
	}
	return false
}
