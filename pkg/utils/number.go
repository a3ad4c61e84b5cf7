package utils

import (
	"strconv"
	"strings"
)

// ParseNumber interpreta números em formato brasileiro ("1.234,56") ou americano ("1234.56").
// Pontos seguidos de exatamente três dígitos são tratados como separador de milhar;
// a vírgula restante vira separador decimal.
func ParseNumber(value string) (float64, bool) {
	s := strings.TrimSpace(value)
	if isNullLike(s) {
		return 0, false
	}

	s = keepNumericChars(s)
	if s == "" {
		return 0, false
	}

	s = dropThousandsDots(s)
	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// CoerceNumber devolve o float quando o valor é reconhecido, caso contrário o valor original
func CoerceNumber(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	f, ok := ParseNumber(s)
	if !ok {
		return v
	}
	return f
}

func keepNumericChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func dropThousandsDots(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && isThousandsDot(s, i) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// isThousandsDot: o ponto em i é seguido de exatamente três dígitos e depois não-dígito ou fim
func isThousandsDot(s string, i int) bool {
	if i+4 > len(s) {
		return false
	}
	for j := i + 1; j <= i+3; j++ {
		if !isDigit(s[j]) {
			return false
		}
	}
	return i+4 == len(s) || !isDigit(s[i+4])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
