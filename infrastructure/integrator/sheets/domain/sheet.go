package sheetsdomain

import "errors"

// ErrSheetNotFound indica que a aba não existe na planilha
var ErrSheetNotFound = errors.New("aba não encontrada")

const (
	ValueInputRaw         = "RAW"
	RenderUnformatted     = "UNFORMATTED_VALUE"
	RenderFormatted       = "FORMATTED_VALUE"
	DateTimeSerialNumber  = "SERIAL_NUMBER"
	DateTimeFormattedText = "FORMATTED_STRING"
)

// Sheet descreve uma aba de uma planilha
type Sheet struct {
	ID          int64
	Title       string
	RowCount    int64
	ColumnCount int64
}
