package drivedomain

import (
	"errors"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
)

const (
	MimeFolder      = "application/vnd.google-apps.folder"
	MimeShortcut    = "application/vnd.google-apps.shortcut"
	MimeSpreadsheet = "application/vnd.google-apps.spreadsheet"
	MimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeXLS         = "application/vnd.ms-excel"
	MimeCSV         = "text/csv"
)

// File representa um arquivo do Drive já com atalhos resolvidos
type File struct {
	ID           string
	Name         string
	MimeType     string
	ModifiedTime time.Time
	// ShortcutID guarda o id do atalho quando ID aponta para o alvo
	ShortcutID string
}

func (f File) IsSpreadsheet() bool {
	return f.MimeType == MimeSpreadsheet
}

func (f File) IsExcel() bool {
	return f.MimeType == MimeXLSX || f.MimeType == MimeXLS
}

// StatusCode extrai o status HTTP de um erro da API do Google, 0 se não houver
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// IsForbiddenOrNotFound indica erros 403/404, em que a exclusão deve cair para a lixeira
func IsForbiddenOrNotFound(err error) bool {
	code := StatusCode(err)
	return code == http.StatusForbidden || code == http.StatusNotFound
}
