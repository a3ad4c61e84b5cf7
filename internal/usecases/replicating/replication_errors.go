package replicating

import (
	"errors"
	"fmt"
)

var (
	ErrCSVNotFound   = errors.New("CSV não encontrado na pasta")
	ErrCSVUnreadable = errors.New("falha ao ler o CSV")
	ErrReadSource    = errors.New("erro ao ler a planilha de origem")
	ErrOpenDest      = errors.New("erro ao abrir a planilha de destino")
	ErrClearDest     = errors.New("erro ao limpar o destino")
	ErrWriteDest     = errors.New("erro ao gravar no destino")
	ErrInvalidChunk  = errors.New("tamanho de bloco inválido")
	ErrInvalidAnchor = errors.New("célula inicial inválida")
)

// ReplicationError é um erro com a planilha e o intervalo envolvidos
type ReplicationError struct {
	Err           error // Erro base
	Cause         error // Erro retornado pela API
	SpreadsheetID string
	Range         string
}

func (e *ReplicationError) Error() string {
	msg := e.Err.Error()
	if e.Range != "" {
		msg = fmt.Sprintf("%s [%s %s]", msg, e.SpreadsheetID, e.Range)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Cause.Error())
	}
	return msg
}

func (e *ReplicationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NewReplicationError(err error, spreadsheetID, rng string, cause error) *ReplicationError {
	return &ReplicationError{
		Err:           err,
		Cause:         cause,
		SpreadsheetID: spreadsheetID,
		Range:         rng,
	}
}
