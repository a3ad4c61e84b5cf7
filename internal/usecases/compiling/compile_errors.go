package compiling

import (
	"errors"
	"fmt"
)

var (
	ErrUnreadableFile = errors.New("não foi possível ler o arquivo")
	ErrUnsupportedXLS = errors.New("formato .xls não suportado")
	ErrListFolder     = errors.New("erro ao listar a pasta de origem")
	ErrPublish        = errors.New("erro ao publicar CSV")
)

// FileError é um erro de leitura com o arquivo de origem envolvido
type FileError struct {
	Err      error
	FileID   string
	FileName string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.FileName, e.FileID, e.Err.Error())
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func NewFileError(err error, fileID, fileName string) *FileError {
	return &FileError{
		Err:      err,
		FileID:   fileID,
		FileName: fileName,
	}
}
