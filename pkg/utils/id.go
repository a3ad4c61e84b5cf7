package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	runIDLength = 10
)

// GenerateRunID gera o identificador curto de uma execução do pipeline
func GenerateRunID() (string, error) {
	return gonanoid.Generate(idAlphabet, runIDLength)
}
