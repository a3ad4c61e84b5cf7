package googleauth

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/vfg2006/oea-pipeline/internal/config"
)

// ErrCredentialsNotFound indica que o arquivo da conta de serviço não existe
var ErrCredentialsNotFound = errors.New("arquivo de credenciais não encontrado")

// Scopes usados pelas etapas do pipeline
var Scopes = []string{
	drive.DriveScope,
	sheets.SpreadsheetsScope,
}

// CheckCredentials verifica se o arquivo da conta de serviço está acessível
func CheckCredentials(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrCredentialsNotFound, path)
	}
	if err != nil {
		return errors.Wrapf(err, "erro ao acessar credenciais em %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s é um diretório", ErrCredentialsNotFound, path)
	}
	return nil
}

// ClientOptions monta as opções de autenticação dos clientes Google
func ClientOptions(cfg *config.Config) ([]option.ClientOption, error) {
	if err := CheckCredentials(cfg.Google.CredentialsFile); err != nil {
		return nil, err
	}

	return []option.ClientOption{
		option.WithCredentialsFile(cfg.Google.CredentialsFile),
		option.WithScopes(Scopes...),
		option.WithUserAgent("oea-pipeline"),
	}, nil
}

// RequestInterval converte a cota por minuto em intervalo entre requisições
func RequestInterval(perMinute int) time.Duration {
	if perMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(perMinute)
}
