package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App      App      `mapstructure:",squash"`
	Google   Google   `mapstructure:",squash"`
	Compilar Compilar `mapstructure:",squash"`
	Esteira  Esteira  `mapstructure:",squash"`
	BDMensal BDMensal `mapstructure:",squash"`
	Pipeline Pipeline `mapstructure:",squash"`
	API      API      `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Archive  Archive  `mapstructure:",squash"`
	Auth     Auth     `mapstructure:",squash"`
	Schedule Schedule `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"app_timezone"`
	WorkDir  string `mapstructure:"app_work_dir"`
}

// Google agrupa as credenciais da conta de serviço usadas por Drive e Sheets
type Google struct {
	CredentialsFile    string `mapstructure:"google_credentials_file"`
	RequestsPerMinute  int    `mapstructure:"google_requests_per_minute"`
	RequestTimeoutSecs int    `mapstructure:"google_request_timeout_seconds"`
}

// Compilar configura a etapa que gera Historico_Diario.csv e Historico_Mensal.csv
type Compilar struct {
	FolderID          string `mapstructure:"compilar_folder_id"`
	SheetTabName      string `mapstructure:"compilar_sheet_tab_name"`
	DailyFileName     string `mapstructure:"compilar_daily_file_name"`
	MonthlyFileName   string `mapstructure:"compilar_monthly_file_name"`
	OutputDir         string `mapstructure:"compilar_output_dir"`
	CSVSeparator      string `mapstructure:"compilar_csv_separator"`
	DownloadChunkSize int64  `mapstructure:"compilar_download_chunk_size"`
}

// Esteira configura a réplica BD_Carteira -> Base_Esteira
type Esteira struct {
	SourceSpreadsheetID string `mapstructure:"esteira_source_id"`
	SourceSheet         string `mapstructure:"esteira_source_sheet"`
	DestSpreadsheetID   string `mapstructure:"esteira_dest_id"`
	DestSheet           string `mapstructure:"esteira_dest_sheet"`
	FirstColumn         string `mapstructure:"esteira_first_column"`
	LastColumn          string `mapstructure:"esteira_last_column"`
	HeaderRow           int    `mapstructure:"esteira_header_row"`
	DestHeaderRow       int    `mapstructure:"esteira_dest_header_row"`
	StatusCell          string `mapstructure:"esteira_status_cell"`
	ChunkRows           int    `mapstructure:"esteira_chunk_rows"`
}

// BDMensal configura a réplica Historico_Mensal.csv -> BD_Mensal
type BDMensal struct {
	FolderID          string `mapstructure:"bd_mensal_folder_id"`
	CSVName           string `mapstructure:"bd_mensal_csv_name"`
	DestSpreadsheetID string `mapstructure:"bd_mensal_dest_id"`
	DestSheet         string `mapstructure:"bd_mensal_dest_sheet"`
	MaxColumns        int    `mapstructure:"bd_mensal_max_columns"`
	ChunkRows         int    `mapstructure:"bd_mensal_chunk_rows"`
	MinRows           int    `mapstructure:"bd_mensal_min_rows"`
	DateColumns       []int  `mapstructure:"bd_mensal_date_columns"`
	NumberColumns     []int  `mapstructure:"bd_mensal_number_columns"`
	SummarySheet      string `mapstructure:"bd_mensal_summary_sheet"`
	SummaryCell       string `mapstructure:"bd_mensal_summary_cell"`
	DateFormat        string `mapstructure:"bd_mensal_date_format"`
}

// Pipeline configura o orquestrador
type Pipeline struct {
	Steps            []string `mapstructure:"pipeline_steps"`
	RetriesPerStep   int      `mapstructure:"pipeline_retries_per_step"`
	BaseSleepSeconds int      `mapstructure:"pipeline_base_sleep_seconds"`
	LogDir           string   `mapstructure:"pipeline_log_dir"`
	TailLines        int      `mapstructure:"pipeline_tail_lines"`
}

// API configura o retry das chamadas às APIs do Google
type API struct {
	MaxRetries       int     `mapstructure:"api_max_retries"`
	BaseSleepSeconds float64 `mapstructure:"api_base_sleep_seconds"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Archive configura a cópia dos CSVs gerados para um bucket GCS
type Archive struct {
	Bucket string `mapstructure:"archive_bucket"`
	Prefix string `mapstructure:"archive_prefix"`
}

type Auth struct {
	SecretKey         string `mapstructure:"secret_key"`
	AdminUser         string `mapstructure:"admin_user"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
	TokenTTLHours     int    `mapstructure:"auth_token_ttl_hours"`
}

// Schedule configura a execução agendada do pipeline no modo serve
type Schedule struct {
	CronSchedule string `mapstructure:"pipeline_cron"`
	Enabled      bool   `mapstructure:"pipeline_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("APP_WORK_DIR", "")

	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "credenciais.json")
	viper.SetDefault("GOOGLE_REQUESTS_PER_MINUTE", 55) // cota de escrita do Sheets é 60/min
	viper.SetDefault("GOOGLE_REQUEST_TIMEOUT_SECONDS", 120)

	viper.SetDefault("COMPILAR_FOLDER_ID", "1108v_R_-KpYXclfUPaXsRqzsyQ0tiMjh")
	viper.SetDefault("COMPILAR_SHEET_TAB_NAME", "")
	viper.SetDefault("COMPILAR_DAILY_FILE_NAME", "Historico_Diario.csv")
	viper.SetDefault("COMPILAR_MONTHLY_FILE_NAME", "Historico_Mensal.csv")
	viper.SetDefault("COMPILAR_OUTPUT_DIR", ".")
	viper.SetDefault("COMPILAR_CSV_SEPARATOR", ";")
	viper.SetDefault("COMPILAR_DOWNLOAD_CHUNK_SIZE", 2*1024*1024)

	viper.SetDefault("ESTEIRA_SOURCE_ID", "1gDktQhF0WIjfAX76J2yxQqEeeBsSfMUPGs5svbf9xGM")
	viper.SetDefault("ESTEIRA_SOURCE_SHEET", "BD_Carteira")
	viper.SetDefault("ESTEIRA_DEST_ID", "1-ZguV_LFofJ2F-Emn0UQQx1UfVOcKpTXZb1VryVeds4")
	viper.SetDefault("ESTEIRA_DEST_SHEET", "Base_Esteira")
	viper.SetDefault("ESTEIRA_FIRST_COLUMN", "A")
	viper.SetDefault("ESTEIRA_LAST_COLUMN", "AN")
	viper.SetDefault("ESTEIRA_HEADER_ROW", 3)
	viper.SetDefault("ESTEIRA_DEST_HEADER_ROW", 2)
	viper.SetDefault("ESTEIRA_STATUS_CELL", "A1")
	viper.SetDefault("ESTEIRA_CHUNK_ROWS", 8000)

	viper.SetDefault("BD_MENSAL_FOLDER_ID", "1108v_R_-KpYXclfUPaXsRqzsyQ0tiMjh")
	viper.SetDefault("BD_MENSAL_CSV_NAME", "Historico_Mensal.csv")
	viper.SetDefault("BD_MENSAL_DEST_ID", "1-ZguV_LFofJ2F-Emn0UQQx1UfVOcKpTXZb1VryVeds4")
	viper.SetDefault("BD_MENSAL_DEST_SHEET", "BD_Mensal")
	viper.SetDefault("BD_MENSAL_MAX_COLUMNS", 37) // AK
	viper.SetDefault("BD_MENSAL_CHUNK_ROWS", 2000)
	viper.SetDefault("BD_MENSAL_MIN_ROWS", 50)
	// A, D, AK
	viper.SetDefault("BD_MENSAL_DATE_COLUMNS", "1,4,37")
	// E, L..Y
	viper.SetDefault("BD_MENSAL_NUMBER_COLUMNS", "5,12,13,14,15,16,17,18,19,20,21,22,23,24,25")
	viper.SetDefault("BD_MENSAL_SUMMARY_SHEET", "RESUMO")
	viper.SetDefault("BD_MENSAL_SUMMARY_CELL", "A2")
	viper.SetDefault("BD_MENSAL_DATE_FORMAT", "dd/mm/yyyy")

	viper.SetDefault("PIPELINE_STEPS", "compilar,replicar-esteira,replicar-mensal")
	viper.SetDefault("PIPELINE_RETRIES_PER_STEP", 3)
	viper.SetDefault("PIPELINE_BASE_SLEEP_SECONDS", 5)
	viper.SetDefault("PIPELINE_LOG_DIR", "logs")
	viper.SetDefault("PIPELINE_TAIL_LINES", 80)

	viper.SetDefault("API_MAX_RETRIES", 6)
	viper.SetDefault("API_BASE_SLEEP_SECONDS", 2.0)

	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	// Sem DATABASE_URL o histórico de execuções fica desligado
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "")

	viper.SetDefault("ARCHIVE_BUCKET", "")
	viper.SetDefault("ARCHIVE_PREFIX", "oea")

	viper.SetDefault("SECRET_KEY", "")
	viper.SetDefault("ADMIN_USER", "admin")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("AUTH_TOKEN_TTL_HOURS", 12)

	viper.SetDefault("PIPELINE_CRON", "0 6 * * *") // Todos os dias às 6h da manhã
	viper.SetDefault("PIPELINE_SYNC_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	} else {
		logrus.Debug("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Database.URL != "" {
		config.Database.DSN = fmt.Sprintf(
			"%s://%s:%s@%s",
			config.Database.Driver,
			config.Database.User,
			config.Database.Password,
			config.Database.URL,
		)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica os valores que, se errados, só apareceriam no meio da execução
func (c *Config) Validate() error {
	if c.Pipeline.RetriesPerStep < 1 {
		return fmt.Errorf("PIPELINE_RETRIES_PER_STEP deve ser >= 1, recebido %d", c.Pipeline.RetriesPerStep)
	}
	if c.API.MaxRetries < 1 {
		return fmt.Errorf("API_MAX_RETRIES deve ser >= 1, recebido %d", c.API.MaxRetries)
	}
	if c.Esteira.ChunkRows < 1 || c.BDMensal.ChunkRows < 1 {
		return fmt.Errorf("tamanho de bloco inválido (esteira=%d, bd_mensal=%d)", c.Esteira.ChunkRows, c.BDMensal.ChunkRows)
	}
	if c.BDMensal.MaxColumns < 1 {
		return fmt.Errorf("BD_MENSAL_MAX_COLUMNS deve ser >= 1, recebido %d", c.BDMensal.MaxColumns)
	}
	if len(c.Compilar.CSVSeparator) != 1 {
		return fmt.Errorf("COMPILAR_CSV_SEPARATOR deve ter um caractere, recebido %q", c.Compilar.CSVSeparator)
	}
	return nil
}

// Location retorna o fuso usado nos carimbos de data/hora
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		logrus.WithError(err).Warnf("Fuso horário inválido: %s, usando horário local", c.App.Timezone)
		return time.Local
	}
	return loc
}

// APIBaseSleep retorna a espera base entre tentativas de chamadas às APIs
func (c *Config) APIBaseSleep() time.Duration {
	return time.Duration(c.API.BaseSleepSeconds * float64(time.Second))
}

// StepBaseSleep retorna a espera base entre tentativas de uma etapa do pipeline
func (c *Config) StepBaseSleep() time.Duration {
	return time.Duration(c.Pipeline.BaseSleepSeconds) * time.Second
}

// RequestTimeout retorna o timeout de cada requisição às APIs do Google
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Google.RequestTimeoutSecs) * time.Second
}

// LedgerEnabled indica se o histórico de execuções deve ser gravado no Postgres
func (c *Config) LedgerEnabled() bool {
	return c.Database.DSN != ""
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado; usando apenas variáveis de ambiente")
}
