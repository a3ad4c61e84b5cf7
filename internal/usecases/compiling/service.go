package compiling

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/drive"
	drivedomain "github.com/vfg2006/oea-pipeline/infrastructure/integrator/drive/domain"
	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/sheets"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/internal/domain"
	"github.com/vfg2006/oea-pipeline/pkg/utils"
)

// Compiler gera Historico_Diario.csv e Historico_Mensal.csv a partir dos arquivos MM-YYYY
type Compiler interface {
	Run(ctx context.Context) (*Result, error)
}

// Archiver guarda uma cópia dos CSVs publicados
type Archiver interface {
	Archive(ctx context.Context, name string, content []byte) (string, error)
}

// Result resume uma execução do compilador
type Result struct {
	MonthFiles  int
	LoadedFiles int
	DailyRows   int
	MonthlyRows int
	Published   []string
}

type Service struct {
	cfg      *config.Config
	drive    drive.DriveIntegrator
	sheets   sheets.SheetsIntegrator
	archiver Archiver
}

func NewService(cfg *config.Config, driveService drive.DriveIntegrator, sheetsService sheets.SheetsIntegrator) *Service {
	return &Service{
		cfg:    cfg,
		drive:  driveService,
		sheets: sheetsService,
	}
}

// WithArchiver habilita a cópia dos CSVs para o bucket
func (s *Service) WithArchiver(archiver Archiver) *Service {
	s.archiver = archiver
	return s
}

func (s *Service) Run(ctx context.Context) (*Result, error) {
	folderID := s.cfg.Compilar.FolderID
	result := &Result{}

	logrus.WithField("pasta", folderID).Info("Listando arquivos MM-YYYY na pasta")
	files, err := s.drive.ListFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListFolder, err)
	}

	monthFiles := filterMonthFiles(files)
	result.MonthFiles = len(monthFiles)

	if len(monthFiles) == 0 {
		logrus.WithField("arquivos_na_pasta", len(files)).Warn("Nenhum arquivo no formato MM-YYYY encontrado na pasta")
		return result, nil
	}

	var tables []*domain.Table
	for _, f := range monthFiles {
		log := logrus.WithFields(logrus.Fields{
			"arquivo": f.Name,
			"tipo":    f.MimeType,
		})
		log.Info("Lendo arquivo mensal")

		tbl, err := s.loadMonthFile(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(NewFileError(err, f.ID, f.Name)).Error("Erro ao ler arquivo, ignorado")
			continue
		}

		if tbl.Empty() {
			log.Warn("Arquivo sem dados, ignorado")
			continue
		}

		tbl.SetColumn(domain.SourceFileColumn, f.Name)
		tbl.SetColumn(domain.SourceIDColumn, f.ID)

		fields := logrus.Fields{"linhas": tbl.Len()}
		if last, ok := LastDate(tbl); ok {
			fields["ultima_data"] = last.Format("02/01/2006")
		}
		log.WithFields(fields).Info("Arquivo lido")

		tables = append(tables, tbl)
	}
	result.LoadedFiles = len(tables)

	daily := BuildDaily(tables)
	monthly := BuildMonthly(daily)
	result.DailyRows = daily.Len()
	result.MonthlyRows = monthly.Len()

	logrus.WithFields(logrus.Fields{
		"historico_diario": daily.Len(),
		"historico_mensal": monthly.Len(),
	}).Info("Bases construídas")

	for _, out := range []struct {
		name string
		tbl  *domain.Table
	}{
		{s.cfg.Compilar.DailyFileName, daily},
		{s.cfg.Compilar.MonthlyFileName, monthly},
	} {
		published, err := s.publish(ctx, out.name, out.tbl)
		if err != nil {
			return result, err
		}
		if published {
			result.Published = append(result.Published, out.name)
		}
	}

	return result, nil
}

// publish grava o CSV localmente, remove o anterior da pasta e envia o novo.
// Tabelas vazias não são enviadas.
func (s *Service) publish(ctx context.Context, name string, tbl *domain.Table) (bool, error) {
	log := logrus.WithField("arquivo", name)

	if tbl.Empty() {
		log.Warn("CSV vazio, não será enviado")
		return false, nil
	}

	var buf bytes.Buffer
	sep := []rune(s.cfg.Compilar.CSVSeparator)[0]
	if err := utils.WriteCSV(&buf, tbl.Header, tbl.Rows, sep); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrPublish, name, err)
	}
	content := buf.Bytes()

	localPath := filepath.Join(s.cfg.Compilar.OutputDir, name)
	if err := os.WriteFile(localPath, content, 0o644); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrPublish, localPath, err)
	}

	folderID := s.cfg.Compilar.FolderID
	if err := s.drive.RemoveByName(ctx, folderID, name); err != nil {
		log.WithError(err).Warn("Não foi possível remover versões anteriores")
	}

	created, err := s.drive.Upload(ctx, folderID, name, drivedomain.MimeCSV, content)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrPublish, name, err)
	}

	log.WithFields(logrus.Fields{
		"id":     created.ID,
		"linhas": tbl.Len(),
		"bytes":  len(content),
	}).Info("CSV enviado")

	if s.archiver != nil {
		if _, err := s.archiver.Archive(ctx, name, content); err != nil {
			log.WithError(err).Warn("Falha ao arquivar CSV no GCS")
		}
	}

	return true, nil
}

func filterMonthFiles(files []drivedomain.File) []drivedomain.File {
	var (
		all     []string
		matched []drivedomain.File
	)

	for _, f := range files {
		all = append(all, f.Name)
		if domain.IsMonthFileName(f.Name) {
			matched = append(matched, f)
		}
	}

	sort.Strings(all)
	logrus.WithField("arquivos", all).Debug("Arquivos encontrados na pasta")

	names := make([]string, len(matched))
	for i, f := range matched {
		names[i] = f.Name
	}
	sort.Strings(names)
	logrus.WithField("arquivos", names).Info("Arquivos que casaram com MM-YYYY")

	return matched
}
