package drive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	gdrive "google.golang.org/api/drive/v3"

	drivedomain "github.com/vfg2006/oea-pipeline/infrastructure/integrator/drive/domain"
	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/drive/driveclient"
	"github.com/vfg2006/oea-pipeline/internal/config"
)

const (
	folderPageSize = 1000
	namePageSize   = 100
	latestPageSize = 5
)

type DriveIntegrator interface {
	ListFolder(ctx context.Context, folderID string) ([]drivedomain.File, error)
	FindLatest(ctx context.Context, folderID, name, mimeType string) (*drivedomain.File, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	ExportCSV(ctx context.Context, fileID string) ([]byte, error)
	RemoveByName(ctx context.Context, folderID, name string) error
	Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (*drivedomain.File, error)
}

type DriveService struct {
	cfg    *config.Config
	Client driveclient.Client
}

func New(cfg *config.Config, client driveclient.Client) DriveIntegrator {
	return &DriveService{
		cfg:    cfg,
		Client: client,
	}
}

// ListFolder lista todos os arquivos da pasta (não excluídos), resolvendo atalhos
func (s *DriveService) ListFolder(ctx context.Context, folderID string) ([]drivedomain.File, error) {
	var (
		files     []drivedomain.File
		pageToken string
	)

	for {
		resp, err := s.Client.ListFiles(ctx, driveclient.ListParams{
			Query:     fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID)),
			PageSize:  folderPageSize,
			PageToken: pageToken,
		})
		if err != nil {
			return nil, err
		}

		for _, f := range resp.Files {
			files = append(files, toFile(f))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"pasta":    folderID,
		"arquivos": len(files),
	}).Debug("Pasta listada")

	return files, nil
}

// FindLatest retorna o arquivo mais recente com o nome e tipo informados, ou nil
func (s *DriveService) FindLatest(ctx context.Context, folderID, name, mimeType string) (*drivedomain.File, error) {
	query := fmt.Sprintf(
		"'%s' in parents and name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(folderID), escapeQuery(name), escapeQuery(mimeType),
	)

	resp, err := s.Client.ListFiles(ctx, driveclient.ListParams{
		Query:    query,
		OrderBy:  "modifiedTime desc",
		PageSize: latestPageSize,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Files) == 0 {
		return nil, nil
	}

	f := toFile(resp.Files[0])
	return &f, nil
}

func (s *DriveService) Download(ctx context.Context, fileID string) ([]byte, error) {
	return s.Client.Download(ctx, fileID)
}

func (s *DriveService) ExportCSV(ctx context.Context, fileID string) ([]byte, error) {
	return s.Client.Export(ctx, fileID, drivedomain.MimeCSV)
}

// RemoveByName remove arquivos com o mesmo nome na pasta. Exclui direto e, em 403/404,
// move para a lixeira. Falhas individuais são apenas registradas.
func (s *DriveService) RemoveByName(ctx context.Context, folderID, name string) error {
	resp, err := s.Client.ListFiles(ctx, driveclient.ListParams{
		Query:    fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", escapeQuery(name), escapeQuery(folderID)),
		PageSize: namePageSize,
	})
	if err != nil {
		return err
	}

	for _, f := range resp.Files {
		log := logrus.WithFields(logrus.Fields{
			"arquivo": f.Name,
			"id":      f.Id,
		})

		err := s.Client.Delete(ctx, f.Id)
		if err == nil {
			log.Info("Arquivo antigo apagado")
			continue
		}

		if !drivedomain.IsForbiddenOrNotFound(err) {
			log.WithError(err).Warn("Erro ao excluir arquivo antigo")
			continue
		}

		if err := s.Client.Trash(ctx, f.Id); err != nil {
			log.WithError(err).Warn("Não foi possível excluir nem mover para a lixeira")
			continue
		}
		log.Info("Arquivo antigo movido para a lixeira")
	}

	return nil
}

func (s *DriveService) Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (*drivedomain.File, error) {
	created, err := s.Client.Create(ctx, name, folderID, mimeType, content)
	if err != nil {
		return nil, err
	}

	f := toFile(created)
	if f.MimeType == "" {
		f.MimeType = mimeType
	}
	return &f, nil
}

func toFile(f *gdrive.File) drivedomain.File {
	out := drivedomain.File{
		ID:       f.Id,
		Name:     strings.TrimSpace(f.Name),
		MimeType: f.MimeType,
	}

	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			out.ModifiedTime = t
		}
	}

	if f.MimeType == drivedomain.MimeShortcut && f.ShortcutDetails != nil &&
		f.ShortcutDetails.TargetId != "" && f.ShortcutDetails.TargetMimeType != "" {
		out.ShortcutID = f.Id
		out.ID = f.ShortcutDetails.TargetId
		out.MimeType = f.ShortcutDetails.TargetMimeType
	}

	return out
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
