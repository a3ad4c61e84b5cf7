package driveclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	drivedomain "github.com/vfg2006/oea-pipeline/infrastructure/integrator/drive/domain"
	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/googleauth"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/pkg/retry"
)

const listFields = "nextPageToken, files(id, name, mimeType, modifiedTime, shortcutDetails(targetId, targetMimeType))"

type ListParams struct {
	Query     string
	OrderBy   string
	PageSize  int64
	PageToken string
}

type Client interface {
	ListFiles(ctx context.Context, params ListParams) (*drive.FileList, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	Export(ctx context.Context, fileID, mimeType string) ([]byte, error)
	Delete(ctx context.Context, fileID string) error
	Trash(ctx context.Context, fileID string) error
	Create(ctx context.Context, name, parentID, mimeType string, content []byte) (*drive.File, error)
}

type DriveClient struct {
	service *drive.Service
	limiter *rate.Limiter
	retrier *retry.Retrier
	timeout time.Duration
}

// NewClient cria o cliente do Drive autenticado com a conta de serviço
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	opts, err := googleauth.ClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar cliente do Drive")
	}

	return NewClientWithService(cfg, service), nil
}

// NewClientWithService permite injetar um drive.Service já configurado
func NewClientWithService(cfg *config.Config, service *drive.Service) Client {
	limit := rate.Inf
	if interval := googleauth.RequestInterval(cfg.Google.RequestsPerMinute); interval > 0 {
		limit = rate.Every(interval)
	}

	return &DriveClient{
		service: service,
		limiter: rate.NewLimiter(limit, 1),
		retrier: retry.New(
			retry.Policy{MaxAttempts: cfg.API.MaxRetries, BaseDelay: cfg.APIBaseSleep()},
			retry.WithLogger(logrus.WithField("servico", "drive")),
		),
		timeout: cfg.RequestTimeout(),
	}
}

func (c *DriveClient) call(ctx context.Context, desc string, fn func(ctx context.Context) error) error {
	return c.retrier.Do(ctx, desc, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}

		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		return fn(ctx)
	})
}

func (c *DriveClient) ListFiles(ctx context.Context, params ListParams) (*drive.FileList, error) {
	var out *drive.FileList

	err := c.call(ctx, "listar arquivos do Drive", func(ctx context.Context) error {
		call := c.service.Files.List().
			Q(params.Query).
			Fields(googleapi.Field(listFields)).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Corpora("allDrives").
			Context(ctx)

		if params.PageSize > 0 {
			call = call.PageSize(params.PageSize)
		}
		if params.PageToken != "" {
			call = call.PageToken(params.PageToken)
		}
		if params.OrderBy != "" {
			call = call.OrderBy(params.OrderBy)
		}

		resp, err := call.Do()
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar arquivos")
	}

	return out, nil
}

func (c *DriveClient) Download(ctx context.Context, fileID string) ([]byte, error) {
	var content []byte

	err := c.call(ctx, fmt.Sprintf("baixar %s", fileID), func(ctx context.Context) error {
		resp, err := c.service.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
		if err != nil {
			return notFoundIsPermanent(err)
		}
		defer resp.Body.Close()

		content, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao baixar arquivo %s", fileID)
	}

	return content, nil
}

func (c *DriveClient) Export(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	var content []byte

	err := c.call(ctx, fmt.Sprintf("exportar %s", fileID), func(ctx context.Context) error {
		resp, err := c.service.Files.Export(fileID, mimeType).Context(ctx).Download()
		if err != nil {
			return notFoundIsPermanent(err)
		}
		defer resp.Body.Close()

		content, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao exportar arquivo %s", fileID)
	}

	return content, nil
}

// Delete exclui o arquivo. 403 e 404 não são retentados para permitir o fallback para a lixeira.
func (c *DriveClient) Delete(ctx context.Context, fileID string) error {
	return c.call(ctx, fmt.Sprintf("excluir %s", fileID), func(ctx context.Context) error {
		err := c.service.Files.Delete(fileID).SupportsAllDrives(true).Context(ctx).Do()
		if drivedomain.IsForbiddenOrNotFound(err) {
			return retry.Permanent(err)
		}
		return err
	})
}

func (c *DriveClient) Trash(ctx context.Context, fileID string) error {
	return c.call(ctx, fmt.Sprintf("mover %s para a lixeira", fileID), func(ctx context.Context) error {
		_, err := c.service.Files.Update(fileID, &drive.File{Trashed: true}).
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		return notFoundIsPermanent(err)
	})
}

func (c *DriveClient) Create(ctx context.Context, name, parentID, mimeType string, content []byte) (*drive.File, error) {
	var created *drive.File

	meta := &drive.File{
		Name:     name,
		Parents:  []string{parentID},
		MimeType: mimeType,
	}

	err := c.call(ctx, fmt.Sprintf("enviar %s", name), func(ctx context.Context) error {
		f, err := c.service.Files.Create(meta).
			Media(bytes.NewReader(content), googleapi.ContentType(mimeType)).
			Fields("id, name").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		created = f
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao enviar %s", name)
	}

	return created, nil
}

func notFoundIsPermanent(err error) error {
	if err != nil && drivedomain.StatusCode(err) == 404 {
		return retry.Permanent(err)
	}
	return err
}
