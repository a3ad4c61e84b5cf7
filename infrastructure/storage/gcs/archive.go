package gcs

import (
	"context"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/googleauth"
	"github.com/vfg2006/oea-pipeline/internal/config"
)

// Archiver guarda uma cópia dos CSVs publicados em um bucket do GCS
type Archiver struct {
	client *storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

func NewArchiver(ctx context.Context, cfg *config.Config) (*Archiver, error) {
	if err := googleauth.CheckCredentials(cfg.Google.CredentialsFile); err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx, option.WithCredentialsFile(cfg.Google.CredentialsFile))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar cliente do GCS")
	}

	return &Archiver{
		client: client,
		bucket: cfg.Archive.Bucket,
		prefix: cfg.Archive.Prefix,
		now:    time.Now,
	}, nil
}

// Archive grava o conteúdo em <prefixo>/AAAA/MM/DD/<nome> e retorna o caminho gs://
func (a *Archiver) Archive(ctx context.Context, name string, content []byte) (string, error) {
	object := ObjectName(a.prefix, a.now(), name)

	w := a.client.Bucket(a.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "text/csv; charset=utf-8"
	w.CacheControl = "no-cache, no-store, must-revalidate"

	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return "", errors.Wrapf(err, "erro ao gravar %s no bucket %s", object, a.bucket)
	}

	if err := w.Close(); err != nil {
		return "", errors.Wrapf(err, "erro ao finalizar %s no bucket %s", object, a.bucket)
	}

	uri := "gs://" + a.bucket + "/" + object
	logrus.WithFields(logrus.Fields{
		"arquivo": name,
		"destino": uri,
	}).Info("CSV arquivado no GCS")

	return uri, nil
}

func (a *Archiver) Close() error {
	return a.client.Close()
}

// ObjectName monta o nome do objeto particionado pela data de execução
func ObjectName(prefix string, at time.Time, name string) string {
	return path.Join(prefix, at.Format("2006/01/02"), name)
}
