// Package script cria as tabelas do histórico de execuções do pipeline.
package script

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/oea-pipeline/infrastructure/database/postgres"
)

// Migration é um passo idempotente do esquema
type Migration struct {
	Name      string
	Statement string
}

var Migrations = []Migration{
	{
		Name: "create pipeline_runs",
		Statement: `
			CREATE TABLE IF NOT EXISTS pipeline_runs (
				id          VARCHAR(16) PRIMARY KEY,
				trigger     VARCHAR(32) NOT NULL,
				status      VARCHAR(16) NOT NULL,
				started_at  TIMESTAMPTZ NOT NULL,
				finished_at TIMESTAMPTZ,
				error       TEXT
			)`,
	},
	{
		Name: "index pipeline_runs.started_at",
		Statement: `
			CREATE INDEX IF NOT EXISTS pipeline_runs_started_at_idx
				ON pipeline_runs (started_at DESC)`,
	},
	{
		Name: "create pipeline_step_attempts",
		Statement: `
			CREATE TABLE IF NOT EXISTS pipeline_step_attempts (
				run_id      VARCHAR(16) NOT NULL REFERENCES pipeline_runs (id) ON DELETE CASCADE,
				step        VARCHAR(32) NOT NULL,
				attempt     INTEGER NOT NULL,
				exit_code   INTEGER NOT NULL,
				log_file    TEXT NOT NULL,
				started_at  TIMESTAMPTZ NOT NULL,
				duration_ms BIGINT NOT NULL,
				succeeded   BOOLEAN NOT NULL DEFAULT FALSE,
				CONSTRAINT pipeline_step_attempts_unique UNIQUE (run_id, step, attempt)
			)`,
	},
}

// Run aplica todas as migrações em uma única transação
func Run(ctx context.Context, conn postgres.Conn) error {
	logrus.Info("Iniciando migração do histórico de execuções...")
	startTime := time.Now()

	err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for i, m := range Migrations {
			if _, err := tx.ExecContext(ctx, m.Statement); err != nil {
				return fmt.Errorf("migração %q: %w", m.Name, err)
			}
			logrus.Infof("Progresso: %d/%d migrações aplicadas (%s)", i+1, len(Migrations), m.Name)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.Infof("Migração concluída em %v", time.Since(startTime))
	return nil
}
