package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/oea-pipeline/internal/config"
)

// ErrNoDSN indica que o histórico de execuções não está configurado
var ErrNoDSN = errors.New("DATABASE_URL não configurada")

// O histórico grava poucas linhas por execução; um pool pequeno basta
const (
	maxOpenConns   = 4
	maxIdleConns   = 2
	connMaxIdle    = 5 * time.Minute
	connectTimeout = 10 * time.Second
)

type Conn interface {
	Queryer
	Close() error
	Ping(context.Context) error
	RunInTransaction(context.Context, func(*sql.Tx) error) error
}

type Connection struct {
	*sql.DB
}

// NewConnection abre o pool e confirma que o banco responde
func NewConnection(ctx context.Context, cfg config.Database) (*Connection, error) {
	if cfg.DSN == "" {
		return nil, ErrNoDSN
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão %s: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdle)

	conn := &Connection{DB: db}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("banco não respondeu em %s: %w", connectTimeout, err)
	}

	logrus.WithField("driver", cfg.Driver).Debug("Pool do PostgreSQL configurado")
	return conn, nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// RunInTransaction executa fn em uma transação: commit se fn retornar nil,
// rollback caso contrário (inclusive em panic, que é repassado)
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		return errors.Join(err, rollbackErr(tx.Rollback()))
	}

	return tx.Commit()
}

func rollbackErr(err error) error {
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return fmt.Errorf("rollback: %w", err)
}
