// Package retry executa chamadas remotas com espera linear entre tentativas.
//
// Cada tentativa produz um resultado explícito (Success, Retryable ou Fatal).
// Por padrão qualquer erro é considerado Retryable: a API não diferencia erros
// transitórios de permanentes. Use Permanent para interromper as tentativas.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Outcome é o resultado classificado de uma tentativa
type Outcome int

const (
	Success Outcome = iota
	Retryable
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Retryable:
		return "retryable"
	case Fatal:
		return "fatal"
	}
	return "unknown"
}

// ErrRetryExhausted indica que todas as tentativas falharam
var ErrRetryExhausted = errors.New("tentativas esgotadas")

// Policy define o teto de tentativas e a espera base (espera = BaseDelay * tentativa)
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Classifier decide o que fazer com o erro de uma tentativa
type Classifier func(err error) Outcome

// SleepFunc aguarda d ou até o contexto ser cancelado
type SleepFunc func(ctx context.Context, d time.Duration) error

type Retrier struct {
	policy   Policy
	classify Classifier
	sleep    SleepFunc
	logger   logrus.FieldLogger
}

type Option func(*Retrier)

func WithClassifier(c Classifier) Option {
	return func(r *Retrier) {
		r.classify = c
	}
}

func WithSleep(s SleepFunc) Option {
	return func(r *Retrier) {
		r.sleep = s
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Retrier) {
		r.logger = l
	}
}

// New cria um Retrier. MaxAttempts menor que 1 vira 1.
func New(policy Policy, opts ...Option) *Retrier {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	r := &Retrier{
		policy:   policy,
		classify: Classify,
		sleep:    ContextSleep,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy retorna a política configurada
func (r *Retrier) Policy() Policy {
	return r.policy
}

// Do executa fn até obter sucesso, erro fatal ou esgotar as tentativas
func (r *Retrier) Do(ctx context.Context, desc string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		lastErr = fn(ctx)

		switch r.classify(lastErr) {
		case Success:
			return nil
		case Fatal:
			return lastErr
		}

		if attempt == r.policy.MaxAttempts {
			break
		}

		wait := r.Backoff(attempt)
		r.logger.WithFields(logrus.Fields{
			"operacao":   desc,
			"tentativa":  attempt,
			"tentativas": r.policy.MaxAttempts,
			"espera":     wait.String(),
		}).WithError(lastErr).Warn("Falha na chamada, tentando novamente")

		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}

	return fmt.Errorf("%s: %w: %w", desc, ErrRetryExhausted, lastErr)
}

// Backoff retorna a espera após a tentativa informada (1-based)
func (r *Retrier) Backoff(attempt int) time.Duration {
	return r.policy.BaseDelay * time.Duration(attempt)
}

// Value é a variante de Do para chamadas que retornam um valor
func Value[T any](ctx context.Context, r *Retrier, desc string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := r.Do(ctx, desc, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Classify é o classificador padrão: nil é sucesso, cancelamento e erros
// marcados com Permanent são fatais, o resto é retentável.
func Classify(err error) Outcome {
	if err == nil {
		return Success
	}

	var perm *permanentError
	if errors.As(err, &perm) {
		return Fatal
	}

	if errors.Is(err, context.Canceled) {
		return Fatal
	}

	return Retryable
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent marca o erro como não retentável
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// ContextSleep aguarda d respeitando o cancelamento do contexto
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
