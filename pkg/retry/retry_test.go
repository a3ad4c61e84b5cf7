package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedSleeps struct {
	waits []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func TestDo_FailsTwiceThenSucceeds(t *testing.T) {
	sleeps := &recordedSleeps{}
	r := New(Policy{MaxAttempts: 6, BaseDelay: 2 * time.Second}, WithSleep(sleeps.sleep))

	calls := 0
	got, err := Value(context.Background(), r, "leitura", func(ctx context.Context) (string, error) {
		calls++
		if calls <= 2 {
			return "", errors.New("503 backend error")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeps.waits)
}

func TestDo_Exhausted(t *testing.T) {
	sleeps := &recordedSleeps{}
	r := New(Policy{MaxAttempts: 3, BaseDelay: 5 * time.Second}, WithSleep(sleeps.sleep))

	boom := errors.New("quota exceeded")
	calls := 0
	err := r.Do(context.Background(), "update A1:AN10", func(ctx context.Context) error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	// não aguarda depois da última tentativa
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, sleeps.waits)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	sleeps := &recordedSleeps{}
	r := New(Policy{MaxAttempts: 6, BaseDelay: time.Second}, WithSleep(sleeps.sleep))

	notFound := errors.New("404 not found")
	calls := 0
	err := r.Do(context.Background(), "abrir planilha", func(ctx context.Context) error {
		calls++
		return Permanent(notFound)
	})

	assert.ErrorIs(t, err, notFound)
	assert.NotErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps.waits)
}

func TestDo_CustomClassifier(t *testing.T) {
	r := New(Policy{MaxAttempts: 4, BaseDelay: time.Millisecond},
		WithSleep(func(context.Context, time.Duration) error { return nil }),
		WithClassifier(func(err error) Outcome {
			if err == nil {
				return Success
			}
			return Fatal
		}),
	)

	calls := 0
	err := r.Do(context.Background(), "x", func(ctx context.Context) error {
		calls++
		return errors.New("permission denied")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Policy{MaxAttempts: 3, BaseDelay: time.Hour})
	err := r.Do(ctx, "x", func(ctx context.Context) error {
		return errors.New("timeout")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Success, Classify(nil))
	assert.Equal(t, Retryable, Classify(errors.New("qualquer")))
	assert.Equal(t, Fatal, Classify(Permanent(errors.New("x"))))
	assert.Equal(t, Fatal, Classify(context.Canceled))
	assert.Nil(t, Permanent(nil))
	assert.Equal(t, "retryable", Retryable.String())
}

func TestNew_MinimumOneAttempt(t *testing.T) {
	r := New(Policy{MaxAttempts: 0, BaseDelay: time.Second})
	assert.Equal(t, 1, r.Policy().MaxAttempts)
	assert.Equal(t, 3*time.Second, r.Backoff(3))
}
