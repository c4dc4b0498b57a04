package http

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

const retryBaseDelay = 50 * time.Millisecond

// TxRetrier reintenta una operación completa cuando la BD abortó la transacción por un error
// transitorio (serialización, deadlock). La transacción ya hizo Rollback, así que repetirla es seguro.
type TxRetrier struct {
	maxRetries uint64
	transient  func(error) bool
}

// NewTxRetrier construye el reintentador. Con maxRetries 0 o transient nil ejecuta una sola vez.
func NewTxRetrier(maxRetries uint64, transient func(error) bool) *TxRetrier {
	return &TxRetrier{maxRetries: maxRetries, transient: transient}
}

// Do ejecuta fn y la repite con backoff exponencial mientras el error sea transitorio.
func (r *TxRetrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.maxRetries == 0 || r.transient == nil {
		return fn(ctx)
	}
	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(retryBaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && r.transient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
