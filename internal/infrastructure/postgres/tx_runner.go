package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los callbacks AfterCommit del UnitOfWork corren solo tras un Commit exitoso.
func (r *TxRunner) Run(ctx context.Context, fn func(uow *inventory.UnitOfWork) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	uow := &inventory.UnitOfWork{
		Lots:        NewLotRepository(tx),
		Movements:   NewStockMovementRepository(tx),
		Audits:      NewStockAuditRepository(tx),
		WasteLogs:   NewWasteLogRepository(tx),
		Ingredients: NewIngredientRepository(tx),
		MenuItems:   NewMenuItemRepository(tx),
	}
	if err := fn(uow); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	uow.Committed()
	return nil
}
