package memory

import (
	"context"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones sobre el Store: toma el mutex durante todo fn y,
// si fn falla, restaura el estado previo.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{store: s}
}

// Run ejecuta fn con repositorios atados a la transacción. Los callbacks AfterCommit
// se ejecutan después de liberar el mutex.
func (r *TxRunner) Run(ctx context.Context, fn func(uow *inventory.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	uow, err := r.run(ctx, fn)
	if err != nil {
		return err
	}
	uow.Committed()
	return nil
}

func (r *TxRunner) run(ctx context.Context, fn func(uow *inventory.UnitOfWork) error) (*inventory.UnitOfWork, error) {
	r.store.mu.Lock()
	snapshot := r.store.st.clone()
	committed := false
	defer func() {
		if !committed {
			r.store.st = snapshot
		}
		r.store.mu.Unlock()
	}()

	sc := scope{store: r.store, inTx: true}
	uow := &inventory.UnitOfWork{
		Lots:        &LotRepo{sc},
		Movements:   &StockMovementRepo{sc},
		Audits:      &StockAuditRepo{sc},
		WasteLogs:   &WasteLogRepo{sc},
		Ingredients: &IngredientRepo{sc},
		MenuItems:   &MenuItemRepo{sc},
	}
	if err := fn(uow); err != nil {
		return nil, err
	}
	committed = true
	return uow, nil
}
