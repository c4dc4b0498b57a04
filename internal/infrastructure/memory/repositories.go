package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

var (
	_ repository.LotRepository           = (*LotRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.StockAuditRepository    = (*StockAuditRepo)(nil)
	_ repository.WasteLogRepository      = (*WasteLogRepo)(nil)
	_ repository.IngredientRepository    = (*IngredientRepo)(nil)
	_ repository.MenuItemRepository      = (*MenuItemRepo)(nil)
)

// scope decide si cada operación toma el mutex (fuera de transacción) o si ya lo tiene el TxRunner.
// Un repositorio sin transacción usado dentro de TxRunner.Run se bloquearía.
type scope struct {
	store *Store
	inTx  bool
}

func (sc scope) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !sc.inTx {
		sc.store.mu.Lock()
		defer sc.store.mu.Unlock()
	}
	return fn(sc.store.st)
}

// LotRepo lotes de insumos y productos del menú.
type LotRepo struct{ scope }

// NewLotRepository repositorio de lotes fuera de transacción.
func NewLotRepository(s *Store) *LotRepo { return &LotRepo{scope{store: s}} }

func (r *LotRepo) GetByID(ctx context.Context, kind entity.LotKind, id int64, companyID string) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.do(ctx, func(st *state) error {
		if l, ok := st.lots[kind][id]; ok && l.CompanyID == companyID {
			out = l.Clone()
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el TxRunner ya serializa las transacciones.
func (r *LotRepo) GetForUpdate(ctx context.Context, kind entity.LotKind, id int64, companyID string) (*entity.Lot, error) {
	return r.GetByID(ctx, kind, id, companyID)
}

func (r *LotRepo) ListByEntity(ctx context.Context, kind entity.LotKind, entityID, companyID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.do(ctx, func(st *state) error {
		for _, l := range st.lotsOf(kind, entityID, companyID) {
			out = append(out, l.Clone())
		}
		return nil
	})
	return out, err
}

func (r *LotRepo) ListByEntityForUpdate(ctx context.Context, kind entity.LotKind, entityID, companyID string) ([]*entity.Lot, error) {
	return r.ListByEntity(ctx, kind, entityID, companyID)
}

func (r *LotRepo) ListAvailableByExpiration(ctx context.Context, kind entity.LotKind, entityID, companyID string) ([]*entity.Lot, error) {
	all, err := r.ListByEntity(ctx, kind, entityID, companyID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, l := range all {
		if l.Quantity.GreaterThan(decimal.Zero) {
			out = append(out, l)
		}
	}
	inventory.SortByExpiration(out)
	return out, nil
}

func (r *LotRepo) Receive(ctx context.Context, lot *entity.Lot) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.do(ctx, func(st *state) error {
		for _, l := range st.lotsOf(lot.Kind, lot.EntityID, lot.CompanyID) {
			if l.LotNumber != lot.LotNumber {
				continue
			}
			l.Quantity = l.Quantity.Add(lot.Quantity)
			l.UnitCost = lot.UnitCost
			if l.ExpirationDate == nil && lot.ExpirationDate != nil {
				exp := *lot.ExpirationDate
				l.ExpirationDate = &exp
			}
			l.UpdatedAt = time.Now()
			out = l.Clone()
			return nil
		}
		st.lotSeq[lot.Kind]++
		created := lot.Clone()
		created.ID = st.lotSeq[lot.Kind]
		st.lots[lot.Kind][created.ID] = created
		out = created.Clone()
		return nil
	})
	return out, err
}

func (r *LotRepo) Decrease(ctx context.Context, kind entity.LotKind, id int64, companyID string, qty decimal.Decimal) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.do(ctx, func(st *state) error {
		l, ok := st.lots[kind][id]
		if !ok || l.CompanyID != companyID || l.Quantity.LessThan(qty) {
			return nil
		}
		l.Quantity = l.Quantity.Sub(qty)
		l.UpdatedAt = time.Now()
		out = l.Clone()
		return nil
	})
	return out, err
}

// StockMovementRepo libro de movimientos, solo inserción.
type StockMovementRepo struct{ scope }

// NewStockMovementRepository repositorio de movimientos fuera de transacción.
func NewStockMovementRepository(s *Store) *StockMovementRepo {
	return &StockMovementRepo{scope{store: s}}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.do(ctx, func(st *state) error {
		cp := *m
		st.movements = append(st.movements, &cp)
		return nil
	})
}

func (r *StockMovementRepo) ListByEntity(ctx context.Context, kind entity.LotKind, entityID, companyID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.do(ctx, func(st *state) error {
		// recorrido inverso: más recientes primero, también con CreatedAt empatado
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.Kind == kind && m.EntityID == entityID && m.CompanyID == companyID {
				cp := *m
				out = append(out, &cp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []*entity.StockMovement{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// StockAuditRepo auditorías de stock.
type StockAuditRepo struct{ scope }

// NewStockAuditRepository repositorio de auditorías fuera de transacción.
func NewStockAuditRepository(s *Store) *StockAuditRepo { return &StockAuditRepo{scope{store: s}} }

func (r *StockAuditRepo) Create(ctx context.Context, a *entity.StockAudit) error {
	return r.do(ctx, func(st *state) error {
		cp := *a
		st.audits[a.ID] = &cp
		return nil
	})
}

func (r *StockAuditRepo) GetByID(ctx context.Context, id, companyID string) (*entity.StockAudit, error) {
	var out *entity.StockAudit
	err := r.do(ctx, func(st *state) error {
		if a, ok := st.audits[id]; ok && a.CompanyID == companyID {
			cp := *a
			out = &cp
		}
		return nil
	})
	return out, err
}

// WasteLogRepo registros de merma.
type WasteLogRepo struct{ scope }

// NewWasteLogRepository repositorio de mermas fuera de transacción.
func NewWasteLogRepository(s *Store) *WasteLogRepo { return &WasteLogRepo{scope{store: s}} }

func (r *WasteLogRepo) Create(ctx context.Context, w *entity.WasteLog) error {
	return r.do(ctx, func(st *state) error {
		cp := *w
		st.wasteLogs = append(st.wasteLogs, &cp)
		return nil
	})
}

// IngredientRepo catálogo de insumos.
type IngredientRepo struct{ scope }

// NewIngredientRepository repositorio de insumos fuera de transacción.
func NewIngredientRepository(s *Store) *IngredientRepo { return &IngredientRepo{scope{store: s}} }

func (r *IngredientRepo) GetByID(ctx context.Context, id, companyID string) (*entity.Ingredient, error) {
	var out *entity.Ingredient
	err := r.do(ctx, func(st *state) error {
		if ing, ok := st.ingredients[id]; ok && ing.CompanyID == companyID {
			cp := *ing
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *IngredientRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Ingredient, error) {
	var out []*entity.Ingredient
	err := r.do(ctx, func(st *state) error {
		for _, ing := range st.ingredients {
			if ing.CompanyID == companyID {
				cp := *ing
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *IngredientRepo) SyncStock(ctx context.Context, id, companyID string) error {
	return r.do(ctx, func(st *state) error {
		st.syncStock(entity.LotKindIngredient, id, companyID)
		return nil
	})
}

// MenuItemRepo productos del menú y recetas.
type MenuItemRepo struct{ scope }

// NewMenuItemRepository repositorio de productos fuera de transacción.
func NewMenuItemRepository(s *Store) *MenuItemRepo { return &MenuItemRepo{scope{store: s}} }

func (r *MenuItemRepo) GetByID(ctx context.Context, id, companyID string) (*entity.MenuItem, error) {
	var out *entity.MenuItem
	err := r.do(ctx, func(st *state) error {
		if item, ok := st.menuItems[id]; ok && item.CompanyID == companyID {
			cp := *item
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *MenuItemRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.MenuItem, error) {
	var out []*entity.MenuItem
	err := r.do(ctx, func(st *state) error {
		for _, item := range st.menuItems {
			if item.CompanyID == companyID {
				cp := *item
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *MenuItemRepo) ListRecipe(ctx context.Context, menuItemID, companyID string) ([]*entity.RecipeIngredient, error) {
	var out []*entity.RecipeIngredient
	err := r.do(ctx, func(st *state) error {
		if item, ok := st.menuItems[menuItemID]; !ok || item.CompanyID != companyID {
			return nil
		}
		for _, line := range st.recipes[menuItemID] {
			cp := *line
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *MenuItemRepo) SyncStock(ctx context.Context, id, companyID string) error {
	return r.do(ctx, func(st *state) error {
		st.syncStock(entity.LotKindMenuItem, id, companyID)
		return nil
	})
}
