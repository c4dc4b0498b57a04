package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes sobre ingredient_lots y menu_item_lots (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// lotTable tabla y columna dueña según el tipo de lote.
func lotTable(kind entity.LotKind) (table, owner string, err error) {
	switch kind {
	case entity.LotKindIngredient:
		return "ingredient_lots", "ingredient_id", nil
	case entity.LotKindMenuItem:
		return "menu_item_lots", "menu_item_id", nil
	}
	return "", "", fmt.Errorf("tipo de lote desconocido: %q", kind)
}

func lotColumns(owner string) string {
	return "id, " + owner + ", company_id, lot_number, quantity, unit_cost, expiration_date, created_at, updated_at"
}

func scanLot(row pgx.Row, kind entity.LotKind) (*entity.Lot, error) {
	l := entity.Lot{Kind: kind}
	if err := row.Scan(&l.ID, &l.EntityID, &l.CompanyID, &l.LotNumber, &l.Quantity,
		&l.UnitCost, &l.ExpirationDate, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LotRepo) getOne(ctx context.Context, kind entity.LotKind, id int64, companyID string, lock bool) (*entity.Lot, error) {
	table, owner, err := lotTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND company_id = $2`, lotColumns(owner), table)
	if lock {
		query += " FOR UPDATE"
	}
	l, err := scanLot(r.q.QueryRow(ctx, query, id, companyID), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// GetByID obtiene un lote de la empresa.
func (r *LotRepo) GetByID(ctx context.Context, kind entity.LotKind, id int64, companyID string) (*entity.Lot, error) {
	return r.getOne(ctx, kind, id, companyID, false)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(ctx context.Context, kind entity.LotKind, id int64, companyID string) (*entity.Lot, error) {
	return r.getOne(ctx, kind, id, companyID, true)
}

func (r *LotRepo) list(ctx context.Context, kind entity.LotKind, entityID, companyID, tail string) ([]*entity.Lot, error) {
	table, owner, err := lotTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND company_id = $2 %s`,
		lotColumns(owner), table, owner, tail)
	rows, err := r.q.Query(ctx, query, entityID, companyID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// ListByEntity lotes de la entidad por ID ascendente.
func (r *LotRepo) ListByEntity(ctx context.Context, kind entity.LotKind, entityID, companyID string) ([]*entity.Lot, error) {
	return r.list(ctx, kind, entityID, companyID, "ORDER BY id")
}

// ListByEntityForUpdate igual que ListByEntity bloqueando todas las filas.
func (r *LotRepo) ListByEntityForUpdate(ctx context.Context, kind entity.LotKind, entityID, companyID string) ([]*entity.Lot, error) {
	return r.list(ctx, kind, entityID, companyID, "ORDER BY id FOR UPDATE")
}

// ListAvailableByExpiration lotes con cantidad, los que vencen primero adelante.
func (r *LotRepo) ListAvailableByExpiration(ctx context.Context, kind entity.LotKind, entityID, companyID string) ([]*entity.Lot, error) {
	return r.list(ctx, kind, entityID, companyID, "AND quantity > 0 ORDER BY expiration_date ASC NULLS LAST, id")
}

// Receive inserta el lote o, si (entidad, lot_number, empresa) ya existe, suma la cantidad,
// sobrescribe el costo y conserva el vencimiento que ya tenía.
func (r *LotRepo) Receive(ctx context.Context, lot *entity.Lot) (*entity.Lot, error) {
	table, owner, err := lotTable(lot.Kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, company_id, lot_number, quantity, unit_cost, expiration_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (%[2]s, lot_number, company_id) DO UPDATE SET
			quantity        = %[1]s.quantity + EXCLUDED.quantity,
			unit_cost       = EXCLUDED.unit_cost,
			expiration_date = COALESCE(%[1]s.expiration_date, EXCLUDED.expiration_date),
			updated_at      = now()
		RETURNING %[3]s`, table, owner, lotColumns(owner))
	l, err := scanLot(r.q.QueryRow(ctx, query,
		lot.EntityID, lot.CompanyID, lot.LotNumber, lot.Quantity, lot.UnitCost, lot.ExpirationDate,
	), lot.Kind)
	if err != nil {
		return nil, fmt.Errorf("receive lot: %w", err)
	}
	return l, nil
}

// Decrease descuenta qty con guarda quantity >= qty. Devuelve nil, nil si la guarda no se cumple.
func (r *LotRepo) Decrease(ctx context.Context, kind entity.LotKind, id int64, companyID string, qty decimal.Decimal) (*entity.Lot, error) {
	table, owner, err := lotTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		UPDATE %s SET quantity = quantity - $1, updated_at = now()
		WHERE id = $2 AND company_id = $3 AND quantity >= $1
		RETURNING %s`, table, lotColumns(owner))
	l, err := scanLot(r.q.QueryRow(ctx, query, qty, id, companyID), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("decrease lot: %w", err)
	}
	return l, nil
}
