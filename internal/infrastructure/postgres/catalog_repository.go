package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

var (
	_ repository.IngredientRepository = (*IngredientRepo)(nil)
	_ repository.MenuItemRepository   = (*MenuItemRepo)(nil)
)

// IngredientRepo catálogo de insumos.
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

const ingredientColumns = `id, company_id, name, unit, quantity_in_stock, created_at, updated_at`

func scanIngredient(row pgx.Row) (*entity.Ingredient, error) {
	var i entity.Ingredient
	if err := row.Scan(&i.ID, &i.CompanyID, &i.Name, &i.Unit, &i.QuantityInStock, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// GetByID obtiene un insumo de la empresa; nil si no existe.
func (r *IngredientRepo) GetByID(ctx context.Context, id, companyID string) (*entity.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1 AND company_id = $2`
	ing, err := scanIngredient(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

// ListByCompany insumos de la empresa por nombre.
func (r *IngredientRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE company_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, ing)
	}
	return list, rows.Err()
}

// SyncStock recalcula quantity_in_stock desde ingredient_lots.
func (r *IngredientRepo) SyncStock(ctx context.Context, id, companyID string) error {
	query := `
		UPDATE ingredients SET quantity_in_stock = (
			SELECT COALESCE(SUM(quantity), 0) FROM ingredient_lots WHERE ingredient_id = $1 AND company_id = $2
		), updated_at = now()
		WHERE id = $1 AND company_id = $2`
	if _, err := r.q.Exec(ctx, query, id, companyID); err != nil {
		return fmt.Errorf("sync ingredient stock: %w", err)
	}
	return nil
}

// MenuItemRepo productos del menú y sus recetas.
type MenuItemRepo struct {
	q Querier
}

// NewMenuItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMenuItemRepository(q Querier) *MenuItemRepo {
	return &MenuItemRepo{q: q}
}

const menuItemColumns = `id, company_id, name, unit, price, stock, created_at, updated_at`

func scanMenuItem(row pgx.Row) (*entity.MenuItem, error) {
	var m entity.MenuItem
	if err := row.Scan(&m.ID, &m.CompanyID, &m.Name, &m.Unit, &m.Price, &m.Stock, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID obtiene un producto de la empresa; nil si no existe.
func (r *MenuItemRepo) GetByID(ctx context.Context, id, companyID string) (*entity.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1 AND company_id = $2`
	item, err := scanMenuItem(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return item, nil
}

// ListByCompany productos de la empresa por nombre.
func (r *MenuItemRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE company_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()
	var list []*entity.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// ListRecipe líneas de receta del producto, solo si pertenece a la empresa.
func (r *MenuItemRepo) ListRecipe(ctx context.Context, menuItemID, companyID string) ([]*entity.RecipeIngredient, error) {
	query := `
		SELECT ri.menu_item_id, ri.ingredient_id, ri.quantity, ri.shrinkage_percentage, ri.unit
		FROM recipe_ingredients ri
		JOIN menu_items m ON m.id = ri.menu_item_id
		WHERE ri.menu_item_id = $1 AND m.company_id = $2
		ORDER BY ri.ingredient_id`
	rows, err := r.q.Query(ctx, query, menuItemID, companyID)
	if err != nil {
		return nil, fmt.Errorf("list recipe: %w", err)
	}
	defer rows.Close()
	var list []*entity.RecipeIngredient
	for rows.Next() {
		var ri entity.RecipeIngredient
		if err := rows.Scan(&ri.MenuItemID, &ri.IngredientID, &ri.Quantity, &ri.ShrinkagePercentage, &ri.Unit); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		list = append(list, &ri)
	}
	return list, rows.Err()
}

// SyncStock recalcula stock desde menu_item_lots.
func (r *MenuItemRepo) SyncStock(ctx context.Context, id, companyID string) error {
	query := `
		UPDATE menu_items SET stock = (
			SELECT COALESCE(SUM(quantity), 0) FROM menu_item_lots WHERE menu_item_id = $1 AND company_id = $2
		), updated_at = now()
		WHERE id = $1 AND company_id = $2`
	if _, err := r.q.Exec(ctx, query, id, companyID); err != nil {
		return fmt.Errorf("sync menu item stock: %w", err)
	}
	return nil
}
