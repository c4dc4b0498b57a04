package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient insumo del catálogo de la empresa.
// QuantityInStock es un caché de la suma de sus lotes; lo mantiene el libro de stock.
type Ingredient struct {
	ID              string
	CompanyID       string
	Name            string
	Unit            string
	QuantityInStock decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MenuItem producto del menú. Stock es un caché de la suma de sus lotes.
type MenuItem struct {
	ID        string
	CompanyID string
	Name      string
	Unit      string
	Price     decimal.Decimal
	Stock     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecipeIngredient línea de receta: cantidad de insumo por unidad producida.
type RecipeIngredient struct {
	MenuItemID          string
	IngredientID        string
	Quantity            decimal.Decimal
	ShrinkagePercentage decimal.Decimal // merma de preparación, 0..100
	Unit                string
}
