// Package memory implementa los repositorios del libro de stock en memoria.
// Las transacciones se serializan con un único mutex y el rollback restaura una copia del estado.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	ingredients map[string]*entity.Ingredient
	menuItems   map[string]*entity.MenuItem
	recipes     map[string][]*entity.RecipeIngredient
	lots        map[entity.LotKind]map[int64]*entity.Lot
	lotSeq      map[entity.LotKind]int64
	movements   []*entity.StockMovement
	audits      map[string]*entity.StockAudit
	wasteLogs   []*entity.WasteLog
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: &state{
		ingredients: map[string]*entity.Ingredient{},
		menuItems:   map[string]*entity.MenuItem{},
		recipes:     map[string][]*entity.RecipeIngredient{},
		lots: map[entity.LotKind]map[int64]*entity.Lot{
			entity.LotKindIngredient: {},
			entity.LotKindMenuItem:   {},
		},
		lotSeq:    map[entity.LotKind]int64{},
		audits:    map[string]*entity.StockAudit{},
	}}
}

func (s *state) clone() *state {
	c := &state{
		ingredients: make(map[string]*entity.Ingredient, len(s.ingredients)),
		menuItems:   make(map[string]*entity.MenuItem, len(s.menuItems)),
		recipes:     make(map[string][]*entity.RecipeIngredient, len(s.recipes)),
		lots:        make(map[entity.LotKind]map[int64]*entity.Lot, len(s.lots)),
		lotSeq:      make(map[entity.LotKind]int64, len(s.lotSeq)),
		movements:   append([]*entity.StockMovement(nil), s.movements...),
		audits:      make(map[string]*entity.StockAudit, len(s.audits)),
		wasteLogs:   append([]*entity.WasteLog(nil), s.wasteLogs...),
	}
	for k, v := range s.ingredients {
		cp := *v
		c.ingredients[k] = &cp
	}
	for k, v := range s.menuItems {
		cp := *v
		c.menuItems[k] = &cp
	}
	for k, v := range s.recipes {
		c.recipes[k] = append([]*entity.RecipeIngredient(nil), v...)
	}
	for kind, byID := range s.lots {
		m := make(map[int64]*entity.Lot, len(byID))
		for id, l := range byID {
			m[id] = l.Clone()
		}
		c.lots[kind] = m
	}
	for k, v := range s.lotSeq {
		c.lotSeq[k] = v
	}
	for k, v := range s.audits {
		c.audits[k] = v
	}
	return c
}

// lotsOf lotes de la entidad dentro de la empresa, por ID ascendente.
func (s *state) lotsOf(kind entity.LotKind, entityID, companyID string) []*entity.Lot {
	var out []*entity.Lot
	for _, l := range s.lots[kind] {
		if l.EntityID == entityID && l.CompanyID == companyID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *state) sumLots(kind entity.LotKind, entityID, companyID string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lotsOf(kind, entityID, companyID) {
		total = total.Add(l.Quantity)
	}
	return total
}

// --- carga de datos (catálogo y lotes iniciales) ---

// AddIngredient registra un insumo y lo devuelve.
func (s *Store) AddIngredient(companyID, name, unit string) *entity.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	ing := &entity.Ingredient{
		ID: uuid.New().String(), CompanyID: companyID, Name: name, Unit: unit,
		QuantityInStock: decimal.Zero, CreatedAt: now, UpdatedAt: now,
	}
	s.st.ingredients[ing.ID] = ing
	cp := *ing
	return &cp
}

// AddMenuItem registra un producto del menú y lo devuelve.
func (s *Store) AddMenuItem(companyID, name, unit string, price decimal.Decimal) *entity.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	item := &entity.MenuItem{
		ID: uuid.New().String(), CompanyID: companyID, Name: name, Unit: unit,
		Price: price, Stock: decimal.Zero, CreatedAt: now, UpdatedAt: now,
	}
	s.st.menuItems[item.ID] = item
	cp := *item
	return &cp
}

// AddRecipeLine agrega una línea a la receta del producto.
func (s *Store) AddRecipeLine(line entity.RecipeIngredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := line
	s.st.recipes[line.MenuItemID] = append(s.st.recipes[line.MenuItemID], &cp)
}

// AddLot crea un lote directamente (sin movimiento) y actualiza el caché de stock.
func (s *Store) AddLot(lot entity.Lot) *entity.Lot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.lotSeq[lot.Kind]++
	l := lot.Clone()
	l.ID = s.st.lotSeq[lot.Kind]
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
		l.UpdatedAt = l.CreatedAt
	}
	s.st.lots[lot.Kind][l.ID] = l
	s.st.syncStock(lot.Kind, lot.EntityID, lot.CompanyID)
	return l.Clone()
}

func (s *state) syncStock(kind entity.LotKind, id, companyID string) bool {
	total := s.sumLots(kind, id, companyID)
	if kind == entity.LotKindMenuItem {
		item, ok := s.menuItems[id]
		if !ok || item.CompanyID != companyID {
			return false
		}
		item.Stock = total
		item.UpdatedAt = time.Now()
		return true
	}
	ing, ok := s.ingredients[id]
	if !ok || ing.CompanyID != companyID {
		return false
	}
	ing.QuantityInStock = total
	ing.UpdatedAt = time.Now()
	return true
}

// --- lecturas para verificación ---

// Lot devuelve una copia del lote o nil.
func (s *Store) Lot(kind entity.LotKind, id int64) *entity.Lot {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.st.lots[kind][id]
	if !ok {
		return nil
	}
	return l.Clone()
}

// Movements copia del libro completo en orden de inserción.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockMovement, 0, len(s.st.movements))
	for _, m := range s.st.movements {
		out = append(out, *m)
	}
	return out
}

// WasteLogs copia de los registros de merma.
func (s *Store) WasteLogs() []entity.WasteLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.WasteLog, 0, len(s.st.wasteLogs))
	for _, w := range s.st.wasteLogs {
		out = append(out, *w)
	}
	return out
}

// AuditCount cantidad de auditorías guardadas.
func (s *Store) AuditCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.audits)
}
