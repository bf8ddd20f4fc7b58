// Package memory implementa los puertos de persistencia en memoria del proceso.
// Sirve para desarrollo local (STORAGE_DRIVER=memory) y para los tests de casos de uso y handlers.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/bodegas-api/internal/domain/entity"
	"github.com/jhoicas/bodegas-api/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository = (*Store)(nil)
	_ repository.InventoryRepository = (*Store)(nil)
)

type categoryKey struct {
	warehouseID string
	category    string
}

// Store guarda bodegas y las dos vistas de inventario tras un único mutex, de modo que
// cada escritura doble es atómica.
type Store struct {
	mu         sync.RWMutex
	warehouses map[string]entity.Warehouse
	byItem     map[string]map[string]entity.InventoryItem      // warehouse -> inventory_id
	byCategory map[categoryKey]map[string]entity.InventoryItem // (warehouse, category) -> inventory_id
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		warehouses: make(map[string]entity.Warehouse),
		byItem:     make(map[string]map[string]entity.InventoryItem),
		byCategory: make(map[categoryKey]map[string]entity.InventoryItem),
	}
}

// CreateIfAbsent inserta la bodega si el ID no existe.
func (s *Store) CreateIfAbsent(_ context.Context, w *entity.Warehouse) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[w.ID]; ok {
		return false, nil
	}
	s.warehouses[w.ID] = *w
	return true, nil
}

// GetByID obtiene una bodega por ID.
func (s *Store) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// ListAll lista todas las bodegas.
func (s *Store) ListAll(_ context.Context) ([]*entity.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.Warehouse, 0, len(s.warehouses))
	for _, w := range s.warehouses {
		w := w
		list = append(list, &w)
	}
	return list, nil
}

// Add escribe el registro en ambas vistas.
func (s *Store) Add(_ context.Context, item *entity.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putItem(*item)
	s.putCategory(*item)
	return nil
}

// Get lee de la vista por ítem.
func (s *Store) Get(_ context.Context, warehouseID, inventoryID string) (*entity.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.byItem[warehouseID][inventoryID]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// ListByWarehouse lista la vista por ítem de una bodega.
func (s *Store) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.byItem[warehouseID]), nil
}

// ListByCategory lista la vista por categoría de una bodega.
func (s *Store) ListByCategory(_ context.Context, warehouseID, category string) ([]*entity.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.byCategory[categoryKey{warehouseID, category}]), nil
}

// CompareAndSetAmount actualiza ambas vistas si la cantidad actual coincide con item.Amount.
func (s *Store) CompareAndSetAmount(_ context.Context, item *entity.InventoryItem, newAmount int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byItem[item.WarehouseID][item.InventoryID]
	if !ok || cur.Amount != item.Amount {
		return false, nil
	}
	cur.Amount = newAmount
	s.putItem(cur)
	s.putCategory(cur)
	return true, nil
}

// SyncCategoryView sobrescribe la fila de la vista por categoría.
func (s *Store) SyncCategoryView(_ context.Context, item *entity.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCategory(*item)
	return nil
}

// SetCategoryAmount modifica sólo la vista por categoría. Permite simular una escritura doble
// interrumpida a medias.
func (s *Store) SetCategoryAmount(warehouseID, category, inventoryID string, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.byCategory[categoryKey{warehouseID, category}]
	if it, ok := rows[inventoryID]; ok {
		it.Amount = amount
		rows[inventoryID] = it
	}
}

// DeleteCategoryRow elimina una fila sólo de la vista por categoría.
func (s *Store) DeleteCategoryRow(warehouseID, category, inventoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byCategory[categoryKey{warehouseID, category}], inventoryID)
}

func (s *Store) putItem(it entity.InventoryItem) {
	rows, ok := s.byItem[it.WarehouseID]
	if !ok {
		rows = make(map[string]entity.InventoryItem)
		s.byItem[it.WarehouseID] = rows
	}
	rows[it.InventoryID] = it
}

func (s *Store) putCategory(it entity.InventoryItem) {
	key := categoryKey{it.WarehouseID, it.Category}
	rows, ok := s.byCategory[key]
	if !ok {
		rows = make(map[string]entity.InventoryItem)
		s.byCategory[key] = rows
	}
	rows[it.InventoryID] = it
}

func collect(rows map[string]entity.InventoryItem) []*entity.InventoryItem {
	list := make([]*entity.InventoryItem, 0, len(rows))
	for _, it := range rows {
		it := it
		list = append(list, &it)
	}
	return list
}
