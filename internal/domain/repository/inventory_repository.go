package repository

import (
	"context"

	"github.com/jhoicas/bodegas-api/internal/domain/entity"
)

// InventoryRepository define el puerto sobre las dos vistas desnormalizadas del inventario
// (warehouse_inventory y warehouse_inventory_by_category).
type InventoryRepository interface {
	// Add escribe el registro en ambas vistas con la primitiva atómica del motor (batch o tx).
	Add(ctx context.Context, item *entity.InventoryItem) error
	// Get lee de la vista por ítem. Devuelve nil, nil si no existe.
	Get(ctx context.Context, warehouseID, inventoryID string) (*entity.InventoryItem, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.InventoryItem, error)
	ListByCategory(ctx context.Context, warehouseID, category string) ([]*entity.InventoryItem, error)
	// CompareAndSetAmount cambia la cantidad de item a newAmount en ambas vistas sólo si la vista
	// por ítem aún tiene item.Amount. applied=false indica que otro escritor ganó la carrera.
	CompareAndSetAmount(ctx context.Context, item *entity.InventoryItem, newAmount int) (applied bool, err error)
	// SyncCategoryView sobrescribe la fila de la vista por categoría con los datos de item.
	SyncCategoryView(ctx context.Context, item *entity.InventoryItem) error
}
