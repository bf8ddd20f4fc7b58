package cassandra

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/jhoicas/bodegas-api/internal/domain/entity"
	"github.com/jhoicas/bodegas-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const (
	insertByItem = `INSERT INTO warehouse_inventory (id, inventory_id, category, product_id, amount, description)
		VALUES (?, ?, ?, ?, ?, ?)`
	insertByCategory = `INSERT INTO warehouse_inventory_by_category (id, category, product_id, amount, description, inventory_id)
		VALUES (?, ?, ?, ?, ?, ?)`
)

// InventoryRepo implementa las dos vistas de inventario sobre Cassandra.
//
// El alta usa un LOGGED BATCH, que garantiza que ambas filas terminan escritas.
// El cambio de cantidad es un compare-and-set (LWT) sobre la vista por ítem seguido de la
// escritura en la vista por categoría; Cassandra no admite LWT entre particiones, así que si
// la segunda escritura falla las vistas quedan distintas hasta que se reconcilian.
type InventoryRepo struct {
	session *gocql.Session
}

// NewInventoryRepository construye el adaptador.
func NewInventoryRepository(session *gocql.Session) *InventoryRepo {
	return &InventoryRepo{session: session}
}

// Add escribe ambas vistas en un LOGGED BATCH.
func (r *InventoryRepo) Add(ctx context.Context, it *entity.InventoryItem) error {
	if err := r.session.ExecuteBatch(addBatch(ctx, r.session, it)); err != nil {
		return fmt.Errorf("insert inventory batch: %w", err)
	}
	return nil
}

// Get lee un registro de la vista por ítem.
func (r *InventoryRepo) Get(ctx context.Context, warehouseID, inventoryID string) (*entity.InventoryItem, error) {
	it := entity.InventoryItem{WarehouseID: warehouseID}
	err := r.session.Query(`
		SELECT inventory_id, product_id, category, amount, description
		FROM warehouse_inventory
		WHERE id = ? AND inventory_id = ?
		LIMIT 1`,
		warehouseID, inventoryID,
	).WithContext(ctx).Scan(&it.InventoryID, &it.ProductID, &it.Category, &it.Amount, &it.Description)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &it, nil
}

// ListByWarehouse lee la partición de la bodega en la vista por ítem.
func (r *InventoryRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.InventoryItem, error) {
	q := r.session.Query(`
		SELECT id, inventory_id, product_id, category, amount, description
		FROM warehouse_inventory
		WHERE id = ?`,
		warehouseID,
	).WithContext(ctx)
	return scanItems(q)
}

// ListByCategory lee la partición (bodega, categoría) de la vista por categoría.
func (r *InventoryRepo) ListByCategory(ctx context.Context, warehouseID, category string) ([]*entity.InventoryItem, error) {
	q := r.session.Query(`
		SELECT id, inventory_id, product_id, category, amount, description
		FROM warehouse_inventory_by_category
		WHERE id = ? AND category = ?`,
		warehouseID, category,
	).WithContext(ctx)
	return scanItems(q)
}

// CompareAndSetAmount aplica UPDATE ... IF amount = ? en la vista por ítem y, si se aplicó,
// replica la nueva cantidad en la vista por categoría.
func (r *InventoryRepo) CompareAndSetAmount(ctx context.Context, it *entity.InventoryItem, newAmount int) (bool, error) {
	applied, err := r.session.Query(`
		UPDATE warehouse_inventory
		SET amount = ?
		WHERE id = ? AND inventory_id = ? AND product_id = ?
		IF amount = ?`,
		newAmount, it.WarehouseID, it.InventoryID, it.ProductID, it.Amount,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("update warehouse_inventory amount: %w", err)
	}
	if !applied {
		return false, nil
	}

	if err := r.session.Query(`
		UPDATE warehouse_inventory_by_category
		SET amount = ?
		WHERE id = ? AND category = ? AND inventory_id = ? AND product_id = ?`,
		newAmount, it.WarehouseID, it.Category, it.InventoryID, it.ProductID,
	).WithContext(ctx).Exec(); err != nil {
		return false, fmt.Errorf("update warehouse_inventory_by_category amount (vista por ítem ya actualizada): %w", err)
	}
	return true, nil
}

// SyncCategoryView reescribe la fila por categoría (INSERT en Cassandra es upsert).
func (r *InventoryRepo) SyncCategoryView(ctx context.Context, it *entity.InventoryItem) error {
	if err := r.session.Query(insertByCategory,
		it.WarehouseID, it.Category, it.ProductID, it.Amount, it.Description, it.InventoryID,
	).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("sync warehouse_inventory_by_category: %w", err)
	}
	return nil
}

// addBatch arma el LOGGED BATCH con las filas de ambas vistas.
func addBatch(ctx context.Context, session *gocql.Session, it *entity.InventoryItem) *gocql.Batch {
	b := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	b.Query(insertByItem, it.WarehouseID, it.InventoryID, it.Category, it.ProductID, it.Amount, it.Description)
	b.Query(insertByCategory, it.WarehouseID, it.Category, it.ProductID, it.Amount, it.Description, it.InventoryID)
	return b
}

func scanItems(q *gocql.Query) ([]*entity.InventoryItem, error) {
	scanner := q.Iter().Scanner()
	var list []*entity.InventoryItem
	for scanner.Next() {
		var it entity.InventoryItem
		if err := scanner.Scan(&it.WarehouseID, &it.InventoryID, &it.ProductID, &it.Category, &it.Amount, &it.Description); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &it)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return list, nil
}
