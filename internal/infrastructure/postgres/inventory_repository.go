package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/bodegas-api/internal/domain/entity"
	"github.com/jhoicas/bodegas-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementa las dos vistas de inventario sobre PostgreSQL. Toda escritura doble
// corre en una única transacción, así que las vistas no pueden divergir.
type InventoryRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewInventoryRepository construye el adaptador.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepo {
	return &InventoryRepo{pool: pool, tx: NewTxRunner(pool)}
}

const (
	insertByItem = `
		INSERT INTO warehouse_inventory (id, inventory_id, category, product_id, amount, description)
		VALUES ($1, $2, $3, $4, $5, $6)`
	upsertByCategory = `
		INSERT INTO warehouse_inventory_by_category (id, category, inventory_id, product_id, amount, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id, category, inventory_id, product_id)
		DO UPDATE SET amount = EXCLUDED.amount, description = EXCLUDED.description`
)

// Add inserta el registro en ambas vistas dentro de una transacción.
func (r *InventoryRepo) Add(ctx context.Context, it *entity.InventoryItem) error {
	return r.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, insertByItem,
			it.WarehouseID, it.InventoryID, it.Category, it.ProductID, it.Amount, it.Description,
		); err != nil {
			return fmt.Errorf("insert warehouse_inventory: %w", err)
		}
		if _, err := q.Exec(ctx, upsertByCategory,
			it.WarehouseID, it.Category, it.InventoryID, it.ProductID, it.Amount, it.Description,
		); err != nil {
			return fmt.Errorf("insert warehouse_inventory_by_category: %w", err)
		}
		return nil
	})
}

// Get lee un registro de la vista por ítem.
func (r *InventoryRepo) Get(ctx context.Context, warehouseID, inventoryID string) (*entity.InventoryItem, error) {
	it := entity.InventoryItem{WarehouseID: warehouseID}
	err := r.pool.QueryRow(ctx, `
		SELECT inventory_id, product_id, category, amount, description
		FROM warehouse_inventory
		WHERE id = $1 AND inventory_id = $2
		LIMIT 1`,
		warehouseID, inventoryID,
	).Scan(&it.InventoryID, &it.ProductID, &it.Category, &it.Amount, &it.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &it, nil
}

// ListByWarehouse lista la vista por ítem de una bodega.
func (r *InventoryRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.InventoryItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, inventory_id, product_id, category, amount, description
		FROM warehouse_inventory
		WHERE id = $1`,
		warehouseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return scanItems(rows)
}

// ListByCategory lista la vista por categoría de una bodega.
func (r *InventoryRepo) ListByCategory(ctx context.Context, warehouseID, category string) ([]*entity.InventoryItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, inventory_id, product_id, category, amount, description
		FROM warehouse_inventory_by_category
		WHERE id = $1 AND category = $2`,
		warehouseID, category,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory by category: %w", err)
	}
	return scanItems(rows)
}

// CompareAndSetAmount actualiza la cantidad en ambas vistas si la vista por ítem conserva
// la cantidad leída (item.Amount). Ambas escrituras van en la misma transacción.
func (r *InventoryRepo) CompareAndSetAmount(ctx context.Context, it *entity.InventoryItem, newAmount int) (bool, error) {
	applied := false
	err := r.tx.Run(ctx, func(q Querier) error {
		cmd, err := q.Exec(ctx, `
			UPDATE warehouse_inventory
			SET amount = $1
			WHERE id = $2 AND inventory_id = $3 AND product_id = $4 AND amount = $5`,
			newAmount, it.WarehouseID, it.InventoryID, it.ProductID, it.Amount,
		)
		if err != nil {
			return fmt.Errorf("update warehouse_inventory amount: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return nil
		}
		if _, err := q.Exec(ctx, `
			UPDATE warehouse_inventory_by_category
			SET amount = $1
			WHERE id = $2 AND category = $3 AND inventory_id = $4 AND product_id = $5`,
			newAmount, it.WarehouseID, it.Category, it.InventoryID, it.ProductID,
		); err != nil {
			return fmt.Errorf("update warehouse_inventory_by_category amount: %w", err)
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// SyncCategoryView sobrescribe la fila por categoría con los datos de la vista por ítem.
func (r *InventoryRepo) SyncCategoryView(ctx context.Context, it *entity.InventoryItem) error {
	if _, err := r.pool.Exec(ctx, upsertByCategory,
		it.WarehouseID, it.Category, it.InventoryID, it.ProductID, it.Amount, it.Description,
	); err != nil {
		return fmt.Errorf("sync warehouse_inventory_by_category: %w", err)
	}
	return nil
}

func scanItems(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(&it.WarehouseID, &it.InventoryID, &it.ProductID, &it.Category, &it.Amount, &it.Description); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
