package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodegas-api/internal/domain/entity"
	"github.com/jhoicas/bodegas-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// CreateIfAbsent inserta la bodega; ON CONFLICT DO NOTHING deja intacta una fila existente.
func (r *WarehouseRepo) CreateIfAbsent(ctx context.Context, w *entity.Warehouse) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO warehouses (id, name, location)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`,
		w.ID, w.Name, w.Location,
	)
	if err != nil {
		return false, fmt.Errorf("insert warehouse: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, `SELECT id, name, location FROM warehouses WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.Location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// ListAll lista todas las bodegas.
func (r *WarehouseRepo) ListAll(ctx context.Context) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, location FROM warehouses`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
