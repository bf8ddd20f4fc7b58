package cassandra

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/jhoicas/bodegas-api/internal/domain/entity"
	"github.com/jhoicas/bodegas-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre Cassandra.
type WarehouseRepo struct {
	session *gocql.Session
}

// NewWarehouseRepository construye el adaptador.
func NewWarehouseRepository(session *gocql.Session) *WarehouseRepo {
	return &WarehouseRepo{session: session}
}

// CreateIfAbsent usa una transacción ligera (IF NOT EXISTS): si el ID existe, la fila
// no se toca y applied vuelve false.
func (r *WarehouseRepo) CreateIfAbsent(ctx context.Context, w *entity.Warehouse) (bool, error) {
	applied, err := r.session.Query(
		`INSERT INTO warehouses (id, name, location) VALUES (?, ?, ?) IF NOT EXISTS`,
		w.ID, w.Name, w.Location,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("insert warehouse: %w", err)
	}
	return applied, nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.session.Query(`SELECT id, name, location FROM warehouses WHERE id = ?`, id).
		WithContext(ctx).Scan(&w.ID, &w.Name, &w.Location)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// ListAll recorre toda la tabla warehouses (sin paginación).
func (r *WarehouseRepo) ListAll(ctx context.Context) ([]*entity.Warehouse, error) {
	scanner := r.session.Query(`SELECT id, name, location FROM warehouses`).WithContext(ctx).Iter().Scanner()
	var list []*entity.Warehouse
	for scanner.Next() {
		var w entity.Warehouse
		if err := scanner.Scan(&w.ID, &w.Name, &w.Location); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	return list, nil
}
