package repository

import (
	"context"

	"github.com/jhoicas/bodegas-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	// CreateIfAbsent inserta la bodega sólo si el ID no existe. Devuelve false si ya existía
	// (en ese caso la fila existente no se modifica).
	CreateIfAbsent(ctx context.Context, warehouse *entity.Warehouse) (bool, error)
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	ListAll(ctx context.Context) ([]*entity.Warehouse, error)
}
