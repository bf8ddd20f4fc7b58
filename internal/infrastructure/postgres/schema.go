package postgres

import (
	"context"
	"fmt"
)

// Las dos tablas de inventario replican el diseño de particiones de la versión Cassandra:
// la clave primaria incluye las columnas de partición seguidas de inventory_id y product_id.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS warehouses (
		id       text PRIMARY KEY,
		name     text NOT NULL,
		location text NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS warehouse_inventory (
		id           text NOT NULL,
		inventory_id text NOT NULL,
		category     text NOT NULL,
		product_id   text NOT NULL,
		amount       integer NOT NULL CHECK (amount >= 0),
		description  text NOT NULL DEFAULT '',
		PRIMARY KEY (id, inventory_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS warehouse_inventory_by_category (
		id           text NOT NULL,
		category     text NOT NULL,
		inventory_id text NOT NULL,
		product_id   text NOT NULL,
		amount       integer NOT NULL CHECK (amount >= 0),
		description  text NOT NULL DEFAULT '',
		PRIMARY KEY (id, category, inventory_id, product_id)
	)`,
}

// EnsureSchema crea las tablas si no existen. Es idempotente.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
