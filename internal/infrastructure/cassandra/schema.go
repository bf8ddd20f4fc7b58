package cassandra

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS warehouses (
		id text PRIMARY KEY,
		name text,
		location text
	)`,
	`CREATE TABLE IF NOT EXISTS warehouse_inventory (
		id text,
		inventory_id text,
		category text,
		product_id text,
		amount int,
		description text,
		PRIMARY KEY ((id), inventory_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS warehouse_inventory_by_category (
		id text,
		category text,
		product_id text,
		amount int,
		description text,
		inventory_id text,
		PRIMARY KEY ((id, category), inventory_id, product_id)
	)`,
}

// EnsureSchema crea las tablas en el keyspace de la sesión. Es idempotente.
func EnsureSchema(ctx context.Context, session *gocql.Session) error {
	for _, stmt := range schemaStatements {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
