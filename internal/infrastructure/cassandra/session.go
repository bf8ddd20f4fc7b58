// Package cassandra implementa los puertos de persistencia sobre Cassandra (gocql).
// Es el motor por defecto: las dos vistas de inventario son tablas con particiones distintas.
package cassandra

import (
	"context"
	"fmt"
	"regexp"

	"github.com/gocql/gocql"

	"github.com/jhoicas/bodegas-api/pkg/config"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,47}$`)

// NewSession abre la sesión compartida por todo el proceso. Crea el keyspace si no existe
// (con una sesión previa sin keyspace) y luego las tablas.
func NewSession(ctx context.Context, cfg config.CassandraConfig) (*gocql.Session, error) {
	if !identifierRe.MatchString(cfg.Keyspace) {
		return nil, fmt.Errorf("keyspace inválido: %q", cfg.Keyspace)
	}
	consistency, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
	if err != nil {
		return nil, fmt.Errorf("consistency: %w", err)
	}

	bootstrap, err := newCluster(cfg, consistency).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect cassandra: %w", err)
	}
	err = ensureKeyspace(ctx, bootstrap, cfg.Keyspace, cfg.ReplicationFactor)
	bootstrap.Close()
	if err != nil {
		return nil, err
	}

	cluster := newCluster(cfg, consistency)
	cluster.Keyspace = cfg.Keyspace
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect keyspace %s: %w", cfg.Keyspace, err)
	}
	if err := EnsureSchema(ctx, session); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

func newCluster(cfg config.CassandraConfig, consistency gocql.Consistency) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Port = cfg.Port
	cluster.Consistency = consistency
	cluster.SerialConsistency = gocql.Serial
	if cfg.Timeout > 0 {
		cluster.Timeout = cfg.Timeout
		cluster.ConnectTimeout = cfg.Timeout
	}
	return cluster
}

func ensureKeyspace(ctx context.Context, session *gocql.Session, keyspace string, rf int) error {
	if rf < 1 {
		rf = 1
	}
	stmt := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
		WITH replication = {'class': 'SimpleStrategy', 'replication_factor': '%d'}`, keyspace, rf)
	if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("create keyspace: %w", err)
	}
	return nil
}
