package inventory

import (
	"context"
	"time"
)

// IdempotencyGuard reserva claves de idempotencia para que un mismo cambio de cantidad,
// reenviado por el cliente, no se aplique dos veces.
type IdempotencyGuard interface {
	// Claim reserva key durante ttl. Devuelve false si ya estaba reservada.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release libera key (usado cuando el cambio falló y el cliente puede reintentar).
	Release(ctx context.Context, key string) error
}
