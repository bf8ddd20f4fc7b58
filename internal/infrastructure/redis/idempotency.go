// Package redis guarda las claves de idempotencia de los cambios de cantidad en Redis,
// compartidas entre todas las réplicas del servicio.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/bodegas-api/pkg/config"
)

// IdempotencyGuard reserva claves con SET NX + TTL.
type IdempotencyGuard struct {
	client *goredis.Client
}

// NewClient crea el cliente Redis y comprueba la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewIdempotencyGuard construye el guard sobre un cliente existente.
func NewIdempotencyGuard(client *goredis.Client) *IdempotencyGuard {
	return &IdempotencyGuard{client: client}
}

// Claim reserva key durante ttl. Devuelve false si otra petición ya la reservó.
func (g *IdempotencyGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", key, err)
	}
	return ok, nil
}

// Release borra key.
func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}
