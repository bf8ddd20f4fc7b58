package memory

import (
	"context"
	"sync"
	"time"
)

// IdempotencyGuard guarda claves de idempotencia en memoria con expiración.
// Se usa cuando no hay Redis configurado; las claves no sobreviven a un reinicio.
type IdempotencyGuard struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
}

// NewIdempotencyGuard crea el guard vacío.
func NewIdempotencyGuard() *IdempotencyGuard {
	return &IdempotencyGuard{keys: make(map[string]time.Time), now: time.Now}
}

// Claim reserva key si no existe o si su reserva anterior expiró.
func (g *IdempotencyGuard) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if exp, ok := g.keys[key]; ok && now.Before(exp) {
		return false, nil
	}
	g.keys[key] = now.Add(ttl)
	g.sweep(now)
	return true, nil
}

// Release libera key.
func (g *IdempotencyGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
	return nil
}

func (g *IdempotencyGuard) sweep(now time.Time) {
	for k, exp := range g.keys {
		if !now.Before(exp) {
			delete(g.keys, k)
		}
	}
}
