package fetcher

import (
	"context"
	"sync"
	"time"
)

// RateLimiter выдерживает минимальную паузу между запросами к одному хосту.
// Внутри одного запроса пайплайн последовательный, но HTTP-сервер может
// обслуживать несколько запросов разом — отсюда блокировка.
type RateLimiter struct {
	minInterval time.Duration
	mu          sync.Mutex
	nextAllowed map[string]time.Time
}

func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		minInterval: minInterval,
		nextAllowed: make(map[string]time.Time),
	}
}

// Wait резервирует слот для хоста и ждёт до него (или до отмены контекста).
func (rl *RateLimiter) Wait(ctx context.Context, host string) error {
	if rl.minInterval <= 0 {
		return nil
	}

	rl.mu.Lock()
	now := time.Now()
	slot := rl.nextAllowed[host]
	if slot.Before(now) {
		slot = now
	}
	rl.nextAllowed[host] = slot.Add(rl.minInterval)
	rl.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}

	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
