package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var (
	_ inventory.Locker = (*RedisLocker)(nil)
	_ inventory.Locker = (*KeyedMutex)(nil)
)

const (
	keyPrefix  = "lock:"
	retryEvery = 100 * time.Millisecond
)

// RedisLocker bloqueo distribuido por clave (varias instancias de la API sobre la misma BD).
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisLocker construye el locker sobre un cliente Redis ya conectado.
func NewRedisLocker(rdb redis.Cmdable, ttl time.Duration, log *logger.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl, log: log}
}

// Obtain reintenta hasta obtener la clave o agotar el TTL. Si otro proceso la mantiene
// devuelve domain.ErrConflict.
func (l *RedisLocker) Obtain(ctx context.Context, key string) (func(), error) {
	maxRetries := int(l.ttl / retryEvery)
	lk, err := l.client.Obtain(ctx, keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryEvery), maxRetries),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, fmt.Errorf("clave %s ocupada: %w", key, domain.ErrConflict)
		}
		return nil, fmt.Errorf("obtener lock %s: %w", key, err)
	}
	return func() {
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar lock")
		}
	}, nil
}

// NewRedisClient conecta a Redis y verifica con PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
