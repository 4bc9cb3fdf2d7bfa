package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Materiel-api/internal/application/ports"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

var _ ports.EventPublisher = (*RedisPublisher)(nil)

// RedisPublisher publica en un canal pub/sub general y en un subcanal por destinatario
// (<canal>:ADMIN, <canal>:SERVICE:<id>).
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

// NewRedisPublisher crea el cliente Redis.
func NewRedisPublisher(addr, password string, db int, channel string) *RedisPublisher {
	return &RedisPublisher{
		rdb:     redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		channel: channel,
	}
}

// Ping comprueba la conexión (arranque).
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// Publish envía el evento a los dos canales en un pipeline.
func (p *RedisPublisher) Publish(ctx context.Context, n *entity.Notification) error {
	payload, err := encode(n)
	if err != nil {
		return err
	}
	_, err = p.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, p.channel, payload)
		pipe.Publish(ctx, p.channel+":"+routingKey(n), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}

// Close cierra el cliente.
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
