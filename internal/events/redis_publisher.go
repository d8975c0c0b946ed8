package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type RedisPublisher struct {
	rdb *redis.Client
	log *logrus.Logger
}

func NewRedisPublisher(rdb *redis.Client, log *logrus.Logger) *RedisPublisher {
	if log == nil {
		log = logrus.New()
	}
	return &RedisPublisher{rdb: rdb, log: log}
}

func (p *RedisPublisher) PublishSessionStatus(ctx context.Context, sessionID string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		p.log.WithError(err).Warn("failed to marshal status event")
		return
	}
	if err := p.rdb.Publish(ctx, StatusChannel(sessionID), string(b)).Err(); err != nil {
		p.log.WithError(err).WithField("session_id", sessionID).Warn("failed to publish status event")
	}
}
