package app

import (
	"github.com/SugaryLLC/sugary-web/internal/config"
	"github.com/SugaryLLC/sugary-web/internal/logger"
	"github.com/SugaryLLC/sugary-web/internal/redis"
)

// Infra holds optional external infrastructure. The gateway is fully
// functional without redis; the places cache just stays off.
type Infra struct {
	Redis *redis.Client
}

func setupInfra(cfg config.Config) (*Infra, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("redis not configured, places cache disabled")
		return &Infra{}, nil
	}

	client, err := redis.New(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready")
	return &Infra{Redis: client}, nil
}
