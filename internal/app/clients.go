package app

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"github.com/yungbote/nurture-backend/internal/realtime/bus"
	"github.com/yungbote/nurture-backend/internal/temporalx"
)

type Clients struct {
	CatalogBus bus.Bus
	Temporal   temporalsdkclient.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var catalogBus bus.Bus
	if cfg.Redis.Addr != "" {
		b, err := bus.NewRedisBus(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis catalog bus: %w", err)
		}
		catalogBus = b
	} else {
		log.Warn("REDIS_ADDR not set; unit cache invalidation stays in-process")
		catalogBus = bus.NewMemoryBus()
	}

	// Temporal
	tc, err := temporalx.NewClient(context.Background(), log, cfg.Temporal)
	if err != nil {
		_ = catalogBus.Close()
		return Clients{}, fmt.Errorf("init temporal client: %w", err)
	}

	return Clients{CatalogBus: catalogBus, Temporal: tc}, nil
}

func (c Clients) Close() {
	if c.Temporal != nil {
		c.Temporal.Close()
	}
	if c.CatalogBus != nil {
		_ = c.CatalogBus.Close()
	}
}
