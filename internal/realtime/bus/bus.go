package bus

import (
	"context"

	"github.com/yungbote/nurture-backend/internal/realtime"
)

// Bus carries catalog invalidation events between API instances.
type Bus interface {
	Publish(ctx context.Context, msg realtime.CatalogEvent) error
	StartForwarder(ctx context.Context, onEvent func(realtime.CatalogEvent)) error
	Close() error
}
