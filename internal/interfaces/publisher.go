package interfaces

import (
	"context"

	"creature-server/internal/models"
)

// StatePublisher pushes player state snapshots toward clients after
// shared state mutations. The concrete transport (socket service,
// pubsub) is an external collaborator consuming the queue; the engine
// only publishes.
//
//go:generate mockery --name StatePublisher --output ./mocks --outpkg mocks --case=underscore
type StatePublisher interface {
	PublishPlayerState(ctx context.Context, update models.PlayerStateUpdate) error
}
