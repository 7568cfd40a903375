package flapp

import (
	"context"

	id "fellgate/pkg/domain"
)

// Store persists applications. Save commits the whole aggregate; a concurrent
// conflicting save surfaces sentinel.ErrConflict, which services forward as a
// Conflict-coded failure rather than retrying.
//
//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks
type Store interface {
	Get(ctx context.Context, appID id.ApplicationID) (Application, error)
	ListByWoodlandOwner(ctx context.Context, ownerID id.WoodlandOwnerID) ([]Application, error)
	Save(ctx context.Context, app Application) error
}
