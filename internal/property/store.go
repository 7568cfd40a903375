package property

import (
	"context"

	id "fellgate/pkg/domain"
)

// Store persists property profiles with their compartments. Save returns
// sentinel.ErrConflict when the owner already has a profile with the same name.
//
//go:generate mockgen -source=store.go -destination=mocks/store_mocks.go -package=mocks
type Store interface {
	Get(ctx context.Context, profileID id.PropertyProfileID) (PropertyProfile, error)
	ListByWoodlandOwner(ctx context.Context, ownerID id.WoodlandOwnerID) ([]PropertyProfile, error)
	Save(ctx context.Context, profile PropertyProfile) error
	Update(ctx context.Context, profile PropertyProfile) error
}
