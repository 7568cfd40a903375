package eia

import (
	"context"

	id "fellgate/pkg/domain"
)

// Store persists EIA records, one per application. Save upserts.
type Store interface {
	Get(ctx context.Context, appID id.ApplicationID) (Record, error)
	Save(ctx context.Context, record Record) error
}
