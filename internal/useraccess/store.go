package useraccess

import (
	"context"

	id "fellgate/pkg/domain"
)

// Store persists external user accounts. Implementations return sentinel infra
// errors; services translate them into coded domain errors.
//
//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks
type Store interface {
	FindByID(ctx context.Context, accountID id.UserAccountID) (UserAccount, error)
	FindByEmail(ctx context.Context, email string) (UserAccount, error)
	Save(ctx context.Context, account UserAccount) error
	Update(ctx context.Context, account UserAccount) error
}

// AuthorityLookup answers which woodland owners an agency holds an approved
// agent authority for. Satisfied by the agent authority store.
type AuthorityLookup interface {
	WoodlandOwnersForAgency(ctx context.Context, agencyID id.AgencyID) ([]id.WoodlandOwnerID, error)
}
