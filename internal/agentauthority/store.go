package agentauthority

import (
	"context"

	id "fellgate/pkg/domain"
)

// Store persists agent authorities. The store also serves as the
// useraccess.AuthorityLookup: approved authorities define which woodland
// owners an agency may act for.
type Store interface {
	Get(ctx context.Context, authorityID id.AuthorityID) (AgentAuthority, error)
	Save(ctx context.Context, authority AgentAuthority) error
	Update(ctx context.Context, authority AgentAuthority) error
	ListByAgency(ctx context.Context, agencyID id.AgencyID) ([]AgentAuthority, error)
	WoodlandOwnersForAgency(ctx context.Context, agencyID id.AgencyID) ([]id.WoodlandOwnerID, error)
}
