// Package woodlandowner creates woodland owner organisations and agencies,
// linking the creating user's account to them.
package woodlandowner

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "fellgate/pkg/domain"
)

// WoodlandOwner is an organisation (or individual) that owns woodland and
// applies for felling licences.
type WoodlandOwner struct {
	ID             id.WoodlandOwnerID
	Name           string
	ContactName    string
	ContactEmail   string
	IsOrganisation bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FcAgencyID is the fixed identifier of the Forestry Commission's own agency
// record. It is derived deterministically so agency assignments held in a
// persistent account store stay valid when the agency record itself is
// recreated at startup.
func FcAgencyID() id.AgencyID {
	return id.AgencyID(uuid.NewSHA1(uuid.NameSpaceOID, []byte("fellgate/fc-agency")))
}

// Agency is an organisation acting for woodland owners under agent authorities.
type Agency struct {
	ID           id.AgencyID
	Name         string
	ContactEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists woodland owners and agencies.
type Store interface {
	SaveOwner(ctx context.Context, owner WoodlandOwner) error
	GetOwner(ctx context.Context, ownerID id.WoodlandOwnerID) (WoodlandOwner, error)
	SaveAgency(ctx context.Context, agency Agency) error
	GetAgency(ctx context.Context, agencyID id.AgencyID) (Agency, error)
}
