// Package useraccess resolves the authorization scope of an authenticated
// external applicant: which woodland owners they may act for, whether they are
// FC staff, and which agency they belong to. Every woodland-owner-scoped use
// case resolves a UserAccessModel first and guards on it before touching
// anything else.
package useraccess

import (
	"strings"
	"time"

	"github.com/google/uuid"

	id "fellgate/pkg/domain"
)

// ExternalApplicant wraps the authenticated principal for one request. Built by
// the auth middleware from JWT claims; immutable thereafter.
type ExternalApplicant struct {
	UserAccountID   id.UserAccountID
	FullName        string
	Email           string
	IsFcUser        bool
	AgencyID        *id.AgencyID
	WoodlandOwnerID *id.WoodlandOwnerID
}

// UserAccessModel is the resolved scope for one authorization check. Created
// fresh per request; never persisted.
type UserAccessModel struct {
	UserAccountID    id.UserAccountID
	IsFcUser         bool
	AgencyID         *id.AgencyID
	WoodlandOwnerIDs []id.WoodlandOwnerID
}

// CanActForWoodlandOwner reports whether the caller may operate on entities
// owned by the given woodland owner. FC staff may act for any owner.
func (m UserAccessModel) CanActForWoodlandOwner(ownerID id.WoodlandOwnerID) bool {
	if m.IsFcUser {
		return true
	}
	for _, candidate := range m.WoodlandOwnerIDs {
		if candidate == ownerID {
			return true
		}
	}
	return false
}

// CanManageAgency reports whether the caller administers the given agency.
func (m UserAccessModel) CanManageAgency(agencyID id.AgencyID) bool {
	return m.AgencyID != nil && *m.AgencyID == agencyID
}

// AccountStatus is the lifecycle state of an external user account.
type AccountStatus string

const (
	StatusInvited     AccountStatus = "Invited"
	StatusActive      AccountStatus = "Active"
	StatusDeactivated AccountStatus = "Deactivated"
)

// AccountType distinguishes the kinds of external user.
type AccountType string

const (
	TypeWoodlandOwnerAdministrator AccountType = "WoodlandOwnerAdministrator"
	TypeAgentAdministrator         AccountType = "AgentAdministrator"
	TypeAgent                      AccountType = "Agent"
	TypeFcUser                     AccountType = "FcUser"
)

// UserAccount is the stored external user record. Invite fields are only
// meaningful while Status is Invited.
type UserAccount struct {
	ID                id.UserAccountID
	Email             string
	FirstName         string
	LastName          string
	Status            AccountStatus
	AccountType       AccountType
	WoodlandOwnerID   *id.WoodlandOwnerID
	AgencyID          *id.AgencyID
	InviteToken       uuid.UUID
	InviteTokenExpiry time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (a UserAccount) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// IsAdministrator reports whether the account may invite users into its
// organisation.
func (a UserAccount) IsAdministrator() bool {
	return a.AccountType == TypeWoodlandOwnerAdministrator || a.AccountType == TypeAgentAdministrator
}
