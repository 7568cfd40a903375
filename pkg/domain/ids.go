// Package domain holds the identifier and enum types shared across the service.
//
// IDs are distinct types over uuid.UUID so that a compartment id can never be
// passed where an application id is expected. Services should accept and return
// these types rather than raw UUIDs or strings.
package domain

import "github.com/google/uuid"

type (
	UserAccountID     uuid.UUID
	ApplicationID     uuid.UUID
	WoodlandOwnerID   uuid.UUID
	AgencyID          uuid.UUID
	PropertyProfileID uuid.UUID
	CompartmentID     uuid.UUID
	DocumentID        uuid.UUID
	AuthorityID       uuid.UUID
)

func (id UserAccountID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id UserAccountID) String() string  { return uuid.UUID(id).String() }
func (id ApplicationID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) String() string  { return uuid.UUID(id).String() }
func (id WoodlandOwnerID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id WoodlandOwnerID) String() string { return uuid.UUID(id).String() }
func (id AgencyID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id AgencyID) String() string       { return uuid.UUID(id).String() }
func (id PropertyProfileID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PropertyProfileID) String() string { return uuid.UUID(id).String() }
func (id CompartmentID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CompartmentID) String() string  { return uuid.UUID(id).String() }
func (id DocumentID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) String() string     { return uuid.UUID(id).String() }
func (id AuthorityID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id AuthorityID) String() string    { return uuid.UUID(id).String() }

// NewUserAccountID and friends exist so call sites don't need to convert
// through uuid.UUID by hand.
func NewUserAccountID() UserAccountID         { return UserAccountID(uuid.New()) }
func NewApplicationID() ApplicationID         { return ApplicationID(uuid.New()) }
func NewWoodlandOwnerID() WoodlandOwnerID     { return WoodlandOwnerID(uuid.New()) }
func NewAgencyID() AgencyID                   { return AgencyID(uuid.New()) }
func NewPropertyProfileID() PropertyProfileID { return PropertyProfileID(uuid.New()) }
func NewCompartmentID() CompartmentID         { return CompartmentID(uuid.New()) }
func NewDocumentID() DocumentID               { return DocumentID(uuid.New()) }
func NewAuthorityID() AuthorityID             { return AuthorityID(uuid.New()) }

func ParseUserAccountID(s string) (UserAccountID, error) {
	u, err := uuid.Parse(s)
	return UserAccountID(u), err
}

func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := uuid.Parse(s)
	return ApplicationID(u), err
}

func ParseWoodlandOwnerID(s string) (WoodlandOwnerID, error) {
	u, err := uuid.Parse(s)
	return WoodlandOwnerID(u), err
}

func ParseAgencyID(s string) (AgencyID, error) {
	u, err := uuid.Parse(s)
	return AgencyID(u), err
}

func ParsePropertyProfileID(s string) (PropertyProfileID, error) {
	u, err := uuid.Parse(s)
	return PropertyProfileID(u), err
}

func ParseCompartmentID(s string) (CompartmentID, error) {
	u, err := uuid.Parse(s)
	return CompartmentID(u), err
}

func ParseDocumentID(s string) (DocumentID, error) {
	u, err := uuid.Parse(s)
	return DocumentID(u), err
}

func ParseAuthorityID(s string) (AuthorityID, error) {
	u, err := uuid.Parse(s)
	return AuthorityID(u), err
}
