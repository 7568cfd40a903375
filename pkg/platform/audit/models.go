// Package audit defines the structured audit event contract. Every terminal
// branch of a use case publishes exactly one event; the event name identifies
// the branch and the payload field set is stable per event name.
package audit

import (
	"context"
	"time"

	id "fellgate/pkg/domain"
)

// EventName is a stable identifier for one outcome of one operation. Names are
// part of the observable contract with the audit sink; never rename a published
// value.
type EventName string

const (
	// Supporting documents
	EventAddSupportingDocumentsSuccess           EventName = "AddSupportingDocumentsSuccess"
	EventAddSupportingDocumentsFailure           EventName = "AddSupportingDocumentsFailure"
	EventAddSupportingDocumentsValidationFailure EventName = "AddSupportingDocumentsValidationFailure"
	EventRemoveSupportingDocumentSuccess         EventName = "RemoveSupportingDocumentSuccess"
	EventRemoveSupportingDocumentFailure         EventName = "RemoveSupportingDocumentFailure"

	// Agent authority forms
	EventAddAgentAuthorityFormFiles                  EventName = "AddAgentAuthorityFormFiles"
	EventAddAgentAuthorityFormFilesFailure           EventName = "AddAgentAuthorityFormFilesFailure"
	EventAddAgentAuthorityFormFilesValidationFailure EventName = "AddAgentAuthorityFormFilesValidationFailure"
	EventCreateAgentAuthoritySuccess                 EventName = "CreateAgentAuthoritySuccess"
	EventCreateAgentAuthorityFailure                 EventName = "CreateAgentAuthorityFailure"
	EventRemoveAgentAuthorityFormSuccess             EventName = "RemoveAgentAuthorityFormSuccess"
	EventRemoveAgentAuthorityFormFailure             EventName = "RemoveAgentAuthorityFormFailure"

	// PAWS requirement check
	EventPawsRequirementCheckCompleted EventName = "PawsRequirementCheckCompleted"
	EventPawsRequirementCheckFailed    EventName = "PawsRequirementCheckFailed"

	// Ten year licence
	EventTenYearLicenceStatusUpdated       EventName = "TenYearLicenceStatusUpdated"
	EventTenYearLicenceStatusUpdateFailure EventName = "TenYearLicenceStatusUpdateFailure"

	// Environmental impact assessment
	EventEnvironmentalImpactAssessmentUpdated       EventName = "EnvironmentalImpactAssessmentUpdated"
	EventEnvironmentalImpactAssessmentUpdateFailure EventName = "EnvironmentalImpactAssessmentUpdateFailure"
	EventAddEiaAttachments                          EventName = "AddEiaAttachments"
	EventAddEiaAttachmentsFailure                   EventName = "AddEiaAttachmentsFailure"
	EventAddEiaAttachmentsValidationFailure         EventName = "AddEiaAttachmentsValidationFailure"

	// Property profiles and compartments
	EventPropertyProfileCreated        EventName = "PropertyProfileCreated"
	EventCreatePropertyProfileFailure  EventName = "CreatePropertyProfileFailure"
	EventPropertyProfileUpdated        EventName = "PropertyProfileUpdated"
	EventUpdatePropertyProfileFailure  EventName = "UpdatePropertyProfileFailure"
	EventCompartmentCreated            EventName = "CompartmentCreated"
	EventCreateCompartmentFailure      EventName = "CreateCompartmentFailure"
	EventCompartmentUpdated            EventName = "CompartmentUpdated"
	EventUpdateCompartmentFailure      EventName = "UpdateCompartmentFailure"

	// Invitations and accounts
	EventInviteWoodlandOwnerUserSent    EventName = "InviteWoodlandOwnerUserSent"
	EventInviteWoodlandOwnerUserFailure EventName = "InviteWoodlandOwnerUserFailure"
	EventInviteAgentToOrganisationSent  EventName = "InviteAgentToOrganisationSent"
	EventInviteAgentToOrganisationFailure EventName = "InviteAgentToOrganisationFailure"
	EventAcceptInvitationSuccess        EventName = "AcceptInvitationSuccess"
	EventAcceptInvitationFailure        EventName = "AcceptInvitationFailure"
	EventFcStaffAssignedToFcAgency      EventName = "FcStaffAssignedToFcAgency"

	// Woodland owner / agency creation
	EventCreateWoodlandOwnerSuccess EventName = "CreateWoodlandOwnerSuccess"
	EventCreateWoodlandOwnerFailure EventName = "CreateWoodlandOwnerFailure"
)

// Source entity types referenced by audit events.
const (
	SourceFellingLicenceApplication = "FellingLicenceApplication"
	SourcePropertyProfile           = "PropertyProfile"
	SourceCompartment               = "Compartment"
	SourceAgentAuthority            = "AgentAuthority"
	SourceUserAccount               = "UserAccount"
	SourceWoodlandOwner             = "WoodlandOwner"
	SourceAgency                    = "Agency"
)

// Event is emitted from use-case logic to capture one attempted operation's
// outcome. Keep it transport-agnostic so stores and sinks can fan out.
//
// Data is serialised to JSON by the store; payload keys are camelCase and the
// field set for a given event name is stable regardless of which step failed.
type Event struct {
	Name             EventName
	ActorType        id.ActorType
	UserID           *id.UserAccountID
	SourceEntityID   string
	SourceEntityType string
	CorrelationID    string
	Timestamp        time.Time
	Data             map[string]any
}

// Store persists audit events. Append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySource(ctx context.Context, sourceEntityID string) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
}

// Auditor is the narrow emit-side interface use cases depend on.
type Auditor interface {
	Emit(ctx context.Context, event Event) error
}
