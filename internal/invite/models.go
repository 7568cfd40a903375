// Package invite implements organisation invitations: inviting users into a
// woodland owner organisation or an agency, verifying invite tokens, and the
// automatic FC agency assignment for approved FC staff.
package invite

import (
	"context"

	id "fellgate/pkg/domain"
)

// Outcome classifies how an invitation attempt terminated.
type Outcome string

const (
	OutcomeInviteSent         Outcome = "InviteSent"
	OutcomeUserAlreadyExists  Outcome = "UserAlreadyExists"
	OutcomeUserAlreadyInvited Outcome = "UserAlreadyInvited"
)

// Request carries one invitation. FirstName/LastName may be empty; names are
// then derived from the email address. Resend re-issues an invitation the
// caller knows is already pending for the same organisation.
type Request struct {
	Email           string
	FirstName       string
	LastName        string
	WoodlandOwnerID id.WoodlandOwnerID
	AgencyID        id.AgencyID
	Resend          bool
}

// Notification is one message handed to the delivery channel. Delivery is
// fire-and-forget; there are no retries here.
type Notification struct {
	Recipient     string
	RecipientName string
	Subject       string
	Template      string
	Data          map[string]any
}

// Notifications sends invitation messages.
//
//go:generate mockgen -source=models.go -destination=mocks/mocks.go -package=mocks
type Notifications interface {
	Send(ctx context.Context, notification Notification) error
}
