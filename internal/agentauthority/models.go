// Package agentauthority manages agent authority forms: the records granting
// an agency permission to act for a woodland owner, and the uploaded form
// documents evidencing them.
package agentauthority

import (
	"time"

	id "fellgate/pkg/domain"
)

// AuthorityStatus is the lifecycle state of an agent authority.
type AuthorityStatus string

const (
	AuthorityCreated      AuthorityStatus = "Created"
	AuthorityFormUploaded AuthorityStatus = "FormUploaded"
	AuthorityApproved     AuthorityStatus = "Approved"
	AuthorityRevoked      AuthorityStatus = "Revoked"
)

// FormDocument is one uploaded agent authority form file.
type FormDocument struct {
	ID        id.DocumentID
	FileName  string
	MimeType  string
	SizeBytes int64
	Location  string
	CreatedAt time.Time
}

// AgentAuthority links an agency to a woodland owner it may act for.
type AgentAuthority struct {
	ID              id.AuthorityID
	AgencyID        id.AgencyID
	WoodlandOwnerID id.WoodlandOwnerID
	Status          AuthorityStatus
	Forms           []FormDocument
	CreatedBy       id.UserAccountID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Form returns the uploaded form with the given id, if present.
func (a AgentAuthority) Form(docID id.DocumentID) (FormDocument, bool) {
	for _, form := range a.Forms {
		if form.ID == docID {
			return form, true
		}
	}
	return FormDocument{}, false
}
