// Package flapp holds the felling licence application aggregate as seen by
// external applicants, and the guarded get/update services the workflow
// packages orchestrate through.
package flapp

import (
	"time"

	id "fellgate/pkg/domain"
)

// Status is one lifecycle state of a felling licence application.
type Status string

const (
	StatusDraft         Status = "Draft"
	StatusSubmitted     Status = "Submitted"
	StatusWithApplicant Status = "WithApplicant"
	StatusApproved      Status = "Approved"
	StatusRefused       Status = "Refused"
	StatusWithdrawn     Status = "Withdrawn"
)

// StatusHistory is one entry in the application's status trail. The latest
// entry is the current status.
type StatusHistory struct {
	Status  Status
	Created time.Time
}

// StepStatus tracks completion of the applicant-facing steps.
type StepStatus struct {
	ApplicationDetailsComplete      bool
	CompartmentSelectionComplete    bool
	OperationDetailsComplete        bool
	SupportingDocumentationComplete bool
	EnvironmentalImpactComplete     bool
	TenYearLicenceComplete          bool
}

// DocumentMeta describes one stored document attached to an application. The
// bytes live in file storage; only metadata is held here.
type DocumentMeta struct {
	ID        id.DocumentID
	FileName  string
	MimeType  string
	SizeBytes int64
	Reason    id.FileUploadReason
	Location  string
	CreatedAt time.Time
}

// CompartmentDesignation carries per-compartment constraint flags recorded
// against the application, currently only the PAWS outcome.
type CompartmentDesignation struct {
	CompartmentID id.CompartmentID
	Paws          bool
}

// Application is the felling licence application aggregate.
type Application struct {
	ID                      id.ApplicationID
	Reference               string
	WoodlandOwnerID         id.WoodlandOwnerID
	LinkedPropertyProfileID id.PropertyProfileID
	IsForTenYearLicence     bool
	StatusHistories         []StatusHistory
	Documents               []DocumentMeta
	StepStatus              StepStatus
	Designations            []CompartmentDesignation
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// CurrentStatus returns the latest status, defaulting to Draft for an
// application with no history yet.
func (a Application) CurrentStatus() Status {
	if len(a.StatusHistories) == 0 {
		return StatusDraft
	}
	return a.StatusHistories[len(a.StatusHistories)-1].Status
}

// IsEditable reports whether the applicant may still mutate the application.
func (a Application) IsEditable() bool {
	switch a.CurrentStatus() {
	case StatusDraft, StatusWithApplicant:
		return true
	default:
		return false
	}
}

// Document returns the attached document with the given id, if present.
func (a Application) Document(docID id.DocumentID) (DocumentMeta, bool) {
	for _, doc := range a.Documents {
		if doc.ID == docID {
			return doc, true
		}
	}
	return DocumentMeta{}, false
}
