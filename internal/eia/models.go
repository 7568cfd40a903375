// Package eia implements the environmental impact assessment step: the
// applicant's answers about a prior EIA application, and the attachments
// evidencing them.
package eia

import (
	"time"

	id "fellgate/pkg/domain"
)

// Record holds the applicant's EIA answers for one application. Nil answers
// mean the question has not been answered yet.
type Record struct {
	ApplicationID               id.ApplicationID
	HasApplicationBeenCompleted *bool
	HasApplicationBeenSent      *bool
	UpdatedAt                   time.Time
}

// IsComplete reports whether every question has been answered. Completion
// drives the application's EIA step flag.
func (r Record) IsComplete() bool {
	return r.HasApplicationBeenCompleted != nil && r.HasApplicationBeenSent != nil
}
