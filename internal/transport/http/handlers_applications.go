package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"

	"fellgate/internal/eia"
	"fellgate/internal/flapp"
	"fellgate/internal/useraccess"
)

type documentResponse struct {
	ID        string `json:"id"`
	FileName  string `json:"fileName"`
	MimeType  string `json:"mimeType,omitempty"`
	SizeBytes int64  `json:"sizeBytes"`
	Reason    string `json:"reason"`
}

type applicationResponse struct {
	ID                  string             `json:"id"`
	Reference           string             `json:"reference"`
	WoodlandOwnerID     string             `json:"woodlandOwnerId"`
	Status              string             `json:"status"`
	IsForTenYearLicence bool               `json:"isForTenYearLicence"`
	Documents           []documentResponse `json:"documents"`
}

func toApplicationResponse(app flapp.Application) applicationResponse {
	docs := make([]documentResponse, 0, len(app.Documents))
	for _, doc := range app.Documents {
		docs = append(docs, documentResponse{
			ID:        doc.ID.String(),
			FileName:  doc.FileName,
			MimeType:  doc.MimeType,
			SizeBytes: doc.SizeBytes,
			Reason:    string(doc.Reason),
		})
	}
	return applicationResponse{
		ID:                  app.ID.String(),
		Reference:           app.Reference,
		WoodlandOwnerID:     app.WoodlandOwnerID.String(),
		Status:              string(app.CurrentStatus()),
		IsForTenYearLicence: app.IsForTenYearLicence,
		Documents:           docs,
	}
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	appID, err := pathApplicationID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	access, err := h.resolveAccess(r, applicant)
	if err != nil {
		writeError(w, err)
		return
	}

	app, err := h.applications.GetApplication(r.Context(), access, appID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	ownerID, err := id.ParseWoodlandOwnerID(chi.URLParam(r, "woodlandOwnerID"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid woodland owner id"))
		return
	}

	access, err := h.resolveAccess(r, applicant)
	if err != nil {
		writeError(w, err)
		return
	}

	apps, err := h.applications.ListApplicationsForWoodlandOwner(r.Context(), access, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": out})
}

func (h *Handler) addSupportingDocuments(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	appID, err := pathApplicationID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	files, err := h.filesFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.documents.AddSupportingDocuments(r.Context(), applicant, appID, files)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"documentIds": idStrings(result.DocumentIDs)})
}

func (h *Handler) removeSupportingDocument(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	appID, err := pathApplicationID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return
	}

	if err := h.documents.RemoveSupportingDocument(r.Context(), applicant, appID, docID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateTenYearLicence(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	appID, err := pathApplicationID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		IsForTenYearLicence bool `json:"isForTenYearLicence"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.tenYear.UpdateTenYearLicenceStatus(r.Context(), applicant, appID, body.IsForTenYearLicence); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isForTenYearLicence": body.IsForTenYearLicence})
}

func (h *Handler) updateEnvironmentalImpact(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	appID, err := pathApplicationID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		HasApplicationBeenCompleted *bool `json:"hasApplicationBeenCompleted"`
		HasApplicationBeenSent      *bool `json:"hasApplicationBeenSent"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}

	record, err := h.assessments.UpdateEnvironmentalImpactAssessment(r.Context(), applicant, appID, eia.UpdateRequest{
		HasApplicationBeenCompleted: body.HasApplicationBeenCompleted,
		HasApplicationBeenSent:      body.HasApplicationBeenSent,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hasApplicationBeenCompleted": record.HasApplicationBeenCompleted,
		"hasApplicationBeenSent":      record.HasApplicationBeenSent,
		"complete":                    record.IsComplete(),
	})
}

func (h *Handler) addEiaAttachments(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	appID, err := pathApplicationID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	files, err := h.filesFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.assessments.AddEiaAttachments(r.Context(), applicant, appID, files)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"documentIds": idStrings(result.DocumentIDs)})
}

// resolveAccess builds the caller's scope for the read endpoints, which take a
// UserAccessModel instead of resolving internally.
func (h *Handler) resolveAccess(r *http.Request, applicant *useraccess.ExternalApplicant) (useraccess.UserAccessModel, error) {
	if applicant == nil {
		return useraccess.UserAccessModel{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return h.access.ResolveUserAccess(r.Context(), *applicant)
}

func pathApplicationID(r *http.Request) (id.ApplicationID, error) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		return id.ApplicationID{}, dErrors.New(dErrors.CodeBadRequest, "invalid application id")
	}
	return appID, nil
}

func idStrings[T interface{ String() string }](ids []T) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		out = append(out, v.String())
	}
	return out
}
