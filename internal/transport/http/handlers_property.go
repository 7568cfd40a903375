package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"

	"fellgate/internal/property"
)

type compartmentResponse struct {
	ID             string  `json:"id"`
	Number         string  `json:"number"`
	SubCompartment string  `json:"subCompartment,omitempty"`
	TotalHectares  float64 `json:"totalHectares"`
	Designation    string  `json:"designation,omitempty"`
}

type profileResponse struct {
	ID              string                `json:"id"`
	WoodlandOwnerID string                `json:"woodlandOwnerId"`
	Name            string                `json:"name"`
	NearestTown     string                `json:"nearestTown,omitempty"`
	Compartments    []compartmentResponse `json:"compartments"`
}

func toProfileResponse(profile property.PropertyProfile) profileResponse {
	compartments := make([]compartmentResponse, 0, len(profile.Compartments))
	for _, c := range profile.Compartments {
		compartments = append(compartments, toCompartmentResponse(c))
	}
	return profileResponse{
		ID:              profile.ID.String(),
		WoodlandOwnerID: profile.WoodlandOwnerID.String(),
		Name:            profile.Name,
		NearestTown:     profile.NearestTown,
		Compartments:    compartments,
	}
}

func toCompartmentResponse(c property.Compartment) compartmentResponse {
	return compartmentResponse{
		ID:             c.ID.String(),
		Number:         c.Number,
		SubCompartment: c.SubCompartment,
		TotalHectares:  c.TotalHectares,
		Designation:    c.Designation,
	}
}

type compartmentBody struct {
	Number         string  `json:"number"`
	SubCompartment string  `json:"subCompartment"`
	TotalHectares  float64 `json:"totalHectares"`
	Designation    string  `json:"designation"`
	GISData        string  `json:"gisData"`
}

func (b compartmentBody) toRequest() property.CompartmentRequest {
	return property.CompartmentRequest{
		Number:         b.Number,
		SubCompartment: b.SubCompartment,
		TotalHectares:  b.TotalHectares,
		Designation:    b.Designation,
		GISData:        b.GISData,
	}
}

func (h *Handler) createPropertyProfile(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())

	var body struct {
		WoodlandOwnerID string `json:"woodlandOwnerId"`
		Name            string `json:"name"`
		NearestTown     string `json:"nearestTown"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ownerID, err := id.ParseWoodlandOwnerID(body.WoodlandOwnerID)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid woodland owner id"))
		return
	}

	profile, err := h.properties.CreatePropertyProfile(r.Context(), applicant, property.CreateProfileRequest{
		WoodlandOwnerID: ownerID,
		Name:            body.Name,
		NearestTown:     body.NearestTown,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProfileResponse(profile))
}

func (h *Handler) updatePropertyProfile(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	profileID, err := pathProfileID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Name        string `json:"name"`
		NearestTown string `json:"nearestTown"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.properties.UpdatePropertyProfile(r.Context(), applicant, profileID, property.UpdateProfileRequest{
		Name:        body.Name,
		NearestTown: body.NearestTown,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) listPropertyProfiles(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	ownerID, err := id.ParseWoodlandOwnerID(chi.URLParam(r, "woodlandOwnerID"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid woodland owner id"))
		return
	}

	profiles, err := h.properties.ListPropertyProfiles(r.Context(), applicant, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]profileResponse, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, toProfileResponse(profile))
	}
	writeJSON(w, http.StatusOK, map[string]any{"propertyProfiles": out})
}

func (h *Handler) createCompartment(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	profileID, err := pathProfileID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body compartmentBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}

	compartment, err := h.properties.CreateCompartment(r.Context(), applicant, profileID, body.toRequest())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCompartmentResponse(compartment))
}

func (h *Handler) updateCompartment(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	profileID, err := pathProfileID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	compartmentID, err := id.ParseCompartmentID(chi.URLParam(r, "compartmentID"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid compartment id"))
		return
	}

	var body compartmentBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}

	compartment, err := h.properties.UpdateCompartment(r.Context(), applicant, profileID, compartmentID, body.toRequest())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompartmentResponse(compartment))
}

func pathProfileID(r *http.Request) (id.PropertyProfileID, error) {
	profileID, err := id.ParsePropertyProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		return id.PropertyProfileID{}, dErrors.New(dErrors.CodeBadRequest, "invalid property profile id")
	}
	return profileID, nil
}
