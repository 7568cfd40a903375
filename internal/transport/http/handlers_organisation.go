package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"

	"fellgate/internal/agentauthority"
	"fellgate/internal/invite"
	"fellgate/internal/useraccess"
	"fellgate/internal/woodlandowner"
)

func (h *Handler) createWoodlandOwner(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())

	var body struct {
		OwnerName      string `json:"ownerName"`
		ContactName    string `json:"contactName"`
		ContactEmail   string `json:"contactEmail"`
		IsOrganisation bool   `json:"isOrganisation"`
		CreateAgency   bool   `json:"createAgency"`
		AgencyName     string `json:"agencyName"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.owners.CreateWoodlandOwnerAndAgency(r.Context(), applicant, woodlandowner.CreateRequest{
		OwnerName:      body.OwnerName,
		ContactName:    body.ContactName,
		ContactEmail:   body.ContactEmail,
		IsOrganisation: body.IsOrganisation,
		CreateAgency:   body.CreateAgency,
		AgencyName:     body.AgencyName,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	response := map[string]any{"woodlandOwnerId": result.WoodlandOwner.ID.String()}
	if result.Agency != nil {
		response["agencyId"] = result.Agency.ID.String()
	}
	writeJSON(w, http.StatusCreated, response)
}

type authorityResponse struct {
	ID              string   `json:"id"`
	AgencyID        string   `json:"agencyId"`
	WoodlandOwnerID string   `json:"woodlandOwnerId"`
	Status          string   `json:"status"`
	FormDocumentIDs []string `json:"formDocumentIds"`
}

func toAuthorityResponse(authority agentauthority.AgentAuthority) authorityResponse {
	forms := make([]string, 0, len(authority.Forms))
	for _, form := range authority.Forms {
		forms = append(forms, form.ID.String())
	}
	return authorityResponse{
		ID:              authority.ID.String(),
		AgencyID:        authority.AgencyID.String(),
		WoodlandOwnerID: authority.WoodlandOwnerID.String(),
		Status:          string(authority.Status),
		FormDocumentIDs: forms,
	}
}

func (h *Handler) createAgentAuthority(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())

	var body struct {
		AgencyID        string `json:"agencyId"`
		WoodlandOwnerID string `json:"woodlandOwnerId"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	agencyID, err := id.ParseAgencyID(body.AgencyID)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid agency id"))
		return
	}
	ownerID, err := id.ParseWoodlandOwnerID(body.WoodlandOwnerID)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid woodland owner id"))
		return
	}

	authority, err := h.authorities.CreateAgentAuthority(r.Context(), applicant, agentauthority.CreateAuthorityRequest{
		AgencyID:        agencyID,
		WoodlandOwnerID: ownerID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAuthorityResponse(authority))
}

func (h *Handler) addAuthorityForms(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	authorityID, err := pathAuthorityID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	files, err := h.filesFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authorities.AddAgentAuthorityFormFiles(r.Context(), applicant, authorityID, files)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"documentIds": idStrings(result.DocumentIDs)})
}

func (h *Handler) removeAuthorityForm(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	authorityID, err := pathAuthorityID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return
	}

	if err := h.authorities.RemoveAgentAuthorityForm(r.Context(), applicant, authorityID, docID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAgentAuthorities(w http.ResponseWriter, r *http.Request) {
	applicant := ApplicantFrom(r.Context())
	agencyID, err := id.ParseAgencyID(chi.URLParam(r, "agencyID"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid agency id"))
		return
	}

	authorities, err := h.authorities.ListAuthoritiesForAgency(r.Context(), applicant, agencyID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]authorityResponse, 0, len(authorities))
	for _, authority := range authorities {
		out = append(out, toAuthorityResponse(authority))
	}
	writeJSON(w, http.StatusOK, map[string]any{"agentAuthorities": out})
}

type inviteBody struct {
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	WoodlandOwnerID string `json:"woodlandOwnerId"`
	AgencyID        string `json:"agencyId"`
	Resend          bool   `json:"resend"`
}

func (b inviteBody) toRequest() (invite.Request, error) {
	req := invite.Request{
		Email:     b.Email,
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Resend:    b.Resend,
	}
	if b.WoodlandOwnerID != "" {
		ownerID, err := id.ParseWoodlandOwnerID(b.WoodlandOwnerID)
		if err != nil {
			return invite.Request{}, dErrors.New(dErrors.CodeBadRequest, "invalid woodland owner id")
		}
		req.WoodlandOwnerID = ownerID
	}
	if b.AgencyID != "" {
		agencyID, err := id.ParseAgencyID(b.AgencyID)
		if err != nil {
			return invite.Request{}, dErrors.New(dErrors.CodeBadRequest, "invalid agency id")
		}
		req.AgencyID = agencyID
	}
	return req, nil
}

func (h *Handler) inviteWoodlandOwnerUser(w http.ResponseWriter, r *http.Request) {
	h.handleInvite(w, r, h.invites.InviteWoodlandOwnerUser)
}

func (h *Handler) inviteAgent(w http.ResponseWriter, r *http.Request) {
	h.handleInvite(w, r, h.invites.InviteAgentToOrganisation)
}

func (h *Handler) handleInvite(w http.ResponseWriter, r *http.Request,
	send func(ctx context.Context, applicant *useraccess.ExternalApplicant, req invite.Request) (invite.Outcome, error)) {
	applicant := ApplicantFrom(r.Context())

	var body inviteBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := body.toRequest()
	if err != nil {
		writeError(w, err)
		return
	}

	outcome, err := send(r.Context(), applicant, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome)})
}

// acceptInvitation is unauthenticated: the invitee proves identity with the
// emailed token, not a bearer token.
func (h *Handler) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	token, err := uuid.Parse(body.Token)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired invitation"))
		return
	}

	account, err := h.invites.VerifyInvitedUserAccount(r.Context(), body.Email, token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"userAccountId": account.ID.String(),
		"status":        string(account.Status),
	})
}

func pathAuthorityID(r *http.Request) (id.AuthorityID, error) {
	authorityID, err := id.ParseAuthorityID(chi.URLParam(r, "authorityID"))
	if err != nil {
		return id.AuthorityID{}, dErrors.New(dErrors.CodeBadRequest, "invalid authority id")
	}
	return authorityID, nil
}
