// Package httptransport is the thin HTTP layer over the application services.
// Handlers decode, delegate, and encode; guarding and auditing live in the
// services.
package httptransport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fellgate/internal/agentauthority"
	"fellgate/internal/document"
	"fellgate/internal/eia"
	"fellgate/internal/flapp"
	"fellgate/internal/invite"
	"fellgate/internal/property"
	"fellgate/internal/tenyear"
	"fellgate/internal/useraccess"
	"fellgate/internal/woodlandowner"
)

// AccessResolver resolves the caller's scope for read endpoints that guard in
// the transport layer rather than inside a service.
type AccessResolver interface {
	ResolveUserAccess(ctx context.Context, applicant useraccess.ExternalApplicant) (useraccess.UserAccessModel, error)
}

type Handler struct {
	access       AccessResolver
	applications *flapp.ExternalGetter
	documents    *document.Service
	tenYear      *tenyear.Service
	assessments  *eia.Service
	properties   *property.Service
	authorities  *agentauthority.Service
	owners       *woodlandowner.Service
	invites      *invite.Service

	maxUploadBytes int64
	logger         *slog.Logger
}

type Deps struct {
	Access       AccessResolver
	Applications *flapp.ExternalGetter
	Documents    *document.Service
	TenYear      *tenyear.Service
	Assessments  *eia.Service
	Properties   *property.Service
	Authorities  *agentauthority.Service
	Owners       *woodlandowner.Service
	Invites      *invite.Service

	MaxUploadBytes int64
	Logger         *slog.Logger
}

func NewHandler(deps Deps) (*Handler, error) {
	if deps.Access == nil || deps.Applications == nil || deps.Documents == nil || deps.TenYear == nil ||
		deps.Assessments == nil || deps.Properties == nil || deps.Authorities == nil ||
		deps.Owners == nil || deps.Invites == nil {
		return nil, fmt.Errorf("all services are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 32 << 20
	}
	return &Handler{
		access:         deps.Access,
		applications:   deps.Applications,
		documents:      deps.Documents,
		tenYear:        deps.TenYear,
		assessments:    deps.Assessments,
		properties:     deps.Properties,
		authorities:    deps.Authorities,
		owners:         deps.Owners,
		invites:        deps.Invites,
		maxUploadBytes: deps.MaxUploadBytes,
		logger:         deps.Logger,
	}, nil
}

// NewRouter wires every endpoint. Everything under /api/v1 requires a bearer
// token; invitation acceptance is public because the invitee has no token yet.
func NewRouter(h *Handler, signingKey string) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/invite/accept", h.acceptInvitation)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Authenticate(signingKey, h.logger))

		r.Get("/applications/{applicationID}", h.getApplication)
		r.Post("/applications/{applicationID}/supporting-documents", h.addSupportingDocuments)
		r.Delete("/applications/{applicationID}/supporting-documents/{documentID}", h.removeSupportingDocument)
		r.Put("/applications/{applicationID}/ten-year-licence", h.updateTenYearLicence)
		r.Put("/applications/{applicationID}/environmental-impact", h.updateEnvironmentalImpact)
		r.Post("/applications/{applicationID}/environmental-impact/attachments", h.addEiaAttachments)

		r.Get("/woodland-owners/{woodlandOwnerID}/applications", h.listApplications)
		r.Get("/woodland-owners/{woodlandOwnerID}/property-profiles", h.listPropertyProfiles)
		r.Post("/woodland-owners", h.createWoodlandOwner)

		r.Post("/property-profiles", h.createPropertyProfile)
		r.Put("/property-profiles/{profileID}", h.updatePropertyProfile)
		r.Post("/property-profiles/{profileID}/compartments", h.createCompartment)
		r.Put("/property-profiles/{profileID}/compartments/{compartmentID}", h.updateCompartment)

		r.Post("/agent-authorities", h.createAgentAuthority)
		r.Post("/agent-authorities/{authorityID}/forms", h.addAuthorityForms)
		r.Delete("/agent-authorities/{authorityID}/forms/{documentID}", h.removeAuthorityForm)
		r.Get("/agencies/{agencyID}/agent-authorities", h.listAgentAuthorities)

		r.Post("/invitations/woodland-owner", h.inviteWoodlandOwnerUser)
		r.Post("/invitations/agent", h.inviteAgent)
	})

	return r
}
