package agentauthority

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/audit"
	"fellgate/pkg/platform/sentinel"
	"fellgate/pkg/requestcontext"

	"fellgate/internal/filestorage"
	"fellgate/internal/platform/metrics"
	"fellgate/internal/upload"
	"fellgate/internal/useraccess"
)

// AccessResolver resolves the applicant's authorization scope.
//
//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks
type AccessResolver interface {
	ResolveUserAccess(ctx context.Context, applicant useraccess.ExternalApplicant) (useraccess.UserAccessModel, error)
}

// AuthorityWriter is the slice of the store the form workflows mutate through.
// Kept separate from Store so tests can assert the add-files path is never
// reached when validation fails.
type AuthorityWriter interface {
	Save(ctx context.Context, authority AgentAuthority) error
	Update(ctx context.Context, authority AgentAuthority) error
}

// AuthorityReader loads authorities for guard checks and listing.
type AuthorityReader interface {
	Get(ctx context.Context, authorityID id.AuthorityID) (AgentAuthority, error)
	ListByAgency(ctx context.Context, agencyID id.AgencyID) ([]AgentAuthority, error)
}

type Service struct {
	resolver  AccessResolver
	reader    AuthorityReader
	writer    AuthorityWriter
	storage   filestorage.Store
	validator *upload.Validator
	auditor   audit.Auditor
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(resolver AccessResolver, reader AuthorityReader, writer AuthorityWriter,
	storage filestorage.Store, validator *upload.Validator, auditor audit.Auditor, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("access resolver is required")
	}
	if reader == nil || writer == nil {
		return nil, fmt.Errorf("authority store is required")
	}
	if storage == nil {
		return nil, fmt.Errorf("file storage is required")
	}
	if validator == nil {
		return nil, fmt.Errorf("upload validator is required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("auditor is required")
	}
	s := &Service{
		resolver:  resolver,
		reader:    reader,
		writer:    writer,
		storage:   storage,
		validator: validator,
		auditor:   auditor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateAuthorityRequest names the agency/owner pair the authority covers.
type CreateAuthorityRequest struct {
	AgencyID        id.AgencyID
	WoodlandOwnerID id.WoodlandOwnerID
}

// CreateAgentAuthority records a new authority for an agency to act for a
// woodland owner. One unrevoked authority per pair; a second attempt conflicts.
func (s *Service) CreateAgentAuthority(ctx context.Context, applicant *useraccess.ExternalApplicant,
	req CreateAuthorityRequest) (AgentAuthority, error) {
	if applicant == nil {
		return AgentAuthority{}, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if req.AgencyID.IsNil() || req.WoodlandOwnerID.IsNil() {
		return AgentAuthority{}, dErrors.New(dErrors.CodeBadRequest, "agency id and woodland owner id required")
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		s.publishCreateFailure(ctx, applicant, req, err)
		return AgentAuthority{}, err
	}
	if !access.CanManageAgency(req.AgencyID) {
		err := dErrors.New(dErrors.CodeForbidden, "caller does not manage the agency")
		s.publishCreateFailure(ctx, applicant, req, err)
		return AgentAuthority{}, err
	}

	now := requestcontext.Now(ctx)
	authority := AgentAuthority{
		ID:              id.NewAuthorityID(),
		AgencyID:        req.AgencyID,
		WoodlandOwnerID: req.WoodlandOwnerID,
		Status:          AuthorityCreated,
		CreatedBy:       applicant.UserAccountID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.writer.Save(ctx, authority); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			err = dErrors.Wrap(err, dErrors.CodeConflict, "an authority already exists for this woodland owner")
		} else {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to save agent authority")
		}
		s.publishCreateFailure(ctx, applicant, req, err)
		return AgentAuthority{}, err
	}

	s.publish(ctx, audit.EventCreateAgentAuthoritySuccess, applicant, authority.ID, map[string]any{
		"agencyId":        req.AgencyID.String(),
		"woodlandOwnerId": req.WoodlandOwnerID.String(),
	})
	s.observe("CreateAgentAuthority", "success")
	return authority, nil
}

// AddFormFilesResult reports the ids assigned to newly stored form documents.
type AddFormFilesResult struct {
	DocumentIDs []id.DocumentID
}

// AddAgentAuthorityFormFiles stores a validated collection of authority form
// files against an existing authority. An empty collection is a no-op success.
// A validation violation publishes the validation-failure event and never
// reaches file storage or the authority record.
func (s *Service) AddAgentAuthorityFormFiles(ctx context.Context, applicant *useraccess.ExternalApplicant,
	authorityID id.AuthorityID, files []upload.FileUpload) (AddFormFilesResult, error) {
	if applicant == nil {
		return AddFormFilesResult{}, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if authorityID.IsNil() {
		return AddFormFilesResult{}, dErrors.New(dErrors.CodeBadRequest, "authority id required")
	}

	if len(files) == 0 {
		return AddFormFilesResult{}, nil
	}

	if err := s.validator.Validate(id.UploadReasonAgentAuthorityForm, files); err != nil {
		s.publish(ctx, audit.EventAddAgentAuthorityFormFilesValidationFailure, applicant, authorityID, map[string]any{
			"error": err.Error(),
		})
		s.observe("AddAgentAuthorityFormFiles", "validation_failure")
		return AddFormFilesResult{}, err
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		s.publishAddFilesFailure(ctx, applicant, authorityID, err)
		return AddFormFilesResult{}, err
	}

	authority, err := s.reader.Get(ctx, authorityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			err = dErrors.New(dErrors.CodeNotFound, "agent authority not found")
		} else {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve agent authority")
		}
		s.publishAddFilesFailure(ctx, applicant, authorityID, err)
		return AddFormFilesResult{}, err
	}

	if !access.CanManageAgency(authority.AgencyID) {
		err := dErrors.New(dErrors.CodeForbidden, "caller does not manage the agency holding this authority")
		s.publishAddFilesFailure(ctx, applicant, authorityID, err)
		return AddFormFilesResult{}, err
	}
	if authority.Status == AuthorityRevoked {
		err := dErrors.New(dErrors.CodeForbidden, "authority is revoked")
		s.publishAddFilesFailure(ctx, applicant, authorityID, err)
		return AddFormFilesResult{}, err
	}

	now := requestcontext.Now(ctx)
	var stored []id.DocumentID
	for _, file := range files {
		receipt, err := s.storage.Save(ctx, file.FileName, file.Content)
		if err != nil {
			s.publishAddFilesFailure(ctx, applicant, authorityID, err)
			return AddFormFilesResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store authority form")
		}
		form := FormDocument{
			ID:        id.NewDocumentID(),
			FileName:  file.FileName,
			MimeType:  file.MimeType,
			SizeBytes: file.SizeBytes,
			Location:  receipt.Location,
			CreatedAt: now,
		}
		authority.Forms = append(authority.Forms, form)
		stored = append(stored, form.ID)
	}
	if authority.Status == AuthorityCreated {
		authority.Status = AuthorityFormUploaded
	}
	authority.UpdatedAt = now

	if err := s.writer.Update(ctx, authority); err != nil {
		s.publishAddFilesFailure(ctx, applicant, authorityID, err)
		return AddFormFilesResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update agent authority")
	}

	s.publish(ctx, audit.EventAddAgentAuthorityFormFiles, applicant, authorityID, map[string]any{
		"documentIds":   documentIDStrings(stored),
		"documentCount": len(stored),
	})
	s.observe("AddAgentAuthorityFormFiles", "success")
	if s.metrics != nil {
		s.metrics.DocumentsUploaded.Add(float64(len(stored)))
	}
	return AddFormFilesResult{DocumentIDs: stored}, nil
}

// RemoveAgentAuthorityForm detaches a form document from an authority and
// removes its bytes from storage. A storage removal failure after the record
// commit is logged, not surfaced.
func (s *Service) RemoveAgentAuthorityForm(ctx context.Context, applicant *useraccess.ExternalApplicant,
	authorityID id.AuthorityID, docID id.DocumentID) error {
	if applicant == nil {
		return dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if authorityID.IsNil() || docID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "authority id and document id required")
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		s.publishRemoveFormFailure(ctx, applicant, authorityID, docID, err)
		return err
	}

	authority, err := s.reader.Get(ctx, authorityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			err = dErrors.New(dErrors.CodeNotFound, "agent authority not found")
		} else {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve agent authority")
		}
		s.publishRemoveFormFailure(ctx, applicant, authorityID, docID, err)
		return err
	}

	if !access.CanManageAgency(authority.AgencyID) {
		err := dErrors.New(dErrors.CodeForbidden, "caller does not manage the agency holding this authority")
		s.publishRemoveFormFailure(ctx, applicant, authorityID, docID, err)
		return err
	}

	form, ok := authority.Form(docID)
	if !ok {
		err := dErrors.New(dErrors.CodeNotFound, "form document not found on authority")
		s.publishRemoveFormFailure(ctx, applicant, authorityID, docID, err)
		return err
	}

	kept := authority.Forms[:0]
	for _, candidate := range authority.Forms {
		if candidate.ID != docID {
			kept = append(kept, candidate)
		}
	}
	authority.Forms = kept
	authority.UpdatedAt = requestcontext.Now(ctx)

	if err := s.writer.Update(ctx, authority); err != nil {
		s.publishRemoveFormFailure(ctx, applicant, authorityID, docID, err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update agent authority")
	}

	if err := s.storage.Remove(ctx, form.Location); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove authority form from file storage",
			"error", err,
			"document_id", docID.String(),
			"location", form.Location,
		)
	}

	s.publish(ctx, audit.EventRemoveAgentAuthorityFormSuccess, applicant, authorityID, map[string]any{
		"documentId": docID.String(),
	})
	s.observe("RemoveAgentAuthorityForm", "success")
	return nil
}

// ListAuthoritiesForAgency returns every authority held by the agency the
// caller manages.
func (s *Service) ListAuthoritiesForAgency(ctx context.Context, applicant *useraccess.ExternalApplicant,
	agencyID id.AgencyID) ([]AgentAuthority, error) {
	if applicant == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if agencyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "agency id required")
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		return nil, err
	}
	if !access.IsFcUser && !access.CanManageAgency(agencyID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "caller does not manage the agency")
	}

	authorities, err := s.reader.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list agent authorities")
	}
	return authorities, nil
}

func (s *Service) publishCreateFailure(ctx context.Context, applicant *useraccess.ExternalApplicant,
	req CreateAuthorityRequest, cause error) {
	s.publishRaw(ctx, audit.EventCreateAgentAuthorityFailure, applicant, req.AgencyID.String(), map[string]any{
		"agencyId":        req.AgencyID.String(),
		"woodlandOwnerId": req.WoodlandOwnerID.String(),
		"error":           cause.Error(),
	})
	s.observe("CreateAgentAuthority", "failure")
}

func (s *Service) publishAddFilesFailure(ctx context.Context, applicant *useraccess.ExternalApplicant,
	authorityID id.AuthorityID, cause error) {
	s.publish(ctx, audit.EventAddAgentAuthorityFormFilesFailure, applicant, authorityID, map[string]any{
		"error": cause.Error(),
	})
	s.observe("AddAgentAuthorityFormFiles", "failure")
}

func (s *Service) publishRemoveFormFailure(ctx context.Context, applicant *useraccess.ExternalApplicant,
	authorityID id.AuthorityID, docID id.DocumentID, cause error) {
	s.publish(ctx, audit.EventRemoveAgentAuthorityFormFailure, applicant, authorityID, map[string]any{
		"documentId": docID.String(),
		"error":      cause.Error(),
	})
	s.observe("RemoveAgentAuthorityForm", "failure")
}

func (s *Service) publish(ctx context.Context, name audit.EventName, applicant *useraccess.ExternalApplicant,
	authorityID id.AuthorityID, data map[string]any) {
	s.publishRaw(ctx, name, applicant, authorityID.String(), data)
}

func (s *Service) publishRaw(ctx context.Context, name audit.EventName, applicant *useraccess.ExternalApplicant,
	sourceEntityID string, data map[string]any) {
	userID := applicant.UserAccountID
	event := audit.Event{
		Name:             name,
		ActorType:        id.ActorExternalApplicant,
		UserID:           &userID,
		SourceEntityID:   sourceEntityID,
		SourceEntityType: audit.SourceAgentAuthority,
		Data:             data,
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish audit event",
			"error", err,
			"event", string(name),
		)
		if s.metrics != nil {
			s.metrics.AuditPersistFailures.Inc()
		}
	}
}

func (s *Service) observe(operation, result string) {
	if s.metrics != nil {
		s.metrics.ObserveOutcome(operation, result)
	}
}

func documentIDStrings(ids []id.DocumentID) []string {
	out := make([]string, len(ids))
	for i, docID := range ids {
		out[i] = docID.String()
	}
	return out
}
