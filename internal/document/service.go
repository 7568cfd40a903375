// Package document implements the supporting-document workflows: adding a
// validated file collection to an application and removing a single document.
// Each terminal branch publishes exactly one audit event.
package document

import (
	"context"
	"fmt"
	"log/slog"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/audit"
	"fellgate/pkg/requestcontext"

	"fellgate/internal/filestorage"
	"fellgate/internal/flapp"
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

// ApplicationGetter loads an application within the caller's scope.
type ApplicationGetter interface {
	GetApplication(ctx context.Context, access useraccess.UserAccessModel, appID id.ApplicationID) (flapp.Application, error)
}

// ApplicationUpdater is the slice of the flapp updater this workflow mutates
// through.
type ApplicationUpdater interface {
	AppendDocument(ctx context.Context, appID id.ApplicationID, doc flapp.DocumentMeta) error
	RemoveDocument(ctx context.Context, appID id.ApplicationID, docID id.DocumentID) error
}

type Service struct {
	resolver  AccessResolver
	getter    ApplicationGetter
	updater   ApplicationUpdater
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

func New(resolver AccessResolver, getter ApplicationGetter, updater ApplicationUpdater,
	storage filestorage.Store, validator *upload.Validator, auditor audit.Auditor, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("access resolver is required")
	}
	if getter == nil || updater == nil {
		return nil, fmt.Errorf("application services are required")
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
		getter:    getter,
		updater:   updater,
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

// AddDocumentsResult reports the ids assigned to newly stored documents.
type AddDocumentsResult struct {
	DocumentIDs []id.DocumentID
}

// AddSupportingDocuments stores a validated file collection against an
// application. An empty collection is a no-op success: no downstream call, no
// audit event. A validation violation publishes the validation-failure event
// and never reaches file storage.
func (s *Service) AddSupportingDocuments(ctx context.Context, applicant *useraccess.ExternalApplicant,
	appID id.ApplicationID, files []upload.FileUpload) (AddDocumentsResult, error) {
	if applicant == nil {
		return AddDocumentsResult{}, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if appID.IsNil() {
		return AddDocumentsResult{}, dErrors.New(dErrors.CodeBadRequest, "application id required")
	}

	if len(files) == 0 {
		return AddDocumentsResult{}, nil
	}

	if err := s.validator.Validate(id.UploadReasonSupportingDocument, files); err != nil {
		s.publish(ctx, audit.EventAddSupportingDocumentsValidationFailure, applicant, appID, map[string]any{
			"error": err.Error(),
		})
		s.observe("AddSupportingDocuments", "validation_failure")
		return AddDocumentsResult{}, err
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		s.publish(ctx, audit.EventAddSupportingDocumentsFailure, applicant, appID, map[string]any{
			"error": err.Error(),
		})
		s.observe("AddSupportingDocuments", "failure")
		return AddDocumentsResult{}, err
	}

	app, err := s.getter.GetApplication(ctx, access, appID)
	if err != nil {
		s.publish(ctx, audit.EventAddSupportingDocumentsFailure, applicant, appID, map[string]any{
			"error": err.Error(),
		})
		s.observe("AddSupportingDocuments", "failure")
		return AddDocumentsResult{}, err
	}

	if !app.IsEditable() {
		err := dErrors.Newf(dErrors.CodeForbidden, "application in status %s is not editable", app.CurrentStatus())
		s.publish(ctx, audit.EventAddSupportingDocumentsFailure, applicant, appID, map[string]any{
			"error": err.Error(),
		})
		s.observe("AddSupportingDocuments", "failure")
		return AddDocumentsResult{}, err
	}

	now := requestcontext.Now(ctx)
	var stored []id.DocumentID
	for _, file := range files {
		receipt, err := s.storage.Save(ctx, file.FileName, file.Content)
		if err != nil {
			s.publish(ctx, audit.EventAddSupportingDocumentsFailure, applicant, appID, map[string]any{
				"error": err.Error(),
			})
			s.observe("AddSupportingDocuments", "failure")
			return AddDocumentsResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store document")
		}

		doc := flapp.DocumentMeta{
			ID:        id.NewDocumentID(),
			FileName:  file.FileName,
			MimeType:  file.MimeType,
			SizeBytes: file.SizeBytes,
			Reason:    id.UploadReasonSupportingDocument,
			Location:  receipt.Location,
			CreatedAt: now,
		}
		if err := s.updater.AppendDocument(ctx, appID, doc); err != nil {
			s.publish(ctx, audit.EventAddSupportingDocumentsFailure, applicant, appID, map[string]any{
				"error": err.Error(),
			})
			s.observe("AddSupportingDocuments", "failure")
			return AddDocumentsResult{}, err
		}
		stored = append(stored, doc.ID)
	}

	s.publish(ctx, audit.EventAddSupportingDocumentsSuccess, applicant, appID, map[string]any{
		"documentIds":   documentIDStrings(stored),
		"documentCount": len(stored),
	})
	s.observe("AddSupportingDocuments", "success")
	if s.metrics != nil {
		s.metrics.DocumentsUploaded.Add(float64(len(stored)))
	}
	return AddDocumentsResult{DocumentIDs: stored}, nil
}

// RemoveSupportingDocument detaches a document from an application and removes
// its bytes from storage. A storage removal failure after the metadata commit
// is logged, not surfaced: the document is already gone from the application.
func (s *Service) RemoveSupportingDocument(ctx context.Context, applicant *useraccess.ExternalApplicant,
	appID id.ApplicationID, docID id.DocumentID) error {
	if applicant == nil {
		return dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if appID.IsNil() || docID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "application id and document id required")
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		s.publishRemoveFailure(ctx, applicant, appID, docID, err)
		return err
	}

	app, err := s.getter.GetApplication(ctx, access, appID)
	if err != nil {
		s.publishRemoveFailure(ctx, applicant, appID, docID, err)
		return err
	}

	doc, ok := app.Document(docID)
	if !ok {
		err := dErrors.New(dErrors.CodeNotFound, "document not found on application")
		s.publishRemoveFailure(ctx, applicant, appID, docID, err)
		return err
	}

	if err := s.updater.RemoveDocument(ctx, appID, docID); err != nil {
		s.publishRemoveFailure(ctx, applicant, appID, docID, err)
		return err
	}

	if err := s.storage.Remove(ctx, doc.Location); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove document from file storage",
			"error", err,
			"document_id", docID.String(),
			"location", doc.Location,
		)
	}

	s.publish(ctx, audit.EventRemoveSupportingDocumentSuccess, applicant, appID, map[string]any{
		"documentId": docID.String(),
	})
	s.observe("RemoveSupportingDocument", "success")
	return nil
}

func (s *Service) publishRemoveFailure(ctx context.Context, applicant *useraccess.ExternalApplicant,
	appID id.ApplicationID, docID id.DocumentID, cause error) {
	s.publish(ctx, audit.EventRemoveSupportingDocumentFailure, applicant, appID, map[string]any{
		"documentId": docID.String(),
		"error":      cause.Error(),
	})
	s.observe("RemoveSupportingDocument", "failure")
}

func (s *Service) publish(ctx context.Context, name audit.EventName, applicant *useraccess.ExternalApplicant,
	appID id.ApplicationID, data map[string]any) {
	userID := applicant.UserAccountID
	event := audit.Event{
		Name:             name,
		ActorType:        id.ActorExternalApplicant,
		UserID:           &userID,
		SourceEntityID:   appID.String(),
		SourceEntityType: audit.SourceFellingLicenceApplication,
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
