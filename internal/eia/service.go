package eia

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
	SetEnvironmentalImpactComplete(ctx context.Context, appID id.ApplicationID, complete bool) error
}

type Service struct {
	resolver  AccessResolver
	getter    ApplicationGetter
	updater   ApplicationUpdater
	records   Store
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

func New(resolver AccessResolver, getter ApplicationGetter, updater ApplicationUpdater, records Store,
	storage filestorage.Store, validator *upload.Validator, auditor audit.Auditor, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("access resolver is required")
	}
	if getter == nil || updater == nil {
		return nil, fmt.Errorf("application services are required")
	}
	if records == nil {
		return nil, fmt.Errorf("eia record store is required")
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
		records:   records,
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

// UpdateRequest carries the applicant's EIA answers. Nil fields leave the
// stored answer unchanged.
type UpdateRequest struct {
	HasApplicationBeenCompleted *bool
	HasApplicationBeenSent      *bool
}

// UpdateEnvironmentalImpactAssessment records the applicant's EIA answers and
// flips the application's EIA step flag when every question is answered.
func (s *Service) UpdateEnvironmentalImpactAssessment(ctx context.Context, applicant *useraccess.ExternalApplicant,
	appID id.ApplicationID, req UpdateRequest) (Record, error) {
	if applicant == nil {
		return Record{}, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if appID.IsNil() {
		return Record{}, dErrors.New(dErrors.CodeBadRequest, "application id required")
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		s.publishUpdateFailure(ctx, applicant, appID, err)
		return Record{}, err
	}

	app, err := s.getter.GetApplication(ctx, access, appID)
	if err != nil {
		s.publishUpdateFailure(ctx, applicant, appID, err)
		return Record{}, err
	}

	if !app.IsEditable() {
		err := dErrors.Newf(dErrors.CodeForbidden, "application in status %s is not editable", app.CurrentStatus())
		s.publishUpdateFailure(ctx, applicant, appID, err)
		return Record{}, err
	}

	record, err := s.records.Get(ctx, appID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve eia record")
		s.publishUpdateFailure(ctx, applicant, appID, err)
		return Record{}, err
	}
	record.ApplicationID = appID
	if req.HasApplicationBeenCompleted != nil {
		record.HasApplicationBeenCompleted = req.HasApplicationBeenCompleted
	}
	if req.HasApplicationBeenSent != nil {
		record.HasApplicationBeenSent = req.HasApplicationBeenSent
	}
	record.UpdatedAt = requestcontext.Now(ctx)

	if err := s.records.Save(ctx, record); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to save eia record")
		s.publishUpdateFailure(ctx, applicant, appID, err)
		return Record{}, err
	}

	if err := s.updater.SetEnvironmentalImpactComplete(ctx, appID, record.IsComplete()); err != nil {
		s.publishUpdateFailure(ctx, applicant, appID, err)
		return Record{}, err
	}

	s.publish(ctx, audit.EventEnvironmentalImpactAssessmentUpdated, applicant, appID, map[string]any{
		"hasApplicationBeenCompleted": boolAnswer(record.HasApplicationBeenCompleted),
		"hasApplicationBeenSent":      boolAnswer(record.HasApplicationBeenSent),
	})
	s.observe("UpdateEnvironmentalImpactAssessment", "success")
	return record, nil
}

// AddAttachmentsResult reports the ids assigned to newly stored attachments.
type AddAttachmentsResult struct {
	DocumentIDs []id.DocumentID
}

// AddEiaAttachments stores a validated collection of EIA attachments against an
// application. Same contract as supporting documents: empty collection is a
// silent no-op, a validation violation never reaches file storage.
func (s *Service) AddEiaAttachments(ctx context.Context, applicant *useraccess.ExternalApplicant,
	appID id.ApplicationID, files []upload.FileUpload) (AddAttachmentsResult, error) {
	if applicant == nil {
		return AddAttachmentsResult{}, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if appID.IsNil() {
		return AddAttachmentsResult{}, dErrors.New(dErrors.CodeBadRequest, "application id required")
	}

	if len(files) == 0 {
		return AddAttachmentsResult{}, nil
	}

	if err := s.validator.Validate(id.UploadReasonEiaAttachment, files); err != nil {
		s.publish(ctx, audit.EventAddEiaAttachmentsValidationFailure, applicant, appID, map[string]any{
			"error": err.Error(),
		})
		s.observe("AddEiaAttachments", "validation_failure")
		return AddAttachmentsResult{}, err
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		s.publishAttachmentsFailure(ctx, applicant, appID, err)
		return AddAttachmentsResult{}, err
	}

	app, err := s.getter.GetApplication(ctx, access, appID)
	if err != nil {
		s.publishAttachmentsFailure(ctx, applicant, appID, err)
		return AddAttachmentsResult{}, err
	}

	if !app.IsEditable() {
		err := dErrors.Newf(dErrors.CodeForbidden, "application in status %s is not editable", app.CurrentStatus())
		s.publishAttachmentsFailure(ctx, applicant, appID, err)
		return AddAttachmentsResult{}, err
	}

	now := requestcontext.Now(ctx)
	var stored []id.DocumentID
	for _, file := range files {
		receipt, err := s.storage.Save(ctx, file.FileName, file.Content)
		if err != nil {
			s.publishAttachmentsFailure(ctx, applicant, appID, err)
			return AddAttachmentsResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store eia attachment")
		}

		doc := flapp.DocumentMeta{
			ID:        id.NewDocumentID(),
			FileName:  file.FileName,
			MimeType:  file.MimeType,
			SizeBytes: file.SizeBytes,
			Reason:    id.UploadReasonEiaAttachment,
			Location:  receipt.Location,
			CreatedAt: now,
		}
		if err := s.updater.AppendDocument(ctx, appID, doc); err != nil {
			s.publishAttachmentsFailure(ctx, applicant, appID, err)
			return AddAttachmentsResult{}, err
		}
		stored = append(stored, doc.ID)
	}

	s.publish(ctx, audit.EventAddEiaAttachments, applicant, appID, map[string]any{
		"documentIds":   documentIDStrings(stored),
		"documentCount": len(stored),
	})
	s.observe("AddEiaAttachments", "success")
	if s.metrics != nil {
		s.metrics.DocumentsUploaded.Add(float64(len(stored)))
	}
	return AddAttachmentsResult{DocumentIDs: stored}, nil
}

func (s *Service) publishUpdateFailure(ctx context.Context, applicant *useraccess.ExternalApplicant,
	appID id.ApplicationID, cause error) {
	s.publish(ctx, audit.EventEnvironmentalImpactAssessmentUpdateFailure, applicant, appID, map[string]any{
		"error": cause.Error(),
	})
	s.observe("UpdateEnvironmentalImpactAssessment", "failure")
}

func (s *Service) publishAttachmentsFailure(ctx context.Context, applicant *useraccess.ExternalApplicant,
	appID id.ApplicationID, cause error) {
	s.publish(ctx, audit.EventAddEiaAttachmentsFailure, applicant, appID, map[string]any{
		"error": cause.Error(),
	})
	s.observe("AddEiaAttachments", "failure")
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

// boolAnswer keeps unanswered questions out of the payload as nulls rather
// than defaulted booleans.
func boolAnswer(answer *bool) any {
	if answer == nil {
		return nil
	}
	return *answer
}

func documentIDStrings(ids []id.DocumentID) []string {
	out := make([]string, len(ids))
	for i, docID := range ids {
		out[i] = docID.String()
	}
	return out
}
