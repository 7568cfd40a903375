// Package tenyear implements the ten-year licence step: flagging whether an
// application is for a ten-year felling licence.
package tenyear

import (
	"context"
	"fmt"
	"log/slog"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/audit"

	"fellgate/internal/flapp"
	"fellgate/internal/platform/metrics"
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

// LicenceUpdater is the slice of the flapp updater this workflow mutates
// through.
type LicenceUpdater interface {
	SetTenYearLicence(ctx context.Context, appID id.ApplicationID, isForTenYearLicence bool) error
}

type Service struct {
	resolver AccessResolver
	getter   ApplicationGetter
	updater  LicenceUpdater
	auditor  audit.Auditor
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(resolver AccessResolver, getter ApplicationGetter, updater LicenceUpdater,
	auditor audit.Auditor, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("access resolver is required")
	}
	if getter == nil || updater == nil {
		return nil, fmt.Errorf("application services are required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("auditor is required")
	}
	s := &Service{
		resolver: resolver,
		getter:   getter,
		updater:  updater,
		auditor:  auditor,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// UpdateTenYearLicenceStatus records whether the application is for a ten-year
// licence and marks the step complete. The audit payload always carries the
// submitted flag, whichever branch terminates the call.
func (s *Service) UpdateTenYearLicenceStatus(ctx context.Context, applicant *useraccess.ExternalApplicant,
	appID id.ApplicationID, isForTenYearLicence bool) error {
	if applicant == nil {
		return dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if appID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "application id required")
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		s.publishFailure(ctx, applicant, appID, isForTenYearLicence, err)
		return err
	}

	app, err := s.getter.GetApplication(ctx, access, appID)
	if err != nil {
		s.publishFailure(ctx, applicant, appID, isForTenYearLicence, err)
		return err
	}

	if !app.IsEditable() {
		err := dErrors.Newf(dErrors.CodeForbidden, "application in status %s is not editable", app.CurrentStatus())
		s.publishFailure(ctx, applicant, appID, isForTenYearLicence, err)
		return err
	}

	if err := s.updater.SetTenYearLicence(ctx, appID, isForTenYearLicence); err != nil {
		s.publishFailure(ctx, applicant, appID, isForTenYearLicence, err)
		return err
	}

	s.publish(ctx, audit.EventTenYearLicenceStatusUpdated, applicant, appID, map[string]any{
		"isForTenYearLicence": isForTenYearLicence,
	})
	s.observe("success")
	return nil
}

func (s *Service) publishFailure(ctx context.Context, applicant *useraccess.ExternalApplicant,
	appID id.ApplicationID, isForTenYearLicence bool, cause error) {
	s.publish(ctx, audit.EventTenYearLicenceStatusUpdateFailure, applicant, appID, map[string]any{
		"isForTenYearLicence": isForTenYearLicence,
		"error":               cause.Error(),
	})
	s.observe("failure")
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

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveOutcome("UpdateTenYearLicenceStatus", result)
	}
}
