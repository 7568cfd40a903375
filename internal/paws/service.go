// Package paws runs the ancient-woodland (PAWS) requirement check for a
// submitted application: it asks the external constraint service which of the
// property's compartments sit on PAWS land and records the outcome against the
// application's compartment designations.
package paws

import (
	"context"
	"fmt"
	"log/slog"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/audit"

	"fellgate/internal/platform/metrics"
	"fellgate/internal/property"
)

// ConstraintChecker is the external GIS/constraint service. It returns the ids
// of the compartments whose geometry intersects PAWS land.
//
//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks
type ConstraintChecker interface {
	CheckCompartmentsForPaws(ctx context.Context, compartments []property.Compartment) ([]id.CompartmentID, error)
}

// PropertyGetter loads the property profile named by the check message.
type PropertyGetter interface {
	Get(ctx context.Context, profileID id.PropertyProfileID) (property.PropertyProfile, error)
}

// DesignationUpdater is the slice of the flapp updater the check records
// outcomes through.
type DesignationUpdater interface {
	UpdateCompartmentDesignation(ctx context.Context, appID id.ApplicationID, compartmentID id.CompartmentID, paws bool) error
}

// CheckMessage triggers one PAWS requirement check. Produced on submission;
// processed with a system actor, not a request principal.
type CheckMessage struct {
	ApplicationID     id.ApplicationID
	PropertyProfileID id.PropertyProfileID
	WoodlandOwnerID   id.WoodlandOwnerID
}

type Service struct {
	properties PropertyGetter
	checker    ConstraintChecker
	updater    DesignationUpdater
	auditor    audit.Auditor
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(properties PropertyGetter, checker ConstraintChecker, updater DesignationUpdater,
	auditor audit.Auditor, opts ...Option) (*Service, error) {
	if properties == nil {
		return nil, fmt.Errorf("property getter is required")
	}
	if checker == nil {
		return nil, fmt.Errorf("constraint checker is required")
	}
	if updater == nil {
		return nil, fmt.Errorf("designation updater is required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("auditor is required")
	}
	s := &Service{
		properties: properties,
		checker:    checker,
		updater:    updater,
		auditor:    auditor,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CheckAndUpdateApplicationForPaws loads the property, runs the constraint
// check, and records the PAWS flag for every compartment. Exactly one audit
// event terminates the call: PawsRequirementCheckCompleted with the flagged
// compartment ids, or PawsRequirementCheckFailed for the first error hit.
func (s *Service) CheckAndUpdateApplicationForPaws(ctx context.Context, msg CheckMessage) error {
	if msg.ApplicationID.IsNil() || msg.PropertyProfileID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "application id and property profile id required")
	}

	profile, err := s.properties.Get(ctx, msg.PropertyProfileID)
	if err != nil {
		wrapped := fmt.Errorf("Failed to retrieve property with id %s on application with id %s to check compartments for PAWS: %v",
			msg.PropertyProfileID, msg.ApplicationID, err)
		s.publishFailed(ctx, msg, map[string]any{
			"woodlandOwner": msg.WoodlandOwnerID.String(),
			"error":         wrapped.Error(),
		})
		return dErrors.Wrap(err, dErrors.CodeInternal, wrapped.Error())
	}

	flagged, err := s.checker.CheckCompartmentsForPaws(ctx, profile.Compartments)
	if err != nil {
		s.publishFailed(ctx, msg, map[string]any{
			"woodlandOwner": msg.WoodlandOwnerID.String(),
			"error":         err.Error(),
		})
		return dErrors.Wrap(err, dErrors.CodeInternal, "constraint check failed")
	}

	onPaws := make(map[id.CompartmentID]bool, len(flagged))
	for _, compartmentID := range flagged {
		onPaws[compartmentID] = true
	}

	for _, compartment := range profile.Compartments {
		if err := s.updater.UpdateCompartmentDesignation(ctx, msg.ApplicationID, compartment.ID, onPaws[compartment.ID]); err != nil {
			s.publishFailed(ctx, msg, map[string]any{
				"compartmentId": compartment.ID.String(),
				"error":         err.Error(),
			})
			return err
		}
	}

	s.publish(ctx, audit.EventPawsRequirementCheckCompleted, msg, map[string]any{
		"woodlandOwner":       msg.WoodlandOwnerID.String(),
		"pawsCompartmentIds":  compartmentIDStrings(flagged),
		"compartmentsChecked": len(profile.Compartments),
	})
	s.observe("success")
	return nil
}

func (s *Service) publishFailed(ctx context.Context, msg CheckMessage, data map[string]any) {
	s.publish(ctx, audit.EventPawsRequirementCheckFailed, msg, data)
	s.observe("failure")
}

func (s *Service) publish(ctx context.Context, name audit.EventName, msg CheckMessage, data map[string]any) {
	event := audit.Event{
		Name:             name,
		ActorType:        id.ActorSystem,
		SourceEntityID:   msg.ApplicationID.String(),
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
		s.metrics.ObserveOutcome("CheckAndUpdateApplicationForPaws", result)
	}
}

func compartmentIDStrings(ids []id.CompartmentID) []string {
	out := make([]string, len(ids))
	for i, compartmentID := range ids {
		out[i] = compartmentID.String()
	}
	return out
}
