package property

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/audit"
	"fellgate/pkg/platform/sentinel"
	"fellgate/pkg/requestcontext"

	"fellgate/internal/platform/metrics"
	"fellgate/internal/useraccess"
)

// AccessResolver resolves the applicant's authorization scope.
//
//go:generate mockgen -source=service.go -destination=mocks/service_mocks.go -package=mocks
type AccessResolver interface {
	ResolveUserAccess(ctx context.Context, applicant useraccess.ExternalApplicant) (useraccess.UserAccessModel, error)
}

type Service struct {
	resolver AccessResolver
	store    Store
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

func New(resolver AccessResolver, store Store, auditor audit.Auditor, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("access resolver is required")
	}
	if store == nil {
		return nil, fmt.Errorf("property store is required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("auditor is required")
	}
	s := &Service{
		resolver: resolver,
		store:    store,
		auditor:  auditor,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateProfileRequest carries the fields for a new property profile.
type CreateProfileRequest struct {
	WoodlandOwnerID id.WoodlandOwnerID
	Name            string
	NearestTown     string
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	Name        string
	NearestTown string
}

// CompartmentRequest carries the fields for a new or updated compartment.
type CompartmentRequest struct {
	Number         string
	SubCompartment string
	TotalHectares  float64
	Designation    string
	GISData        string
}

// CreatePropertyProfile records a new property profile for a woodland owner.
// Profile names are unique per owner; a duplicate name conflicts.
func (s *Service) CreatePropertyProfile(ctx context.Context, applicant *useraccess.ExternalApplicant,
	req CreateProfileRequest) (PropertyProfile, error) {
	if applicant == nil {
		return PropertyProfile{}, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if req.WoodlandOwnerID.IsNil() {
		return PropertyProfile{}, dErrors.New(dErrors.CodeBadRequest, "woodland owner id required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return PropertyProfile{}, dErrors.New(dErrors.CodeBadRequest, "property name required")
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		s.publishProfileFailure(ctx, audit.EventCreatePropertyProfileFailure, "CreatePropertyProfile",
			applicant, req.WoodlandOwnerID.String(), err)
		return PropertyProfile{}, err
	}
	if !access.CanActForWoodlandOwner(req.WoodlandOwnerID) {
		err := dErrors.New(dErrors.CodeForbidden, "caller may not act for this woodland owner")
		s.publishProfileFailure(ctx, audit.EventCreatePropertyProfileFailure, "CreatePropertyProfile",
			applicant, req.WoodlandOwnerID.String(), err)
		return PropertyProfile{}, err
	}

	now := requestcontext.Now(ctx)
	profile := PropertyProfile{
		ID:              id.NewPropertyProfileID(),
		WoodlandOwnerID: req.WoodlandOwnerID,
		Name:            strings.TrimSpace(req.Name),
		NearestTown:     strings.TrimSpace(req.NearestTown),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Save(ctx, profile); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			err = dErrors.Wrap(err, dErrors.CodeConflict, "a property with this name already exists for the woodland owner")
		} else {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to save property profile")
		}
		s.publishProfileFailure(ctx, audit.EventCreatePropertyProfileFailure, "CreatePropertyProfile",
			applicant, profile.ID.String(), err)
		return PropertyProfile{}, err
	}

	s.publish(ctx, audit.EventPropertyProfileCreated, applicant, profile.ID.String(), audit.SourcePropertyProfile, map[string]any{
		"woodlandOwnerId": req.WoodlandOwnerID.String(),
		"name":            profile.Name,
	})
	s.observe("CreatePropertyProfile", "success")
	return profile, nil
}

// UpdatePropertyProfile renames a profile or changes its nearest town.
func (s *Service) UpdatePropertyProfile(ctx context.Context, applicant *useraccess.ExternalApplicant,
	profileID id.PropertyProfileID, req UpdateProfileRequest) (PropertyProfile, error) {
	if applicant == nil {
		return PropertyProfile{}, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if profileID.IsNil() {
		return PropertyProfile{}, dErrors.New(dErrors.CodeBadRequest, "property profile id required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return PropertyProfile{}, dErrors.New(dErrors.CodeBadRequest, "property name required")
	}

	profile, err := s.guardedProfile(ctx, applicant, profileID)
	if err != nil {
		s.publishProfileFailure(ctx, audit.EventUpdatePropertyProfileFailure, "UpdatePropertyProfile",
			applicant, profileID.String(), err)
		return PropertyProfile{}, err
	}

	profile.Name = strings.TrimSpace(req.Name)
	profile.NearestTown = strings.TrimSpace(req.NearestTown)
	profile.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, profile); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			err = dErrors.Wrap(err, dErrors.CodeConflict, "a property with this name already exists for the woodland owner")
		} else {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to update property profile")
		}
		s.publishProfileFailure(ctx, audit.EventUpdatePropertyProfileFailure, "UpdatePropertyProfile",
			applicant, profileID.String(), err)
		return PropertyProfile{}, err
	}

	s.publish(ctx, audit.EventPropertyProfileUpdated, applicant, profileID.String(), audit.SourcePropertyProfile, map[string]any{
		"woodlandOwnerId": profile.WoodlandOwnerID.String(),
		"name":            profile.Name,
	})
	s.observe("UpdatePropertyProfile", "success")
	return profile, nil
}

// CreateCompartment adds a compartment to a property profile.
func (s *Service) CreateCompartment(ctx context.Context, applicant *useraccess.ExternalApplicant,
	profileID id.PropertyProfileID, req CompartmentRequest) (Compartment, error) {
	if applicant == nil {
		return Compartment{}, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if profileID.IsNil() {
		return Compartment{}, dErrors.New(dErrors.CodeBadRequest, "property profile id required")
	}
	if strings.TrimSpace(req.Number) == "" {
		return Compartment{}, dErrors.New(dErrors.CodeBadRequest, "compartment number required")
	}

	profile, err := s.guardedProfile(ctx, applicant, profileID)
	if err != nil {
		s.publishCompartmentFailure(ctx, audit.EventCreateCompartmentFailure, "CreateCompartment",
			applicant, profileID, id.CompartmentID{}, err)
		return Compartment{}, err
	}

	now := requestcontext.Now(ctx)
	compartment := Compartment{
		ID:                id.NewCompartmentID(),
		PropertyProfileID: profileID,
		Number:            strings.TrimSpace(req.Number),
		SubCompartment:    strings.TrimSpace(req.SubCompartment),
		TotalHectares:     req.TotalHectares,
		Designation:       req.Designation,
		GISData:           req.GISData,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	profile.Compartments = append(profile.Compartments, compartment)
	profile.UpdatedAt = now

	if err := s.store.Update(ctx, profile); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to save compartment")
		s.publishCompartmentFailure(ctx, audit.EventCreateCompartmentFailure, "CreateCompartment",
			applicant, profileID, compartment.ID, err)
		return Compartment{}, err
	}

	s.publish(ctx, audit.EventCompartmentCreated, applicant, compartment.ID.String(), audit.SourceCompartment, map[string]any{
		"propertyProfileId": profileID.String(),
		"compartmentNumber": compartment.Number,
	})
	s.observe("CreateCompartment", "success")
	return compartment, nil
}

// UpdateCompartment replaces the mutable fields of an existing compartment.
func (s *Service) UpdateCompartment(ctx context.Context, applicant *useraccess.ExternalApplicant,
	profileID id.PropertyProfileID, compartmentID id.CompartmentID, req CompartmentRequest) (Compartment, error) {
	if applicant == nil {
		return Compartment{}, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if profileID.IsNil() || compartmentID.IsNil() {
		return Compartment{}, dErrors.New(dErrors.CodeBadRequest, "property profile id and compartment id required")
	}

	profile, err := s.guardedProfile(ctx, applicant, profileID)
	if err != nil {
		s.publishCompartmentFailure(ctx, audit.EventUpdateCompartmentFailure, "UpdateCompartment",
			applicant, profileID, compartmentID, err)
		return Compartment{}, err
	}

	var updated Compartment
	found := false
	now := requestcontext.Now(ctx)
	for i, compartment := range profile.Compartments {
		if compartment.ID != compartmentID {
			continue
		}
		compartment.Number = strings.TrimSpace(req.Number)
		compartment.SubCompartment = strings.TrimSpace(req.SubCompartment)
		compartment.TotalHectares = req.TotalHectares
		compartment.Designation = req.Designation
		compartment.GISData = req.GISData
		compartment.UpdatedAt = now
		profile.Compartments[i] = compartment
		updated = compartment
		found = true
		break
	}
	if !found {
		err := dErrors.New(dErrors.CodeNotFound, "compartment not found on property profile")
		s.publishCompartmentFailure(ctx, audit.EventUpdateCompartmentFailure, "UpdateCompartment",
			applicant, profileID, compartmentID, err)
		return Compartment{}, err
	}
	profile.UpdatedAt = now

	if err := s.store.Update(ctx, profile); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to update compartment")
		s.publishCompartmentFailure(ctx, audit.EventUpdateCompartmentFailure, "UpdateCompartment",
			applicant, profileID, compartmentID, err)
		return Compartment{}, err
	}

	s.publish(ctx, audit.EventCompartmentUpdated, applicant, compartmentID.String(), audit.SourceCompartment, map[string]any{
		"propertyProfileId": profileID.String(),
		"compartmentNumber": updated.Number,
	})
	s.observe("UpdateCompartment", "success")
	return updated, nil
}

// ListPropertyProfiles returns every profile belonging to the woodland owner.
// Reads are guarded but not audited.
func (s *Service) ListPropertyProfiles(ctx context.Context, applicant *useraccess.ExternalApplicant,
	ownerID id.WoodlandOwnerID) ([]PropertyProfile, error) {
	if applicant == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "woodland owner id required")
	}

	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		return nil, err
	}
	if !access.CanActForWoodlandOwner(ownerID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "caller may not act for this woodland owner")
	}

	profiles, err := s.store.ListByWoodlandOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list property profiles")
	}
	return profiles, nil
}

// guardedProfile resolves access, loads the profile, and enforces the
// woodland-owner scope.
func (s *Service) guardedProfile(ctx context.Context, applicant *useraccess.ExternalApplicant,
	profileID id.PropertyProfileID) (PropertyProfile, error) {
	access, err := s.resolver.ResolveUserAccess(ctx, *applicant)
	if err != nil {
		return PropertyProfile{}, err
	}

	profile, err := s.store.Get(ctx, profileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return PropertyProfile{}, dErrors.New(dErrors.CodeNotFound, "property profile not found")
		}
		return PropertyProfile{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve property profile")
	}

	if !access.CanActForWoodlandOwner(profile.WoodlandOwnerID) {
		return PropertyProfile{}, dErrors.New(dErrors.CodeForbidden, "caller may not act for this woodland owner")
	}
	return profile, nil
}

func (s *Service) publishProfileFailure(ctx context.Context, name audit.EventName, operation string,
	applicant *useraccess.ExternalApplicant, sourceEntityID string, cause error) {
	s.publish(ctx, name, applicant, sourceEntityID, audit.SourcePropertyProfile, map[string]any{
		"error": cause.Error(),
	})
	s.observe(operation, "failure")
}

func (s *Service) publishCompartmentFailure(ctx context.Context, name audit.EventName, operation string,
	applicant *useraccess.ExternalApplicant, profileID id.PropertyProfileID, compartmentID id.CompartmentID, cause error) {
	s.publish(ctx, name, applicant, profileID.String(), audit.SourceCompartment, map[string]any{
		"compartmentId": compartmentID.String(),
		"error":         cause.Error(),
	})
	s.observe(operation, "failure")
}

func (s *Service) publish(ctx context.Context, name audit.EventName, applicant *useraccess.ExternalApplicant,
	sourceEntityID, sourceEntityType string, data map[string]any) {
	userID := applicant.UserAccountID
	event := audit.Event{
		Name:             name,
		ActorType:        id.ActorExternalApplicant,
		UserID:           &userID,
		SourceEntityID:   sourceEntityID,
		SourceEntityType: sourceEntityType,
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
