package woodlandowner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/audit"
	"fellgate/pkg/requestcontext"

	"fellgate/internal/platform/metrics"
	"fellgate/internal/useraccess"
)

type Service struct {
	store    Store
	accounts useraccess.Store
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

func New(store Store, accounts useraccess.Store, auditor audit.Auditor, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("woodland owner store is required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account store is required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("auditor is required")
	}
	s := &Service{
		store:    store,
		accounts: accounts,
		auditor:  auditor,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateRequest carries a new woodland owner and, for agent applicants, the
// agency to create alongside it.
type CreateRequest struct {
	OwnerName      string
	ContactName    string
	ContactEmail   string
	IsOrganisation bool
	CreateAgency   bool
	AgencyName     string
}

// CreateResult reports the created entities.
type CreateResult struct {
	WoodlandOwner WoodlandOwner
	Agency        *Agency
}

// CreateWoodlandOwnerAndAgency creates a woodland owner organisation, the
// agency when requested, and links both to the applicant's account. Unexpected
// collaborator errors terminate here: they are audited as a failure with the
// error message and returned as an internal failure rather than propagating a
// crash.
func (s *Service) CreateWoodlandOwnerAndAgency(ctx context.Context, applicant *useraccess.ExternalApplicant,
	req CreateRequest) (result CreateResult, err error) {
	if applicant == nil {
		return CreateResult{}, dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if strings.TrimSpace(req.OwnerName) == "" {
		return CreateResult{}, dErrors.New(dErrors.CodeBadRequest, "woodland owner name required")
	}
	if req.CreateAgency && strings.TrimSpace(req.AgencyName) == "" {
		return CreateResult{}, dErrors.New(dErrors.CodeBadRequest, "agency name required")
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = dErrors.Newf(dErrors.CodeInternal, "unexpected failure creating woodland owner: %v", recovered)
			s.logger.ErrorContext(ctx, "panic creating woodland owner", "error", recovered)
			s.publishFailure(ctx, applicant, err)
			result = CreateResult{}
		}
	}()

	now := requestcontext.Now(ctx)
	owner := WoodlandOwner{
		ID:             id.NewWoodlandOwnerID(),
		Name:           strings.TrimSpace(req.OwnerName),
		ContactName:    strings.TrimSpace(req.ContactName),
		ContactEmail:   strings.TrimSpace(req.ContactEmail),
		IsOrganisation: req.IsOrganisation,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.SaveOwner(ctx, owner); err != nil {
		wrapped := dErrors.Wrap(err, dErrors.CodeInternal, "failed to save woodland owner")
		s.publishFailure(ctx, applicant, wrapped)
		return CreateResult{}, wrapped
	}

	var agency *Agency
	if req.CreateAgency {
		created := Agency{
			ID:           id.NewAgencyID(),
			Name:         strings.TrimSpace(req.AgencyName),
			ContactEmail: strings.TrimSpace(req.ContactEmail),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.store.SaveAgency(ctx, created); err != nil {
			wrapped := dErrors.Wrap(err, dErrors.CodeInternal, "failed to save agency")
			s.publishFailure(ctx, applicant, wrapped)
			return CreateResult{}, wrapped
		}
		agency = &created
	}

	if err := s.linkAccount(ctx, applicant.UserAccountID, owner.ID, agency); err != nil {
		s.publishFailure(ctx, applicant, err)
		return CreateResult{}, err
	}

	data := map[string]any{
		"woodlandOwnerId": owner.ID.String(),
	}
	if agency != nil {
		data["agencyId"] = agency.ID.String()
	}
	s.publish(ctx, audit.EventCreateWoodlandOwnerSuccess, applicant, owner.ID.String(), data)
	s.observe("success")
	return CreateResult{WoodlandOwner: owner, Agency: agency}, nil
}

// linkAccount records the new organisation ids on the creating account. The
// invited-then-activated account exists before the organisation does, so this
// is an update, never a create.
func (s *Service) linkAccount(ctx context.Context, accountID id.UserAccountID,
	ownerID id.WoodlandOwnerID, agency *Agency) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve creating account")
	}

	account.WoodlandOwnerID = &ownerID
	if agency != nil {
		agencyID := agency.ID
		account.AgencyID = &agencyID
		account.AccountType = useraccess.TypeAgentAdministrator
	} else if account.AccountType != useraccess.TypeWoodlandOwnerAdministrator {
		account.AccountType = useraccess.TypeWoodlandOwnerAdministrator
	}
	account.UpdatedAt = requestcontext.Now(ctx)

	if err := s.accounts.Update(ctx, account); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to link account to organisation")
	}
	return nil
}

func (s *Service) publishFailure(ctx context.Context, applicant *useraccess.ExternalApplicant, cause error) {
	s.publish(ctx, audit.EventCreateWoodlandOwnerFailure, applicant, applicant.UserAccountID.String(), map[string]any{
		"error": cause.Error(),
	})
	s.observe("failure")
}

func (s *Service) publish(ctx context.Context, name audit.EventName, applicant *useraccess.ExternalApplicant,
	sourceEntityID string, data map[string]any) {
	userID := applicant.UserAccountID
	event := audit.Event{
		Name:             name,
		ActorType:        id.ActorExternalApplicant,
		UserID:           &userID,
		SourceEntityID:   sourceEntityID,
		SourceEntityType: audit.SourceWoodlandOwner,
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
		s.metrics.ObserveOutcome("CreateWoodlandOwnerAndAgency", result)
	}
}
