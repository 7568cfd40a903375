package invite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/email"
	"fellgate/pkg/platform/audit"
	"fellgate/pkg/platform/sentinel"
	"fellgate/pkg/requestcontext"

	"fellgate/internal/platform/config"
	"fellgate/internal/platform/metrics"
	"fellgate/internal/useraccess"
)

const (
	templateWoodlandOwnerInvite = "woodland-owner-invite"
	templateAgentInvite         = "agent-invite"
)

type Service struct {
	accounts      useraccess.Store
	notifications Notifications
	auditor       audit.Auditor
	inviteOpts    config.Invite
	fcOpts        config.FcAgency
	fcAgencyID    id.AgencyID
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithFcAgency sets the agency approved FC staff are assigned to and the email
// domains permitted to join it.
func WithFcAgency(agencyID id.AgencyID, opts config.FcAgency) Option {
	return func(s *Service) {
		s.fcAgencyID = agencyID
		s.fcOpts = opts
	}
}

func New(accounts useraccess.Store, notifications Notifications, auditor audit.Auditor,
	inviteOpts config.Invite, opts ...Option) (*Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account store is required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notifications are required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("auditor is required")
	}
	if inviteOpts.LinkExpiryDays <= 0 {
		return nil, fmt.Errorf("invite link expiry must be positive")
	}
	s := &Service{
		accounts:      accounts,
		notifications: notifications,
		auditor:       auditor,
		inviteOpts:    inviteOpts,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// InviteWoodlandOwnerUser invites a user into a woodland owner organisation.
// The caller must administer that organisation.
func (s *Service) InviteWoodlandOwnerUser(ctx context.Context, applicant *useraccess.ExternalApplicant,
	req Request) (Outcome, error) {
	if applicant == nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if req.WoodlandOwnerID.IsNil() || strings.TrimSpace(req.Email) == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "woodland owner id and email required")
	}

	sent := audit.EventInviteWoodlandOwnerUserSent
	failed := audit.EventInviteWoodlandOwnerUserFailure

	caller, err := s.administrator(ctx, applicant)
	if err != nil {
		s.publishInvite(ctx, failed, applicant, req, map[string]any{"error": err.Error()})
		return "", err
	}
	if caller.WoodlandOwnerID == nil || *caller.WoodlandOwnerID != req.WoodlandOwnerID {
		err := dErrors.New(dErrors.CodeForbidden, "caller does not administer this woodland owner organisation")
		s.publishInvite(ctx, failed, applicant, req, map[string]any{"error": err.Error()})
		return "", err
	}

	return s.invite(ctx, applicant, req, inviteTarget{
		accountType:   useraccess.TypeWoodlandOwnerAdministrator,
		template:      templateWoodlandOwnerInvite,
		subject:       "You have been invited to manage felling licence applications",
		sentEvent:     sent,
		failureEvent:  failed,
		sameOrg:       func(a useraccess.UserAccount) bool { return a.WoodlandOwnerID != nil && *a.WoodlandOwnerID == req.WoodlandOwnerID },
		assignAccount: func(a *useraccess.UserAccount) { a.WoodlandOwnerID = &req.WoodlandOwnerID },
	})
}

// InviteAgentToOrganisation invites an agent into an agency. The caller must
// administer that agency.
func (s *Service) InviteAgentToOrganisation(ctx context.Context, applicant *useraccess.ExternalApplicant,
	req Request) (Outcome, error) {
	if applicant == nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "applicant is required")
	}
	if req.AgencyID.IsNil() || strings.TrimSpace(req.Email) == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "agency id and email required")
	}

	sent := audit.EventInviteAgentToOrganisationSent
	failed := audit.EventInviteAgentToOrganisationFailure

	caller, err := s.administrator(ctx, applicant)
	if err != nil {
		s.publishInvite(ctx, failed, applicant, req, map[string]any{"error": err.Error()})
		return "", err
	}
	if caller.AgencyID == nil || *caller.AgencyID != req.AgencyID {
		err := dErrors.New(dErrors.CodeForbidden, "caller does not administer this agency")
		s.publishInvite(ctx, failed, applicant, req, map[string]any{"error": err.Error()})
		return "", err
	}

	return s.invite(ctx, applicant, req, inviteTarget{
		accountType:   useraccess.TypeAgent,
		template:      templateAgentInvite,
		subject:       "You have been invited to join an agency",
		sentEvent:     sent,
		failureEvent:  failed,
		sameOrg:       func(a useraccess.UserAccount) bool { return a.AgencyID != nil && *a.AgencyID == req.AgencyID },
		assignAccount: func(a *useraccess.UserAccount) { a.AgencyID = &req.AgencyID },
	})
}

// inviteTarget parameterises the shared invitation state machine for the two
// organisation kinds.
type inviteTarget struct {
	accountType   useraccess.AccountType
	template      string
	subject       string
	sentEvent     audit.EventName
	failureEvent  audit.EventName
	sameOrg       func(useraccess.UserAccount) bool
	assignAccount func(*useraccess.UserAccount)
}

func (s *Service) invite(ctx context.Context, applicant *useraccess.ExternalApplicant,
	req Request, target inviteTarget) (Outcome, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.Email))
	now := requestcontext.Now(ctx)

	existing, err := s.accounts.FindByEmail(ctx, normalized)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		account := s.newInvitedAccount(ctx, req, normalized, target)
		if err := s.accounts.Save(ctx, account); err != nil {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to save invited account")
			s.publishInvite(ctx, target.failureEvent, applicant, req, map[string]any{"error": err.Error()})
			return "", err
		}
		if err := s.send(ctx, account, target); err != nil {
			s.publishInvite(ctx, target.failureEvent, applicant, req, map[string]any{"error": err.Error()})
			return "", err
		}
		s.publishInvite(ctx, target.sentEvent, applicant, req, map[string]any{
			"invitedUserId": account.ID.String(),
			"resend":        false,
		})
		s.observeInvite("success")
		return OutcomeInviteSent, nil

	case err != nil:
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account by email")
		s.publishInvite(ctx, target.failureEvent, applicant, req, map[string]any{"error": err.Error()})
		return "", err
	}

	if existing.Status != useraccess.StatusInvited {
		err := dErrors.New(dErrors.CodeConflict, "a user with this email already exists")
		s.publishInvite(ctx, target.failureEvent, applicant, req, map[string]any{"error": err.Error()})
		return OutcomeUserAlreadyExists, err
	}
	if !target.sameOrg(existing) {
		err := dErrors.New(dErrors.CodeConflict, "a user with this email has already been invited to another organisation")
		s.publishInvite(ctx, target.failureEvent, applicant, req, map[string]any{"error": err.Error()})
		return OutcomeUserAlreadyExists, err
	}
	if !req.Resend {
		err := dErrors.New(dErrors.CodeConflict, "this user has already been invited")
		s.publishInvite(ctx, target.failureEvent, applicant, req, map[string]any{"error": err.Error()})
		return OutcomeUserAlreadyInvited, err
	}

	// Explicit re-invite: rotate the token and extend the expiry.
	existing.InviteToken = uuid.New()
	existing.InviteTokenExpiry = now.AddDate(0, 0, s.inviteOpts.LinkExpiryDays)
	if err := s.accounts.Update(ctx, existing); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to update invited account")
		s.publishInvite(ctx, target.failureEvent, applicant, req, map[string]any{"error": err.Error()})
		return "", err
	}
	if err := s.send(ctx, existing, target); err != nil {
		s.publishInvite(ctx, target.failureEvent, applicant, req, map[string]any{"error": err.Error()})
		return "", err
	}
	s.publishInvite(ctx, target.sentEvent, applicant, req, map[string]any{
		"invitedUserId": existing.ID.String(),
		"resend":        true,
	})
	s.observeInvite("success")
	return OutcomeInviteSent, nil
}

func (s *Service) newInvitedAccount(ctx context.Context, req Request, normalizedEmail string,
	target inviteTarget) useraccess.UserAccount {
	first, last := req.FirstName, req.LastName
	if strings.TrimSpace(first) == "" && strings.TrimSpace(last) == "" {
		first, last = email.DeriveNameFromEmail(normalizedEmail)
	}
	now := requestcontext.Now(ctx)
	account := useraccess.UserAccount{
		ID:                id.NewUserAccountID(),
		Email:             normalizedEmail,
		FirstName:         first,
		LastName:          last,
		Status:            useraccess.StatusInvited,
		AccountType:       target.accountType,
		InviteToken:       uuid.New(),
		InviteTokenExpiry: now.AddDate(0, 0, s.inviteOpts.LinkExpiryDays),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	target.assignAccount(&account)
	return account
}

func (s *Service) send(ctx context.Context, account useraccess.UserAccount, target inviteTarget) error {
	link := s.inviteLink(account)
	err := s.notifications.Send(ctx, Notification{
		Recipient:     account.Email,
		RecipientName: account.FullName(),
		Subject:       target.subject,
		Template:      target.template,
		Data: map[string]any{
			"inviteLink": link,
			"expiryDays": s.inviteOpts.LinkExpiryDays,
		},
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to send invitation")
	}
	return nil
}

func (s *Service) inviteLink(account useraccess.UserAccount) string {
	query := url.Values{}
	query.Set("email", account.Email)
	query.Set("token", account.InviteToken.String())
	return s.inviteOpts.BaseURL + "?" + query.Encode()
}

// VerifyInvitedUserAccount activates an invited account when the email, token,
// and expiry all check out. Every mismatch is the same generic failure so the
// endpoint cannot be used to probe accounts.
func (s *Service) VerifyInvitedUserAccount(ctx context.Context, emailAddress string, token uuid.UUID) (useraccess.UserAccount, error) {
	normalized := strings.ToLower(strings.TrimSpace(emailAddress))
	genericErr := dErrors.New(dErrors.CodeUnauthorized, "invalid or expired invitation")

	account, err := s.accounts.FindByEmail(ctx, normalized)
	if err != nil {
		s.publishAccept(ctx, audit.EventAcceptInvitationFailure, "", map[string]any{"error": genericErr.Error()})
		return useraccess.UserAccount{}, genericErr
	}

	if account.Status != useraccess.StatusInvited ||
		account.InviteToken != token ||
		!requestcontext.Now(ctx).Before(account.InviteTokenExpiry) {
		s.publishAccept(ctx, audit.EventAcceptInvitationFailure, account.ID.String(), map[string]any{"error": genericErr.Error()})
		return useraccess.UserAccount{}, genericErr
	}

	account.Status = useraccess.StatusActive
	account.UpdatedAt = requestcontext.Now(ctx)
	if err := s.accounts.Update(ctx, account); err != nil {
		wrapped := dErrors.Wrap(err, dErrors.CodeInternal, "failed to activate account")
		s.publishAccept(ctx, audit.EventAcceptInvitationFailure, account.ID.String(), map[string]any{"error": wrapped.Error()})
		return useraccess.UserAccount{}, wrapped
	}

	s.publishAccept(ctx, audit.EventAcceptInvitationSuccess, account.ID.String(), map[string]any{
		"accountType": string(account.AccountType),
	})
	s.observe("VerifyInvitedUserAccount", "success")
	return account, nil
}

// AssignFcStaffToFcAgency assigns a newly approved FC user to the FC agency
// when their email domain is on the permitted list. A non-permitted domain is
// a silent no-op: no store call and no audit event.
func (s *Service) AssignFcStaffToFcAgency(ctx context.Context, account useraccess.UserAccount) (bool, error) {
	if !email.DomainIsPermitted(account.Email, s.fcOpts.PermittedEmailDomains) {
		return false, nil
	}

	account.AccountType = useraccess.TypeFcUser
	account.AgencyID = &s.fcAgencyID
	account.UpdatedAt = requestcontext.Now(ctx)
	if err := s.accounts.Update(ctx, account); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign fc staff to fc agency")
	}

	event := audit.Event{
		Name:             audit.EventFcStaffAssignedToFcAgency,
		ActorType:        id.ActorSystem,
		SourceEntityID:   account.ID.String(),
		SourceEntityType: audit.SourceUserAccount,
		Data: map[string]any{
			"agencyId": s.fcAgencyID.String(),
		},
	}
	s.emit(ctx, event)
	s.observe("AssignFcStaffToFcAgency", "success")
	return true, nil
}

func (s *Service) administrator(ctx context.Context, applicant *useraccess.ExternalApplicant) (useraccess.UserAccount, error) {
	caller, err := s.accounts.FindByID(ctx, applicant.UserAccountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return useraccess.UserAccount{}, dErrors.New(dErrors.CodeForbidden, "caller account not found")
		}
		return useraccess.UserAccount{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve caller account")
	}
	if !caller.IsAdministrator() {
		return useraccess.UserAccount{}, dErrors.New(dErrors.CodeForbidden, "caller is not an organisation administrator")
	}
	return caller, nil
}

func (s *Service) publishInvite(ctx context.Context, name audit.EventName, applicant *useraccess.ExternalApplicant,
	req Request, data map[string]any) {
	userID := applicant.UserAccountID
	sourceID := req.WoodlandOwnerID.String()
	sourceType := audit.SourceWoodlandOwner
	if !req.AgencyID.IsNil() {
		sourceID = req.AgencyID.String()
		sourceType = audit.SourceAgency
	}
	event := audit.Event{
		Name:             name,
		ActorType:        id.ActorExternalApplicant,
		UserID:           &userID,
		SourceEntityID:   sourceID,
		SourceEntityType: sourceType,
		Data:             data,
	}
	s.emit(ctx, event)
	if name == audit.EventInviteWoodlandOwnerUserFailure || name == audit.EventInviteAgentToOrganisationFailure {
		s.observeInvite("failure")
	}
	if s.metrics != nil && (name == audit.EventInviteWoodlandOwnerUserSent || name == audit.EventInviteAgentToOrganisationSent) {
		s.metrics.InvitesSent.Inc()
	}
}

func (s *Service) publishAccept(ctx context.Context, name audit.EventName, accountID string, data map[string]any) {
	event := audit.Event{
		Name:             name,
		ActorType:        id.ActorExternalApplicant,
		SourceEntityID:   accountID,
		SourceEntityType: audit.SourceUserAccount,
		Data:             data,
	}
	s.emit(ctx, event)
	if name == audit.EventAcceptInvitationFailure {
		s.observe("VerifyInvitedUserAccount", "failure")
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish audit event",
			"error", err,
			"event", string(event.Name),
		)
		if s.metrics != nil {
			s.metrics.AuditPersistFailures.Inc()
		}
	}
}

func (s *Service) observeInvite(result string) {
	s.observe("InviteUser", result)
}

func (s *Service) observe(operation, result string) {
	if s.metrics != nil {
		s.metrics.ObserveOutcome(operation, result)
	}
}
