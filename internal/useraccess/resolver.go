package useraccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/sentinel"
)

// Resolver builds UserAccessModels from stored accounts. One instance serves
// all use cases; it holds no per-request state.
type Resolver struct {
	accounts    Store
	authorities AuthorityLookup
	logger      *slog.Logger
}

type ResolverOption func(*Resolver)

func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = logger }
}

func NewResolver(accounts Store, authorities AuthorityLookup, opts ...ResolverOption) (*Resolver, error) {
	if accounts == nil {
		return nil, fmt.Errorf("user account store is required")
	}
	if authorities == nil {
		return nil, fmt.Errorf("authority lookup is required")
	}
	r := &Resolver{accounts: accounts, authorities: authorities, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ResolveUserAccess resolves the authorization scope for the applicant. The
// caller owns publishing any failure audit event; resolution itself is not an
// auditable action.
func (r *Resolver) ResolveUserAccess(ctx context.Context, applicant ExternalApplicant) (UserAccessModel, error) {
	if applicant.UserAccountID.IsNil() {
		return UserAccessModel{}, dErrors.New(dErrors.CodeBadRequest, "user account id required")
	}

	account, err := r.accounts.FindByID(ctx, applicant.UserAccountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return UserAccessModel{}, dErrors.New(dErrors.CodeNotFound, "user account not found")
		}
		return UserAccessModel{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve user access")
	}

	if account.Status != StatusActive {
		return UserAccessModel{}, dErrors.New(dErrors.CodeForbidden, "user account is not active")
	}

	model := UserAccessModel{
		UserAccountID: account.ID,
		IsFcUser:      account.AccountType == TypeFcUser,
		AgencyID:      account.AgencyID,
	}

	switch {
	case account.WoodlandOwnerID != nil:
		model.WoodlandOwnerIDs = []id.WoodlandOwnerID{*account.WoodlandOwnerID}
	case account.AgencyID != nil:
		owners, err := r.authorities.WoodlandOwnersForAgency(ctx, *account.AgencyID)
		if err != nil {
			return UserAccessModel{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve user access")
		}
		model.WoodlandOwnerIDs = owners
	}

	return model, nil
}
