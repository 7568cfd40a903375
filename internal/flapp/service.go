package flapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/sentinel"

	"fellgate/internal/useraccess"
)

// ExternalGetter serves read access to applications, guarded by the caller's
// resolved access scope. An application outside the caller's scope reads as
// not found rather than forbidden, so callers cannot probe for ids.
type ExternalGetter struct {
	store  Store
	logger *slog.Logger
}

func NewExternalGetter(store Store, logger *slog.Logger) (*ExternalGetter, error) {
	if store == nil {
		return nil, fmt.Errorf("application store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExternalGetter{store: store, logger: logger}, nil
}

func (g *ExternalGetter) GetApplication(ctx context.Context, access useraccess.UserAccessModel, appID id.ApplicationID) (Application, error) {
	if appID.IsNil() {
		return Application{}, dErrors.New(dErrors.CodeBadRequest, "application id required")
	}

	app, err := g.store.Get(ctx, appID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Application{}, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return Application{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve application")
	}

	if !access.CanActForWoodlandOwner(app.WoodlandOwnerID) {
		return Application{}, dErrors.New(dErrors.CodeNotFound, "application not found")
	}

	return app, nil
}

func (g *ExternalGetter) ListApplicationsForWoodlandOwner(ctx context.Context, access useraccess.UserAccessModel, ownerID id.WoodlandOwnerID) ([]Application, error) {
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "woodland owner id required")
	}
	if !access.CanActForWoodlandOwner(ownerID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "caller may not act for this woodland owner")
	}

	apps, err := g.store.ListByWoodlandOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// ExternalUpdater applies the guarded mutations the workflow services need.
// Callers resolve access and editability before invoking it; the updater
// re-checks editability because it is the last gate before persistence.
type ExternalUpdater struct {
	store  Store
	logger *slog.Logger
}

func NewExternalUpdater(store Store, logger *slog.Logger) (*ExternalUpdater, error) {
	if store == nil {
		return nil, fmt.Errorf("application store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExternalUpdater{store: store, logger: logger}, nil
}

func (u *ExternalUpdater) AppendDocument(ctx context.Context, appID id.ApplicationID, doc DocumentMeta) error {
	return u.mutate(ctx, appID, func(app *Application) error {
		app.Documents = append(app.Documents, doc)
		return nil
	})
}

func (u *ExternalUpdater) RemoveDocument(ctx context.Context, appID id.ApplicationID, docID id.DocumentID) error {
	return u.mutate(ctx, appID, func(app *Application) error {
		for i, doc := range app.Documents {
			if doc.ID == docID {
				app.Documents = append(app.Documents[:i], app.Documents[i+1:]...)
				return nil
			}
		}
		return dErrors.New(dErrors.CodeNotFound, "document not found on application")
	})
}

func (u *ExternalUpdater) SetTenYearLicence(ctx context.Context, appID id.ApplicationID, isForTenYearLicence bool) error {
	return u.mutate(ctx, appID, func(app *Application) error {
		app.IsForTenYearLicence = isForTenYearLicence
		app.StepStatus.TenYearLicenceComplete = true
		return nil
	})
}

func (u *ExternalUpdater) SetEnvironmentalImpactComplete(ctx context.Context, appID id.ApplicationID, complete bool) error {
	return u.mutate(ctx, appID, func(app *Application) error {
		app.StepStatus.EnvironmentalImpactComplete = complete
		return nil
	})
}

func (u *ExternalUpdater) SetSupportingDocumentationComplete(ctx context.Context, appID id.ApplicationID, complete bool) error {
	return u.mutate(ctx, appID, func(app *Application) error {
		app.StepStatus.SupportingDocumentationComplete = complete
		return nil
	})
}

// UpdateCompartmentDesignation records the PAWS outcome for one compartment.
func (u *ExternalUpdater) UpdateCompartmentDesignation(ctx context.Context, appID id.ApplicationID, compartmentID id.CompartmentID, paws bool) error {
	return u.mutate(ctx, appID, func(app *Application) error {
		for i, d := range app.Designations {
			if d.CompartmentID == compartmentID {
				app.Designations[i].Paws = paws
				return nil
			}
		}
		app.Designations = append(app.Designations, CompartmentDesignation{CompartmentID: compartmentID, Paws: paws})
		return nil
	})
}

func (u *ExternalUpdater) mutate(ctx context.Context, appID id.ApplicationID, apply func(*Application) error) error {
	if appID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "application id required")
	}

	app, err := u.store.Get(ctx, appID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve application")
	}

	if !app.IsEditable() {
		return dErrors.Newf(dErrors.CodeForbidden, "application in status %s is not editable", app.CurrentStatus())
	}

	if err := apply(&app); err != nil {
		return err
	}

	if err := u.store.Save(ctx, app); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "application was modified concurrently")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save application")
	}
	return nil
}
