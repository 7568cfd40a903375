package flapp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"

	"fellgate/internal/flapp"
	"fellgate/internal/useraccess"
)

type FlappServiceSuite struct {
	suite.Suite

	store   *flapp.InMemoryStore
	getter  *flapp.ExternalGetter
	updater *flapp.ExternalUpdater

	ownerID id.WoodlandOwnerID
	appID   id.ApplicationID
}

func TestFlappServiceSuite(t *testing.T) {
	suite.Run(t, new(FlappServiceSuite))
}

func (s *FlappServiceSuite) SetupTest() {
	s.store = flapp.NewInMemoryStore()

	var err error
	s.getter, err = flapp.NewExternalGetter(s.store, nil)
	s.Require().NoError(err)
	s.updater, err = flapp.NewExternalUpdater(s.store, nil)
	s.Require().NoError(err)

	s.ownerID = id.NewWoodlandOwnerID()
	s.appID = id.NewApplicationID()
	s.Require().NoError(s.store.Save(context.Background(), flapp.Application{
		ID:              s.appID,
		Reference:       "FLA-2026-0001",
		WoodlandOwnerID: s.ownerID,
		StatusHistories: []flapp.StatusHistory{{Status: flapp.StatusDraft}},
	}))
}

func (s *FlappServiceSuite) ownerAccess() useraccess.UserAccessModel {
	return useraccess.UserAccessModel{
		UserAccountID:    id.NewUserAccountID(),
		WoodlandOwnerIDs: []id.WoodlandOwnerID{s.ownerID},
	}
}

func (s *FlappServiceSuite) TestGetApplication() {
	ctx := context.Background()

	s.Run("in-scope read succeeds", func() {
		app, err := s.getter.GetApplication(ctx, s.ownerAccess(), s.appID)
		s.Require().NoError(err)
		s.Equal("FLA-2026-0001", app.Reference)
	})

	s.Run("out-of-scope read is not found, not forbidden", func() {
		stranger := useraccess.UserAccessModel{UserAccountID: id.NewUserAccountID()}
		_, err := s.getter.GetApplication(ctx, stranger, s.appID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("fc user reads any application", func() {
		fc := useraccess.UserAccessModel{UserAccountID: id.NewUserAccountID(), IsFcUser: true}
		_, err := s.getter.GetApplication(ctx, fc, s.appID)
		s.Require().NoError(err)
	})
}

func (s *FlappServiceSuite) TestListApplicationsForWoodlandOwner() {
	ctx := context.Background()

	apps, err := s.getter.ListApplicationsForWoodlandOwner(ctx, s.ownerAccess(), s.ownerID)
	s.Require().NoError(err)
	s.Len(apps, 1)

	stranger := useraccess.UserAccessModel{UserAccountID: id.NewUserAccountID()}
	_, err = s.getter.ListApplicationsForWoodlandOwner(ctx, stranger, s.ownerID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *FlappServiceSuite) TestUpdaterGuardsEditability() {
	ctx := context.Background()

	s.Run("draft application accepts mutations", func() {
		err := s.updater.SetTenYearLicence(ctx, s.appID, true)
		s.Require().NoError(err)

		app, err := s.store.Get(ctx, s.appID)
		s.Require().NoError(err)
		s.True(app.IsForTenYearLicence)
		s.True(app.StepStatus.TenYearLicenceComplete)
	})

	s.Run("submitted application refuses mutations", func() {
		app, err := s.store.Get(ctx, s.appID)
		s.Require().NoError(err)
		app.StatusHistories = append(app.StatusHistories, flapp.StatusHistory{Status: flapp.StatusSubmitted})
		s.Require().NoError(s.store.Save(ctx, app))

		err = s.updater.SetEnvironmentalImpactComplete(ctx, s.appID, true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Contains(err.Error(), string(flapp.StatusSubmitted))
	})
}

func (s *FlappServiceSuite) TestDocumentMetadata() {
	ctx := context.Background()
	docID := id.NewDocumentID()

	err := s.updater.AppendDocument(ctx, s.appID, flapp.DocumentMeta{
		ID:       docID,
		FileName: "map.pdf",
		Reason:   id.UploadReasonSupportingDocument,
	})
	s.Require().NoError(err)

	app, err := s.store.Get(ctx, s.appID)
	s.Require().NoError(err)
	s.Len(app.Documents, 1)

	s.Require().NoError(s.updater.RemoveDocument(ctx, s.appID, docID))

	err = s.updater.RemoveDocument(ctx, s.appID, docID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *FlappServiceSuite) TestStoreReturnsDetachedSlices() {
	ctx := context.Background()
	first := id.NewDocumentID()
	second := id.NewDocumentID()

	s.Require().NoError(s.updater.AppendDocument(ctx, s.appID, flapp.DocumentMeta{ID: first, FileName: "a.pdf"}))
	s.Require().NoError(s.updater.AppendDocument(ctx, s.appID, flapp.DocumentMeta{ID: second, FileName: "b.pdf"}))

	// Filter the returned copy in place, the way the updater's mutate
	// closures do. The record under the store's mutex must not change.
	app, err := s.store.Get(ctx, s.appID)
	s.Require().NoError(err)
	app.Documents = append(app.Documents[:0], app.Documents[1:]...)

	again, err := s.store.Get(ctx, s.appID)
	s.Require().NoError(err)
	s.Require().Len(again.Documents, 2)
	s.Equal("a.pdf", again.Documents[0].FileName)
	s.Equal("b.pdf", again.Documents[1].FileName)
}

func (s *FlappServiceSuite) TestCompartmentDesignations() {
	ctx := context.Background()
	compartmentID := id.NewCompartmentID()

	s.Require().NoError(s.updater.UpdateCompartmentDesignation(ctx, s.appID, compartmentID, true))
	s.Require().NoError(s.updater.UpdateCompartmentDesignation(ctx, s.appID, compartmentID, false))

	app, err := s.store.Get(ctx, s.appID)
	s.Require().NoError(err)
	s.Require().Len(app.Designations, 1)
	s.False(app.Designations[0].Paws)
}
