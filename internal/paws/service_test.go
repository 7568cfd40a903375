package paws_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/audit"
	auditmem "fellgate/pkg/platform/audit/store/memory"
	"fellgate/pkg/platform/sentinel"

	"fellgate/internal/paws"
	"fellgate/internal/paws/mocks"
	"fellgate/internal/property"
)

type PawsServiceSuite struct {
	suite.Suite

	ctrl       *gomock.Controller
	properties *mocks.MockPropertyGetter
	checker    *mocks.MockConstraintChecker
	updater    *mocks.MockDesignationUpdater
	recorder   *auditmem.InMemoryStore

	service *paws.Service

	msg paws.CheckMessage
}

func TestPawsServiceSuite(t *testing.T) {
	suite.Run(t, new(PawsServiceSuite))
}

func (s *PawsServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.properties = mocks.NewMockPropertyGetter(s.ctrl)
	s.checker = mocks.NewMockConstraintChecker(s.ctrl)
	s.updater = mocks.NewMockDesignationUpdater(s.ctrl)
	s.recorder = auditmem.NewInMemoryStore()

	var err error
	s.service, err = paws.New(s.properties, s.checker, s.updater, audit.NewPublisher(s.recorder))
	s.Require().NoError(err)

	s.msg = paws.CheckMessage{
		ApplicationID:     id.NewApplicationID(),
		PropertyProfileID: id.NewPropertyProfileID(),
		WoodlandOwnerID:   id.NewWoodlandOwnerID(),
	}
}

func (s *PawsServiceSuite) profileWithCompartments(n int) property.PropertyProfile {
	profile := property.PropertyProfile{
		ID:              s.msg.PropertyProfileID,
		WoodlandOwnerID: s.msg.WoodlandOwnerID,
		Name:            "Oak Wood",
	}
	for i := 0; i < n; i++ {
		profile.Compartments = append(profile.Compartments, property.Compartment{
			ID:                id.NewCompartmentID(),
			PropertyProfileID: profile.ID,
			Number:            fmt.Sprintf("%d", i+1),
		})
	}
	return profile
}

func (s *PawsServiceSuite) TestPropertyRetrievalFailure() {
	ctx := context.Background()
	s.properties.EXPECT().Get(gomock.Any(), s.msg.PropertyProfileID).
		Return(property.PropertyProfile{}, sentinel.ErrUnavailable)

	err := s.service.CheckAndUpdateApplicationForPaws(ctx, s.msg)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventPawsRequirementCheckFailed, events[0].Name)
	s.Equal(id.ActorSystem, events[0].ActorType)
	s.Equal(s.msg.WoodlandOwnerID.String(), events[0].Data["woodlandOwner"])

	want := fmt.Sprintf("Failed to retrieve property with id %s on application with id %s to check compartments for PAWS: %v",
		s.msg.PropertyProfileID, s.msg.ApplicationID, sentinel.ErrUnavailable)
	s.Equal(want, events[0].Data["error"])
}

func (s *PawsServiceSuite) TestConstraintCheckerFailure() {
	ctx := context.Background()
	profile := s.profileWithCompartments(2)

	s.properties.EXPECT().Get(gomock.Any(), s.msg.PropertyProfileID).Return(profile, nil)
	s.checker.EXPECT().CheckCompartmentsForPaws(gomock.Any(), profile.Compartments).
		Return(nil, fmt.Errorf("constraint service timeout"))

	err := s.service.CheckAndUpdateApplicationForPaws(ctx, s.msg)
	s.Require().Error(err)

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventPawsRequirementCheckFailed, events[0].Name)
	s.Equal(s.msg.WoodlandOwnerID.String(), events[0].Data["woodlandOwner"])
	s.Equal("constraint service timeout", events[0].Data["error"])
}

func (s *PawsServiceSuite) TestDesignationUpdateFailure() {
	ctx := context.Background()
	profile := s.profileWithCompartments(2)
	first := profile.Compartments[0].ID

	s.properties.EXPECT().Get(gomock.Any(), s.msg.PropertyProfileID).Return(profile, nil)
	s.checker.EXPECT().CheckCompartmentsForPaws(gomock.Any(), profile.Compartments).
		Return([]id.CompartmentID{first}, nil)
	s.updater.EXPECT().UpdateCompartmentDesignation(gomock.Any(), s.msg.ApplicationID, first, true).
		Return(dErrors.New(dErrors.CodeConflict, "application was modified concurrently"))

	err := s.service.CheckAndUpdateApplicationForPaws(ctx, s.msg)
	s.Require().Error(err)

	// Exactly one failure event, keyed by the compartment that failed; the
	// second compartment is never attempted.
	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventPawsRequirementCheckFailed, events[0].Name)
	s.Equal(first.String(), events[0].Data["compartmentId"])
	s.NotEmpty(events[0].Data["error"])
}

func (s *PawsServiceSuite) TestCompletedRecordsEveryCompartment() {
	ctx := context.Background()
	profile := s.profileWithCompartments(3)
	flagged := profile.Compartments[1].ID

	s.properties.EXPECT().Get(gomock.Any(), s.msg.PropertyProfileID).Return(profile, nil)
	s.checker.EXPECT().CheckCompartmentsForPaws(gomock.Any(), profile.Compartments).
		Return([]id.CompartmentID{flagged}, nil)
	s.updater.EXPECT().UpdateCompartmentDesignation(gomock.Any(), s.msg.ApplicationID, profile.Compartments[0].ID, false).Return(nil)
	s.updater.EXPECT().UpdateCompartmentDesignation(gomock.Any(), s.msg.ApplicationID, flagged, true).Return(nil)
	s.updater.EXPECT().UpdateCompartmentDesignation(gomock.Any(), s.msg.ApplicationID, profile.Compartments[2].ID, false).Return(nil)

	err := s.service.CheckAndUpdateApplicationForPaws(ctx, s.msg)
	s.Require().NoError(err)

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventPawsRequirementCheckCompleted, events[0].Name)
	s.Equal(id.ActorSystem, events[0].ActorType)
	s.Equal([]string{flagged.String()}, events[0].Data["pawsCompartmentIds"])
	s.Equal(3, events[0].Data["compartmentsChecked"])
}

func (s *PawsServiceSuite) mustListAll() []audit.Event {
	events, err := s.recorder.ListAll(context.Background())
	s.Require().NoError(err)
	return events
}
