package agentauthority_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"
	"fellgate/pkg/platform/audit"
	auditmem "fellgate/pkg/platform/audit/store/memory"
	"fellgate/pkg/platform/sentinel"

	"fellgate/internal/agentauthority"
	"fellgate/internal/agentauthority/mocks"
	"fellgate/internal/filestorage"
	fsmocks "fellgate/internal/filestorage/mocks"
	"fellgate/internal/platform/config"
	"fellgate/internal/upload"
	"fellgate/internal/useraccess"
)

type AgentAuthoritySuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	resolver *mocks.MockAccessResolver
	reader   *mocks.MockAuthorityReader
	writer   *mocks.MockAuthorityWriter
	storage  *fsmocks.MockStore
	recorder *auditmem.InMemoryStore

	service *agentauthority.Service

	applicant   useraccess.ExternalApplicant
	agencyID    id.AgencyID
	ownerID     id.WoodlandOwnerID
	authorityID id.AuthorityID
}

func TestAgentAuthoritySuite(t *testing.T) {
	suite.Run(t, new(AgentAuthoritySuite))
}

func (s *AgentAuthoritySuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.resolver = mocks.NewMockAccessResolver(s.ctrl)
	s.reader = mocks.NewMockAuthorityReader(s.ctrl)
	s.writer = mocks.NewMockAuthorityWriter(s.ctrl)
	s.storage = fsmocks.NewMockStore(s.ctrl)
	s.recorder = auditmem.NewInMemoryStore()

	validator := upload.NewValidator(config.Upload{
		MaxNumberDocuments: 2,
		MaxFileSizeBytes:   1024,
		AllowedFileTypes: []config.AllowedFileType{{
			FileUploadReasons: []string{string(id.UploadReasonAgentAuthorityForm)},
			Description:       "Authority forms",
			Extensions:        []string{"pdf"},
		}},
	})

	var err error
	s.service, err = agentauthority.New(s.resolver, s.reader, s.writer, s.storage, validator,
		audit.NewPublisher(s.recorder))
	s.Require().NoError(err)

	s.agencyID = id.NewAgencyID()
	s.ownerID = id.NewWoodlandOwnerID()
	s.authorityID = id.NewAuthorityID()
	s.applicant = useraccess.ExternalApplicant{
		UserAccountID: id.NewUserAccountID(),
		FullName:      "Sam Agent",
		Email:         "sam.agent@example.com",
		AgencyID:      &s.agencyID,
	}
}

func (s *AgentAuthoritySuite) access() useraccess.UserAccessModel {
	return useraccess.UserAccessModel{
		UserAccountID:    s.applicant.UserAccountID,
		AgencyID:         &s.agencyID,
		WoodlandOwnerIDs: []id.WoodlandOwnerID{s.ownerID},
	}
}

func (s *AgentAuthoritySuite) authority() agentauthority.AgentAuthority {
	return agentauthority.AgentAuthority{
		ID:              s.authorityID,
		AgencyID:        s.agencyID,
		WoodlandOwnerID: s.ownerID,
		Status:          agentauthority.AuthorityCreated,
	}
}

func form(name string, size int64) upload.FileUpload {
	return upload.FileUpload{FileName: name, MimeType: "application/pdf", SizeBytes: size, Content: []byte("%PDF")}
}

func (s *AgentAuthoritySuite) TestCreateAgentAuthority() {
	ctx := context.Background()
	req := agentauthority.CreateAuthorityRequest{AgencyID: s.agencyID, WoodlandOwnerID: s.ownerID}

	s.Run("success records authority and publishes event", func() {
		s.recorder.Clear()
		s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(s.access(), nil)
		s.writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		authority, err := s.service.CreateAgentAuthority(ctx, &s.applicant, req)
		s.Require().NoError(err)
		s.Equal(agentauthority.AuthorityCreated, authority.Status)
		s.Equal(s.applicant.UserAccountID, authority.CreatedBy)

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventCreateAgentAuthoritySuccess, events[0].Name)
		s.Equal(s.ownerID.String(), events[0].Data["woodlandOwnerId"])
	})

	s.Run("caller outside the agency is forbidden", func() {
		s.recorder.Clear()
		other := useraccess.UserAccessModel{UserAccountID: s.applicant.UserAccountID}
		s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(other, nil)

		_, err := s.service.CreateAgentAuthority(ctx, &s.applicant, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventCreateAgentAuthorityFailure, events[0].Name)
	})

	s.Run("duplicate pair conflicts", func() {
		s.recorder.Clear()
		s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(s.access(), nil)
		s.writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.CreateAgentAuthority(ctx, &s.applicant, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventCreateAgentAuthorityFailure, events[0].Name)
	})
}

func (s *AgentAuthoritySuite) TestAddAgentAuthorityFormFiles_ArgumentErrors() {
	ctx := context.Background()

	s.Run("nil applicant fails before any collaborator", func() {
		_, err := s.service.AddAgentAuthorityFormFiles(ctx, nil, s.authorityID, []upload.FileUpload{form("aaf.pdf", 10)})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		s.Empty(s.mustListAll())
	})

	s.Run("nil authority id fails before any collaborator", func() {
		_, err := s.service.AddAgentAuthorityFormFiles(ctx, &s.applicant, id.AuthorityID{}, []upload.FileUpload{form("aaf.pdf", 10)})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		s.Empty(s.mustListAll())
	})
}

func (s *AgentAuthoritySuite) TestAddAgentAuthorityFormFiles_EmptyCollectionIsSilentNoOp() {
	result, err := s.service.AddAgentAuthorityFormFiles(context.Background(), &s.applicant, s.authorityID, nil)
	s.Require().NoError(err)
	s.Empty(result.DocumentIDs)
	s.Empty(s.mustListAll())
}

func (s *AgentAuthoritySuite) TestAddAgentAuthorityFormFiles_OversizedFileNeverReachesStore() {
	// A single 100000-byte file against a 1024-byte limit: validation-failure
	// event only, and no reader/writer/storage expectations means any call to
	// them fails the test.
	_, err := s.service.AddAgentAuthorityFormFiles(context.Background(), &s.applicant, s.authorityID,
		[]upload.FileUpload{form("aaf.pdf", 100000)})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventAddAgentAuthorityFormFilesValidationFailure, events[0].Name)
	s.NotEmpty(events[0].Data["error"])
	s.Equal(s.authorityID.String(), events[0].SourceEntityID)
}

func (s *AgentAuthoritySuite) TestAddAgentAuthorityFormFiles_AuthorityNotFound() {
	s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(s.access(), nil)
	s.reader.EXPECT().Get(gomock.Any(), s.authorityID).Return(agentauthority.AgentAuthority{}, sentinel.ErrNotFound)

	_, err := s.service.AddAgentAuthorityFormFiles(context.Background(), &s.applicant, s.authorityID,
		[]upload.FileUpload{form("aaf.pdf", 10)})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventAddAgentAuthorityFormFilesFailure, events[0].Name)
}

func (s *AgentAuthoritySuite) TestAddAgentAuthorityFormFiles_RevokedAuthority() {
	revoked := s.authority()
	revoked.Status = agentauthority.AuthorityRevoked

	s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(s.access(), nil)
	s.reader.EXPECT().Get(gomock.Any(), s.authorityID).Return(revoked, nil)

	_, err := s.service.AddAgentAuthorityFormFiles(context.Background(), &s.applicant, s.authorityID,
		[]upload.FileUpload{form("aaf.pdf", 10)})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventAddAgentAuthorityFormFilesFailure, events[0].Name)
}

func (s *AgentAuthoritySuite) TestAddAgentAuthorityFormFiles_Success() {
	s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(s.access(), nil)
	s.reader.EXPECT().Get(gomock.Any(), s.authorityID).Return(s.authority(), nil)
	s.storage.EXPECT().Save(gomock.Any(), "aaf.pdf", gomock.Any()).
		Return(filestorage.StoredFile{Location: "authorities/aaf.pdf"}, nil)
	s.writer.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, authority agentauthority.AgentAuthority) error {
			s.Len(authority.Forms, 1)
			s.Equal(agentauthority.AuthorityFormUploaded, authority.Status)
			return nil
		})

	result, err := s.service.AddAgentAuthorityFormFiles(context.Background(), &s.applicant, s.authorityID,
		[]upload.FileUpload{form("aaf.pdf", 10)})
	s.Require().NoError(err)
	s.Len(result.DocumentIDs, 1)

	events := s.mustListAll()
	s.Require().Len(events, 1)
	s.Equal(audit.EventAddAgentAuthorityFormFiles, events[0].Name)
	s.Equal(1, events[0].Data["documentCount"])
}

func (s *AgentAuthoritySuite) TestRemoveAgentAuthorityForm() {
	ctx := context.Background()
	docID := id.NewDocumentID()

	s.Run("form missing from authority", func() {
		s.recorder.Clear()
		s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(s.access(), nil)
		s.reader.EXPECT().Get(gomock.Any(), s.authorityID).Return(s.authority(), nil)

		err := s.service.RemoveAgentAuthorityForm(ctx, &s.applicant, s.authorityID, docID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventRemoveAgentAuthorityFormFailure, events[0].Name)
		s.Equal(docID.String(), events[0].Data["documentId"])
	})

	s.Run("success removes record then bytes", func() {
		s.recorder.Clear()
		withForm := s.authority()
		withForm.Status = agentauthority.AuthorityFormUploaded
		withForm.Forms = []agentauthority.FormDocument{{ID: docID, FileName: "aaf.pdf", Location: "authorities/aaf.pdf"}}

		s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(s.access(), nil)
		s.reader.EXPECT().Get(gomock.Any(), s.authorityID).Return(withForm, nil)
		s.writer.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, authority agentauthority.AgentAuthority) error {
				s.Empty(authority.Forms)
				return nil
			})
		s.storage.EXPECT().Remove(gomock.Any(), "authorities/aaf.pdf").Return(nil)

		err := s.service.RemoveAgentAuthorityForm(ctx, &s.applicant, s.authorityID, docID)
		s.Require().NoError(err)

		events := s.mustListAll()
		s.Require().Len(events, 1)
		s.Equal(audit.EventRemoveAgentAuthorityFormSuccess, events[0].Name)
	})
}

func (s *AgentAuthoritySuite) TestRemoveAgentAuthorityForm_FailedUpdateLeavesStoreIntact() {
	ctx := context.Background()
	store := agentauthority.NewInMemoryStore()

	seeded := s.authority()
	seeded.Status = agentauthority.AuthorityFormUploaded
	seeded.Forms = []agentauthority.FormDocument{
		{ID: id.NewDocumentID(), FileName: "a.pdf", Location: "authorities/a.pdf"},
		{ID: id.NewDocumentID(), FileName: "b.pdf", Location: "authorities/b.pdf"},
	}
	s.Require().NoError(store.Save(ctx, seeded))

	validator := upload.NewValidator(config.Upload{
		MaxNumberDocuments: 2,
		MaxFileSizeBytes:   1024,
		AllowedFileTypes: []config.AllowedFileType{{
			FileUploadReasons: []string{string(id.UploadReasonAgentAuthorityForm)},
			Extensions:        []string{"pdf"},
		}},
	})
	service, err := agentauthority.New(s.resolver, store, s.writer, s.storage, validator,
		audit.NewPublisher(s.recorder))
	s.Require().NoError(err)

	s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(s.access(), nil)
	s.writer.EXPECT().Update(gomock.Any(), gomock.Any()).Return(sentinel.ErrUnavailable)

	err = service.RemoveAgentAuthorityForm(ctx, &s.applicant, s.authorityID, seeded.Forms[0].ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	// The read copy the service filtered must not have reached the record
	// held by the store: both forms survive the failed update.
	persisted, err := store.Get(ctx, s.authorityID)
	s.Require().NoError(err)
	s.Require().Len(persisted.Forms, 2)
	s.Equal("a.pdf", persisted.Forms[0].FileName)
	s.Equal("b.pdf", persisted.Forms[1].FileName)
}

func (s *AgentAuthoritySuite) TestListAuthoritiesForAgency() {
	ctx := context.Background()

	s.Run("manager lists own agency", func() {
		s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(s.access(), nil)
		s.reader.EXPECT().ListByAgency(gomock.Any(), s.agencyID).
			Return([]agentauthority.AgentAuthority{s.authority()}, nil)

		authorities, err := s.service.ListAuthoritiesForAgency(ctx, &s.applicant, s.agencyID)
		s.Require().NoError(err)
		s.Len(authorities, 1)
	})

	s.Run("other agency is forbidden", func() {
		s.resolver.EXPECT().ResolveUserAccess(gomock.Any(), s.applicant).Return(s.access(), nil)

		_, err := s.service.ListAuthoritiesForAgency(ctx, &s.applicant, id.NewAgencyID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *AgentAuthoritySuite) mustListAll() []audit.Event {
	events, err := s.recorder.ListAll(context.Background())
	s.Require().NoError(err)
	return events
}
