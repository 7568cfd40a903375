package httptransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	id "fellgate/pkg/domain"
	"fellgate/pkg/platform/audit"
	auditmem "fellgate/pkg/platform/audit/store/memory"

	"fellgate/internal/agentauthority"
	"fellgate/internal/document"
	"fellgate/internal/eia"
	"fellgate/internal/filestorage"
	"fellgate/internal/flapp"
	"fellgate/internal/invite"
	"fellgate/internal/platform/config"
	"fellgate/internal/property"
	"fellgate/internal/tenyear"
	httptransport "fellgate/internal/transport/http"
	"fellgate/internal/upload"
	"fellgate/internal/useraccess"
	"fellgate/internal/woodlandowner"
)

const signingKey = "test-signing-key"

type RouterSuite struct {
	suite.Suite

	router   http.Handler
	accounts *useraccess.InMemoryStore

	account useraccess.UserAccount
	ownerID id.WoodlandOwnerID
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := auditmem.NewInMemoryStore()
	auditor := audit.NewPublisher(recorder)

	s.accounts = useraccess.NewInMemoryStore()
	applications := flapp.NewInMemoryStore()
	profiles := property.NewInMemoryStore()
	authorities := agentauthority.NewInMemoryStore()
	owners := woodlandowner.NewInMemoryStore()
	assessments := eia.NewInMemoryStore()
	files := filestorage.NewInMemoryStore()

	resolver, err := useraccess.NewResolver(s.accounts, authorities)
	s.Require().NoError(err)
	getter, err := flapp.NewExternalGetter(applications, log)
	s.Require().NoError(err)
	updater, err := flapp.NewExternalUpdater(applications, log)
	s.Require().NoError(err)

	uploadOpts := config.Upload{
		MaxNumberDocuments: 5,
		MaxFileSizeBytes:   1 << 20,
		AllowedFileTypes: []config.AllowedFileType{{
			FileUploadReasons: []string{string(id.UploadReasonSupportingDocument)},
			Extensions:        []string{"pdf"},
		}},
	}
	validator := upload.NewValidator(uploadOpts)

	documents, err := document.New(resolver, getter, updater, files, validator, auditor, document.WithLogger(log))
	s.Require().NoError(err)
	tenYear, err := tenyear.New(resolver, getter, updater, auditor, tenyear.WithLogger(log))
	s.Require().NoError(err)
	eiaService, err := eia.New(resolver, getter, updater, assessments, files, validator, auditor, eia.WithLogger(log))
	s.Require().NoError(err)
	propertyService, err := property.New(resolver, profiles, auditor, property.WithLogger(log))
	s.Require().NoError(err)
	authorityService, err := agentauthority.New(resolver, authorities, authorities, files, validator, auditor,
		agentauthority.WithLogger(log))
	s.Require().NoError(err)
	ownerService, err := woodlandowner.New(owners, s.accounts, auditor, woodlandowner.WithLogger(log))
	s.Require().NoError(err)
	inviteService, err := invite.New(s.accounts, invite.NewLogNotifications(log), auditor,
		config.Invite{LinkExpiryDays: 7, BaseURL: "http://localhost/invite/accept"}, invite.WithLogger(log))
	s.Require().NoError(err)

	handler, err := httptransport.NewHandler(httptransport.Deps{
		Access:       resolver,
		Applications: getter,
		Documents:    documents,
		TenYear:      tenYear,
		Assessments:  eiaService,
		Properties:   propertyService,
		Authorities:  authorityService,
		Owners:       ownerService,
		Invites:      inviteService,
		Logger:       log,
	})
	s.Require().NoError(err)

	s.router = httptransport.NewRouter(handler, signingKey)

	s.ownerID = id.NewWoodlandOwnerID()
	s.account = useraccess.UserAccount{
		ID:              id.NewUserAccountID(),
		Email:           "owner@example.com",
		FirstName:       "Olive",
		LastName:        "Owner",
		Status:          useraccess.StatusActive,
		AccountType:     useraccess.TypeWoodlandOwnerAdministrator,
		WoodlandOwnerID: &s.ownerID,
	}
	s.Require().NoError(s.accounts.Save(context.Background(), s.account))
}

func (s *RouterSuite) token(accountID id.UserAccountID) string {
	claims := jwt.MapClaims{
		"sub":   accountID.String(),
		"email": "owner@example.com",
		"name":  "Olive Owner",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	s.Require().NoError(err)
	return signed
}

func (s *RouterSuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz", nil, "")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestMissingTokenIsUnauthorized() {
	rec := s.do(http.MethodGet, "/api/v1/woodland-owners/"+s.ownerID.String()+"/applications", nil, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestTokenSignedWithWrongKeyIsRejected() {
	claims := jwt.MapClaims{"sub": s.account.ID.String(), "exp": time.Now().Add(time.Hour).Unix()}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-key"))
	s.Require().NoError(err)

	rec := s.do(http.MethodGet, "/api/v1/woodland-owners/"+s.ownerID.String()+"/applications", nil, forged)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestRequestIDEchoedOnResponse() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "corr-42")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal("corr-42", rec.Header().Get("X-Request-Id"))
}

func (s *RouterSuite) TestPropertyProfileLifecycle() {
	token := s.token(s.account.ID)

	rec := s.do(http.MethodPost, "/api/v1/property-profiles", map[string]any{
		"woodlandOwnerId": s.ownerID.String(),
		"name":            "Oak Wood",
		"nearestTown":     "Bristol",
	}, token)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&created))
	s.NotEmpty(created.ID)

	// A duplicate name for the same owner conflicts.
	rec = s.do(http.MethodPost, "/api/v1/property-profiles", map[string]any{
		"woodlandOwnerId": s.ownerID.String(),
		"name":            "Oak Wood",
	}, token)
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/property-profiles/"+created.ID+"/compartments", map[string]any{
		"number":        "1a",
		"totalHectares": 2.5,
	}, token)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/woodland-owners/"+s.ownerID.String()+"/property-profiles", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code)

	var listed struct {
		PropertyProfiles []struct {
			Name         string `json:"name"`
			Compartments []struct {
				Number string `json:"number"`
			} `json:"compartments"`
		} `json:"propertyProfiles"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&listed))
	s.Require().Len(listed.PropertyProfiles, 1)
	s.Require().Len(listed.PropertyProfiles[0].Compartments, 1)
	s.Equal("1a", listed.PropertyProfiles[0].Compartments[0].Number)
}

func (s *RouterSuite) TestForeignOwnerReadsForbidden() {
	token := s.token(s.account.ID)
	other := id.NewWoodlandOwnerID()

	rec := s.do(http.MethodGet, "/api/v1/woodland-owners/"+other.String()+"/applications", nil, token)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RouterSuite) TestInvalidIDIsBadRequest() {
	token := s.token(s.account.ID)
	rec := s.do(http.MethodGet, "/api/v1/applications/not-a-uuid", nil, token)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestAcceptInvitationWithBadTokenIsGenericUnauthorized() {
	rec := s.do(http.MethodPost, "/invite/accept", map[string]string{
		"email": "invitee@example.com",
		"token": "not-a-uuid",
	}, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "invalid or expired invitation")
}
