//go:build integration

package useraccess_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	id "fellgate/pkg/domain"
	"fellgate/pkg/platform/sentinel"

	"fellgate/internal/useraccess"
)

type PostgresAccountStoreSuite struct {
	suite.Suite

	container *tcpostgres.PostgresContainer
	db        *sql.DB
	store     *useraccess.PostgresStore
}

func TestPostgresAccountStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresAccountStoreSuite))
}

func (s *PostgresAccountStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("fellgate_test"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = sql.Open("pgx", dsn)
	s.Require().NoError(err)
	s.Require().NoError(s.db.PingContext(ctx))

	_, err = s.db.ExecContext(ctx, useraccess.Schema)
	s.Require().NoError(err)

	s.store = useraccess.NewPostgres(s.db)
}

func (s *PostgresAccountStoreSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresAccountStoreSuite) SetupTest() {
	_, err := s.db.Exec("TRUNCATE user_accounts")
	s.Require().NoError(err)
}

func (s *PostgresAccountStoreSuite) account(email string) useraccess.UserAccount {
	return useraccess.UserAccount{
		ID:          id.NewUserAccountID(),
		Email:       email,
		FirstName:   "Jo",
		LastName:    "Forester",
		Status:      useraccess.StatusInvited,
		AccountType: useraccess.TypeWoodlandOwnerAdministrator,
	}
}

func (s *PostgresAccountStoreSuite) TestSaveAndFindByID() {
	ctx := context.Background()
	ownerID := id.NewWoodlandOwnerID()

	account := s.account("jo.forester@example.com")
	account.WoodlandOwnerID = &ownerID
	account.InviteToken = uuid.New()
	account.InviteTokenExpiry = time.Now().Add(7 * 24 * time.Hour).UTC()
	s.Require().NoError(s.store.Save(ctx, account))

	found, err := s.store.FindByID(ctx, account.ID)
	s.Require().NoError(err)
	s.Equal(account.Email, found.Email)
	s.Equal(useraccess.StatusInvited, found.Status)
	s.Equal(useraccess.TypeWoodlandOwnerAdministrator, found.AccountType)
	s.Require().NotNil(found.WoodlandOwnerID)
	s.Equal(ownerID, *found.WoodlandOwnerID)
	s.Nil(found.AgencyID)
	s.Equal(account.InviteToken, found.InviteToken)
	s.WithinDuration(account.InviteTokenExpiry, found.InviteTokenExpiry, time.Second)
}

func (s *PostgresAccountStoreSuite) TestFindByIDMissingIsNotFound() {
	_, err := s.store.FindByID(context.Background(), id.NewUserAccountID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresAccountStoreSuite) TestSaveDuplicateEmailConflicts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, s.account("jo.forester@example.com")))

	// The unique index is on lower(email), so a case-differing duplicate
	// still conflicts.
	err := s.store.Save(ctx, s.account("Jo.Forester@Example.com"))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresAccountStoreSuite) TestFindByEmailIsCaseInsensitive() {
	ctx := context.Background()
	account := s.account("jo.forester@example.com")
	s.Require().NoError(s.store.Save(ctx, account))

	found, err := s.store.FindByEmail(ctx, "JO.FORESTER@EXAMPLE.COM")
	s.Require().NoError(err)
	s.Equal(account.ID, found.ID)

	_, err = s.store.FindByEmail(ctx, "nobody@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresAccountStoreSuite) TestUpdate() {
	ctx := context.Background()
	agencyID := id.NewAgencyID()

	account := s.account("sam.agent@example.com")
	s.Require().NoError(s.store.Save(ctx, account))

	account.Status = useraccess.StatusActive
	account.AccountType = useraccess.TypeAgentAdministrator
	account.AgencyID = &agencyID
	s.Require().NoError(s.store.Update(ctx, account))

	found, err := s.store.FindByID(ctx, account.ID)
	s.Require().NoError(err)
	s.Equal(useraccess.StatusActive, found.Status)
	s.Equal(useraccess.TypeAgentAdministrator, found.AccountType)
	s.Require().NotNil(found.AgencyID)
	s.Equal(agencyID, *found.AgencyID)
}

func (s *PostgresAccountStoreSuite) TestUpdateMissingRowIsNotFound() {
	err := s.store.Update(context.Background(), s.account("ghost@example.com"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}
