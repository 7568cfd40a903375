package useraccess

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "fellgate/pkg/domain"
	"fellgate/pkg/platform/sentinel"
)

// PostgresStore persists user accounts. Unique-email violations surface as
// sentinel.ErrConflict so the invite service can classify them.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const Schema = `
CREATE TABLE IF NOT EXISTS user_accounts (
    id                  UUID PRIMARY KEY,
    email               TEXT        NOT NULL,
    first_name          TEXT        NOT NULL DEFAULT '',
    last_name           TEXT        NOT NULL DEFAULT '',
    status              TEXT        NOT NULL,
    account_type        TEXT        NOT NULL,
    woodland_owner_id   UUID        NULL,
    agency_id           UUID        NULL,
    invite_token        UUID        NULL,
    invite_token_expiry TIMESTAMPTZ NULL,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_user_accounts_email ON user_accounts (lower(email));
`

const accountColumns = `id, email, first_name, last_name, status, account_type,
	woodland_owner_id, agency_id, invite_token, invite_token_expiry, created_at, updated_at`

func (s *PostgresStore) FindByID(ctx context.Context, accountID id.UserAccountID) (UserAccount, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM user_accounts WHERE id = $1`, accountID.String())
	return scanAccount(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (UserAccount, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM user_accounts WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
	return scanAccount(row)
}

func (s *PostgresStore) Save(ctx context.Context, account UserAccount) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_accounts
		    (id, email, first_name, last_name, status, account_type, woodland_owner_id, agency_id, invite_token, invite_token_expiry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID.String(), account.Email, account.FirstName, account.LastName,
		string(account.Status), string(account.AccountType),
		nullableID(account.WoodlandOwnerID != nil, func() string { return account.WoodlandOwnerID.String() }),
		nullableID(account.AgencyID != nil, func() string { return account.AgencyID.String() }),
		account.InviteToken, account.InviteTokenExpiry,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("save user account: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, account UserAccount) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE user_accounts
		SET email = $2, first_name = $3, last_name = $4, status = $5, account_type = $6,
		    woodland_owner_id = $7, agency_id = $8, invite_token = $9, invite_token_expiry = $10,
		    updated_at = now()
		WHERE id = $1`,
		account.ID.String(), account.Email, account.FirstName, account.LastName,
		string(account.Status), string(account.AccountType),
		nullableID(account.WoodlandOwnerID != nil, func() string { return account.WoodlandOwnerID.String() }),
		nullableID(account.AgencyID != nil, func() string { return account.AgencyID.String() }),
		account.InviteToken, account.InviteTokenExpiry,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update user account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user account: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (UserAccount, error) {
	var (
		account         UserAccount
		rawID           string
		status          string
		accountType     string
		woodlandOwnerID sql.NullString
		agencyID        sql.NullString
		inviteToken     sql.NullString
		inviteExpiry    sql.NullTime
	)
	err := row.Scan(&rawID, &account.Email, &account.FirstName, &account.LastName,
		&status, &accountType, &woodlandOwnerID, &agencyID, &inviteToken, &inviteExpiry,
		&account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return UserAccount{}, sentinel.ErrNotFound
	}
	if err != nil {
		return UserAccount{}, fmt.Errorf("scan user account: %w", err)
	}

	account.ID, err = id.ParseUserAccountID(rawID)
	if err != nil {
		return UserAccount{}, fmt.Errorf("parse user account id: %w", err)
	}
	account.Status = AccountStatus(status)
	account.AccountType = AccountType(accountType)
	if woodlandOwnerID.Valid {
		parsed, err := id.ParseWoodlandOwnerID(woodlandOwnerID.String)
		if err != nil {
			return UserAccount{}, fmt.Errorf("parse woodland owner id: %w", err)
		}
		account.WoodlandOwnerID = &parsed
	}
	if agencyID.Valid {
		parsed, err := id.ParseAgencyID(agencyID.String)
		if err != nil {
			return UserAccount{}, fmt.Errorf("parse agency id: %w", err)
		}
		account.AgencyID = &parsed
	}
	if inviteToken.Valid {
		token, err := parseUUID(inviteToken.String)
		if err != nil {
			return UserAccount{}, fmt.Errorf("parse invite token: %w", err)
		}
		account.InviteToken = token
	}
	if inviteExpiry.Valid {
		account.InviteTokenExpiry = inviteExpiry.Time
	}
	return account, nil
}

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

func nullableID(present bool, value func() string) any {
	if !present {
		return nil
	}
	return value()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
