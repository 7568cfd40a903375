package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "fellgate/pkg/domain"
	audit "fellgate/pkg/platform/audit"
)

// Store implements audit.Store over a PostgreSQL outbox table. Events are
// written to audit_outbox and relayed to Kafka by the outbox relay; the relay
// marks rows published so delivery is at-least-once.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema creates the outbox table. Exposed for dev wiring and integration tests;
// production schemas are managed by migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_outbox (
    id                 UUID PRIMARY KEY,
    event_name         TEXT        NOT NULL,
    actor_type         TEXT        NOT NULL,
    user_id            UUID        NULL,
    source_entity_id   TEXT        NOT NULL,
    source_entity_type TEXT        NOT NULL,
    correlation_id     TEXT        NOT NULL DEFAULT '',
    payload            JSONB       NOT NULL DEFAULT '{}',
    created_at         TIMESTAMPTZ NOT NULL,
    published_at       TIMESTAMPTZ NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_outbox_pending ON audit_outbox (created_at) WHERE published_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_audit_outbox_source ON audit_outbox (source_entity_id);
`

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	var userID any
	if event.UserID != nil && !event.UserID.IsNil() {
		userID = event.UserID.String()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_outbox
		    (id, event_name, actor_type, user_id, source_entity_id, source_entity_type, correlation_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), string(event.Name), string(event.ActorType), userID,
		event.SourceEntityID, event.SourceEntityType, event.CorrelationID,
		payload, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListBySource(ctx context.Context, sourceEntityID string) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_name, actor_type, user_id, source_entity_id, source_entity_type, correlation_id, payload, created_at
		FROM audit_outbox
		WHERE source_entity_id = $1
		ORDER BY created_at`,
		sourceEntityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) ListAll(ctx context.Context) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_name, actor_type, user_id, source_entity_id, source_entity_type, correlation_id, payload, created_at
		FROM audit_outbox
		ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// PendingRow is one unpublished outbox row handed to the relay.
type PendingRow struct {
	ID             uuid.UUID
	SourceEntityID string
	Envelope       []byte
}

// envelope is the JSON structure published to the audit topic.
type envelope struct {
	EventName        string          `json:"eventName"`
	ActorType        string          `json:"actorType"`
	UserID           string          `json:"userId,omitempty"`
	SourceEntityID   string          `json:"sourceEntityId"`
	SourceEntityType string          `json:"sourceEntityType"`
	CorrelationID    string          `json:"correlationId,omitempty"`
	Timestamp        string          `json:"timestamp"`
	AuditData        json.RawMessage `json:"auditData"`
}

// PendingBatch returns up to limit unpublished rows, oldest first, with the
// Kafka envelope pre-built.
func (s *Store) PendingBatch(ctx context.Context, limit int) ([]PendingRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_name, actor_type, user_id, source_entity_id, source_entity_type, correlation_id, payload, created_at
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch pending audit rows: %w", err)
	}
	defer rows.Close()

	var out []PendingRow
	for rows.Next() {
		var (
			rowID     uuid.UUID
			env       envelope
			userID    sql.NullString
			payload   []byte
			createdAt time.Time
		)
		if err := rows.Scan(&rowID, &env.EventName, &env.ActorType, &userID,
			&env.SourceEntityID, &env.SourceEntityType, &env.CorrelationID,
			&payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending audit row: %w", err)
		}
		if userID.Valid {
			env.UserID = userID.String
		}
		env.Timestamp = createdAt.Format(time.RFC3339Nano)
		env.AuditData = payload

		encoded, err := json.Marshal(env)
		if err != nil {
			return nil, fmt.Errorf("marshal audit envelope: %w", err)
		}
		out = append(out, PendingRow{ID: rowID, SourceEntityID: env.SourceEntityID, Envelope: encoded})
	}
	return out, rows.Err()
}

// MarkPublished stamps rows as relayed. Safe to call twice for the same row.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	for _, rowID := range ids {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE audit_outbox SET published_at = now() WHERE id = $1 AND published_at IS NULL`,
			rowID,
		); err != nil {
			return fmt.Errorf("mark audit row published: %w", err)
		}
	}
	return nil
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var out []audit.Event
	for rows.Next() {
		var (
			event   audit.Event
			name    string
			actor   string
			userID  sql.NullString
			payload []byte
		)
		if err := rows.Scan(&name, &actor, &userID, &event.SourceEntityID,
			&event.SourceEntityType, &event.CorrelationID, &payload, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Name = audit.EventName(name)
		event.ActorType = id.ActorType(actor)
		if userID.Valid {
			parsed, err := id.ParseUserAccountID(userID.String)
			if err == nil {
				event.UserID = &parsed
			}
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &event.Data); err != nil {
				return nil, fmt.Errorf("unmarshal audit payload: %w", err)
			}
		}
		out = append(out, event)
	}
	return out, rows.Err()
}
