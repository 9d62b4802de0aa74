package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
	ActionLock    = "LOCK"
	ActionUnlock  = "UNLOCK"
)

type Event struct {
	ID         string          `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	UserAgent  string          `json:"userAgent"`
	CreatedAt  any             `json:"createdAt"`
	OldData    json.RawMessage `json:"oldData,omitempty"`
	NewData    json.RawMessage `json:"newData,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
}

type Entry struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	RequestID  string
	IP         string
	UserAgent  string
	OldData    any
	NewData    any
}

type Filter struct {
	Action     string
	EntityType string
	Actor      string
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, entry Entry) error {
	oldJSON, oldMap, err := snapshot(entry.OldData)
	if err != nil {
		return err
	}
	newJSON, newMap, err := snapshot(entry.NewData)
	if err != nil {
		return err
	}

	var changesJSON []byte
	if changes := Diff(oldMap, newMap); len(changes) > 0 {
		changesJSON, err = json.Marshal(changes)
		if err != nil {
			return err
		}
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor, action, entity_type, entity_id, old_data, new_data, changes, request_id, ip, user_agent)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  `, entry.Actor, entry.Action, entry.EntityType, entry.EntityID, oldJSON, newJSON, changesJSON, entry.RequestID, entry.IP, entry.UserAgent)
	return err
}

// RecordBestEffort never propagates audit failures to the caller: the
// primary mutation must not roll back because the trail write failed.
func (s *Service) RecordBestEffort(ctx context.Context, entry Entry) {
	if err := s.Record(ctx, entry); err != nil {
		slog.Warn("audit write failed", "action", entry.Action, "entityType", entry.EntityType, "err", err)
	}
}

func snapshot(data any) ([]byte, map[string]any, error) {
	if data == nil {
		return nil, nil, nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, nil, err
	}
	var asMap map[string]any
	// Non-object snapshots are stored verbatim and excluded from the diff.
	if err := json.Unmarshal(payload, &asMap); err != nil {
		return payload, nil, nil
	}
	return payload, asMap, nil
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildBaseQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	selectCols := "id, actor, action, entity_type, entity_id, request_id, ip, user_agent, created_at"
	if includeDetails {
		selectCols += ", old_data, new_data, changes"
	}
	query, args := buildBaseQuery("SELECT "+selectCols, filter)
	limitPos := len(args) + 1
	offsetPos := len(args) + 2
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", limitPos, offsetPos)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		if includeDetails {
			if err := rows.Scan(&evt.ID, &evt.Actor, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.UserAgent, &evt.CreatedAt, &evt.OldData, &evt.NewData, &evt.Changes); err != nil {
				return nil, err
			}
		} else {
			if err := rows.Scan(&evt.ID, &evt.Actor, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.UserAgent, &evt.CreatedAt); err != nil {
				return nil, err
			}
		}
		out = append(out, evt)
	}
	return out, nil
}

func buildBaseQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM audit_events WHERE 1=1"
	var args []any
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", len(args)+1)
		args = append(args, filter.Action)
	}
	if filter.EntityType != "" {
		query += fmt.Sprintf(" AND entity_type = $%d", len(args)+1)
		args = append(args, filter.EntityType)
	}
	if filter.Actor != "" {
		query += fmt.Sprintf(" AND actor = $%d", len(args)+1)
		args = append(args, filter.Actor)
	}
	return query, args
}
