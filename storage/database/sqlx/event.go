package sqlxrepos

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/action"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// eventRow maps the action_event table.
type eventRow struct {
	ID            string      `db:"id"`
	EventID       string      `db:"event_id"`
	Kind          string      `db:"kind"`
	Action        string      `db:"action"`
	Target        null.String `db:"target"`
	Payload       null.JSON   `db:"payload"`
	Feedback      null.JSON   `db:"feedback"`
	Accessibility null.JSON   `db:"accessibility"`
	ElementID     string      `db:"element_id"`
	Page          string      `db:"page"`
	UserID        null.String `db:"user_id"`
	FiredAt       time.Time   `db:"fired_at"`
	CreatedAt     time.Time   `db:"created_at"`
}

type eventRepository struct {
	db *sqlx.DB
}

var _ action.RecordRepository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) *eventRepository {
	return &eventRepository{db: db}
}

func marshalNull(v interface{}, isSet bool) (null.JSON, error) {
	if !isSet {
		return null.JSON{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return null.JSON{}, err
	}
	return null.JSONFrom(b), nil
}

func (repo eventRepository) toRow(rec action.Record) (eventRow, error) {
	cfg := rec.Config
	row := eventRow{
		ID:        rec.ID,
		EventID:   cfg.ID,
		Kind:      string(cfg.Kind),
		Action:    string(cfg.Action),
		Target:    null.NewString(cfg.Target, cfg.Target != ""),
		ElementID: rec.Context.ElementID,
		Page:      rec.Context.Page,
		UserID:    null.NewString(rec.Context.UserID, rec.Context.UserID != ""),
		FiredAt:   rec.Context.Timestamp.UTC(),
		CreatedAt: rec.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	var err error
	if row.Payload, err = marshalNull(cfg.Payload, cfg.Payload != nil); err != nil {
		return eventRow{}, errors.Wrap(err, "marshalling payload")
	}
	if row.Feedback, err = marshalNull(cfg.Feedback, cfg.Feedback != nil); err != nil {
		return eventRow{}, errors.Wrap(err, "marshalling feedback")
	}
	if row.Accessibility, err = marshalNull(cfg.Accessibility, cfg.Accessibility != nil); err != nil {
		return eventRow{}, errors.Wrap(err, "marshalling accessibility")
	}
	return row, nil
}

func (repo eventRepository) fromRow(row eventRow) (action.Record, error) {
	rec := action.Record{
		ID: row.ID,
		Config: action.EventConfig{
			ID:     row.EventID,
			Kind:   action.Kind(row.Kind),
			Action: action.Action(row.Action),
			Target: row.Target.String,
		},
		Context: action.Context{
			ElementID: row.ElementID,
			Page:      row.Page,
			UserID:    row.UserID.String,
			Timestamp: row.FiredAt.UTC(),
		},
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.Payload.Valid {
		if err := row.Payload.Unmarshal(&rec.Config.Payload); err != nil {
			return action.Record{}, errors.Wrap(err, "unmarshalling payload")
		}
	}
	if row.Feedback.Valid {
		rec.Config.Feedback = new(action.Feedback)
		if err := row.Feedback.Unmarshal(rec.Config.Feedback); err != nil {
			return action.Record{}, errors.Wrap(err, "unmarshalling feedback")
		}
	}
	if row.Accessibility.Valid {
		rec.Config.Accessibility = new(action.Accessibility)
		if err := row.Accessibility.Unmarshal(rec.Config.Accessibility); err != nil {
			return action.Record{}, errors.Wrap(err, "unmarshalling accessibility")
		}
	}
	return rec, nil
}

func (repo eventRepository) Track(ctx context.Context, rec action.Record) error {
	row, err := repo.toRow(rec)
	if err != nil {
		return err
	}
	q := `INSERT INTO action_event (
		id, event_id, kind, action, target, payload, feedback, accessibility,
		element_id, page, user_id, fired_at, created_at
	) VALUES (
		:id, :event_id, :kind, :action, :target, :payload, :feedback, :accessibility,
		:element_id, :page, :user_id, :fired_at, :created_at
	)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "inserting action event")
	}
	return nil
}

// buildQuery returns the select statement matching filter and its arguments.
func buildQuery(filter action.RecordFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Action != "" {
		conds = append(conds, "action = "+arg(string(filter.Action)))
	}
	if filter.UserID != "" {
		conds = append(conds, "user_id = "+arg(filter.UserID))
	}
	if !filter.Since.IsZero() {
		conds = append(conds, "fired_at >= "+arg(filter.Since.UTC()))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM action_event")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY fired_at DESC, created_at DESC LIMIT ")
	sb.WriteString(arg(limit))
	return sb.String(), args
}

func (repo eventRepository) QueryRecords(ctx context.Context, filter action.RecordFilter) ([]action.Record, error) {
	q, args := buildQuery(filter)

	var rows []eventRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting action events")
	}

	records := make([]action.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := repo.fromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "reading action event %s", row.ID)
		}
		records = append(records, rec)
	}
	return records, nil
}
