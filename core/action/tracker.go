package action

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
)

// Record is the diagnostics entry emitted once per dispatch.
type Record struct {
	ID        string      `json:"id"`
	Config    EventConfig `json:"config"`
	Context   Context     `json:"context"`
	CreatedAt time.Time   `json:"created_at"` // UTC
}

func newRecord(cfg EventConfig, ec Context) Record {
	return Record{
		ID:        uuid.New().String(),
		Config:    cfg,
		Context:   ec,
		CreatedAt: ec.Timestamp.UTC(),
	}
}

// Tracker receives dispatch records. Its errors are logged by the Manager, never returned to callers.
type Tracker interface {
	Track(ctx context.Context, rec Record) error
}

// RecordFilter narrows a record query. Zero fields do not filter.
type RecordFilter struct {
	Action Action
	UserID string
	Since  time.Time
	Limit  int
}

// RecordRepository stores and queries dispatch records.
type RecordRepository interface {
	Tracker
	// QueryRecords returns matching records, newest first.
	QueryRecords(ctx context.Context, filter RecordFilter) ([]Record, error)
}

type multiTracker []Tracker

// MultiTracker sends every record to each tracker, returning the first error met.
func MultiTracker(trackers ...Tracker) Tracker {
	return multiTracker(trackers)
}

func (mt multiTracker) Track(ctx context.Context, rec Record) error {
	var firstErr error
	for _, t := range mt {
		if err := t.Track(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type nopTracker struct{}

func (nopTracker) Track(context.Context, Record) error { return nil }

type logTracker struct {
	logger core.Logger
}

// LogTracker reports every record to logger at debug level.
func LogTracker(logger core.Logger) Tracker {
	return logTracker{logger: logger}
}

func (lt logTracker) Track(_ context.Context, rec Record) error {
	lt.logger.Debug(
		fmt.Sprintf("dispatch %s (%s) on %s", rec.Config.ID, rec.Config.Action, rec.Context.Page),
		map[string]interface{}{
			"record_id": rec.ID,
			"config":    rec.Config,
			"context":   rec.Context,
		},
		core.User{ID: rec.Context.UserID},
	)
	return nil
}
