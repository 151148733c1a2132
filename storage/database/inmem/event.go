package inmemdb

import (
	"context"
	"sort"
	"sync"

	"github.com/trezcool/darasa/core/action"
)

const defaultLimit = 50

type eventRepository struct {
	mutex sync.RWMutex
	table []action.Record
}

var _ action.RecordRepository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository() *eventRepository {
	return &eventRepository{}
}

func (repo *eventRepository) Track(_ context.Context, rec action.Record) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.table = append(repo.table, rec)
	return nil
}

func matches(rec action.Record, filter action.RecordFilter) bool {
	if filter.Action != "" && rec.Config.Action != filter.Action {
		return false
	}
	if filter.UserID != "" && rec.Context.UserID != filter.UserID {
		return false
	}
	if !filter.Since.IsZero() && rec.Context.Timestamp.Before(filter.Since) {
		return false
	}
	return true
}

func (repo *eventRepository) QueryRecords(_ context.Context, filter action.RecordFilter) ([]action.Record, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	records := make([]action.Record, 0)
	for _, rec := range repo.table {
		if matches(rec, filter) {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Context.Timestamp.After(records[j].Context.Timestamp)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
