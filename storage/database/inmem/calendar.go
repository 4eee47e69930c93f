package inmemdb

import (
	"context"

	"github.com/trezcool/schooldash/core/calendar"
)

type eventRepository struct {
	db *eventTable
}

func NewEventRepository(db *DB) calendar.Repository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) ListEvents(_ context.Context, schoolID string) ([]calendar.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]calendar.Event, 0, len(repo.db.rows))
	for _, e := range repo.db.rows {
		if schoolID == "" || e.SchoolID == schoolID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (repo *eventRepository) AddEvent(_ context.Context, e calendar.Event) (calendar.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append(repo.db.rows, e)
	return e, nil
}

func (repo *eventRepository) GetEvent(_ context.Context, id string) (calendar.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, e := range repo.db.rows {
		if e.ID == id {
			return e, nil
		}
	}
	return calendar.Event{}, calendar.ErrNotFound
}
