package calendar

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound    = core.NewNotFoundError("event")
	errInvalidDate = core.NewValidationError(nil, core.FieldError{Field: "date", Error: "date must be formatted as YYYY-MM-DD"})
)

// Repository is the event store. ListEvents returns events in insertion order.
type Repository interface {
	ListEvents(ctx context.Context, schoolID string) ([]Event, error)
	AddEvent(ctx context.Context, e Event) (Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
}

type Service struct {
	repo          Repository
	validate      *validator.Validate
	loc           *time.Location
	upcomingLimit int
}

func NewService(repo Repository, validate *validator.Validate, conf *core.Config) *Service {
	return &Service{
		repo:          repo,
		validate:      validate,
		loc:           conf.Location(),
		upcomingLimit: conf.Calendar.UpcomingLimit,
	}
}

// Now returns the current time in the school's time zone. It is read on every call.
func (svc *Service) Now() time.Time {
	return NowFunc().In(svc.loc)
}

// Today returns the current local date as "YYYY-MM-DD".
func (svc *Service) Today() string {
	return core.DateOf(svc.Now(), nil)
}

// Month builds the month grid of the school's events.
func (svc *Service) Month(ctx context.Context, schoolID string, year, month int) (Grid, error) {
	events, err := svc.repo.ListEvents(ctx, schoolID)
	if err != nil {
		return Grid{}, errors.Wrap(err, "listing events")
	}
	return BuildGrid(year, month, events, svc.Now()), nil
}

func (svc *Service) Create(ctx context.Context, schoolID string, ne NewEvent) (Event, error) {
	if err := ne.Validate(svc.validate); err != nil {
		return Event{}, err
	}
	e := Event{
		ID:          uuid.New().String(),
		SchoolID:    schoolID,
		Title:       ne.Title,
		Description: ne.Description,
		Date:        ne.Date,
		Type:        ne.Type,
	}
	return svc.repo.AddEvent(ctx, e)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEvent(ctx, id)
}

// ForDate returns the events of a single day.
func (svc *Service) ForDate(ctx context.Context, schoolID, date string) ([]Event, error) {
	if !core.IsISODate(date) {
		return nil, errInvalidDate
	}
	return svc.Query(ctx, QueryFilter{SchoolID: schoolID, From: date, To: date})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	events, err := svc.repo.ListEvents(ctx, filter.SchoolID)
	if err != nil {
		return nil, errors.Wrap(err, "listing events")
	}
	matched := make([]Event, 0, len(events))
	for _, e := range events {
		if filter.Match(e) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Upcoming returns the next events from today on, soonest first.
// limit <= 0 falls back to the configured limit.
func (svc *Service) Upcoming(ctx context.Context, schoolID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = svc.upcomingLimit
	}
	events, err := svc.Query(ctx, QueryFilter{SchoolID: schoolID, From: svc.Today()})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
