package classwork

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
)

var NowFunc = time.Now // mockable

type (
	// Repository stores class logs newest first: Add* prepends.
	Repository interface {
		ListContents(ctx context.Context, classID string) ([]Content, error)
		AddContent(ctx context.Context, c Content) (Content, error)
		ListTasks(ctx context.Context, classID string) ([]Task, error)
		AddTask(ctx context.Context, t Task) (Task, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		loc      *time.Location
	}
)

func NewService(repo Repository, validate *validator.Validate, conf *core.Config) *Service {
	return &Service{repo: repo, validate: validate, loc: conf.Location()}
}

func (svc *Service) Contents(ctx context.Context, classID string) ([]Content, error) {
	cs, err := svc.repo.ListContents(ctx, classID)
	return cs, errors.Wrap(err, "listing contents")
}

func (svc *Service) AddContent(ctx context.Context, classID string, nc NewContent) (Content, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Content{}, err
	}
	if nc.Date == "" {
		nc.Date = core.DateOf(NowFunc(), svc.loc)
	}
	return svc.repo.AddContent(ctx, Content{
		ID:          uuid.New().String(),
		ClassID:     classID,
		Date:        nc.Date,
		Description: nc.Description,
		Attachments: nc.Attachments,
	})
}

func (svc *Service) Tasks(ctx context.Context, classID string) ([]Task, error) {
	ts, err := svc.repo.ListTasks(ctx, classID)
	return ts, errors.Wrap(err, "listing tasks")
}

func (svc *Service) AddTask(ctx context.Context, classID string, nt NewTask) (Task, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Task{}, err
	}
	return svc.repo.AddTask(ctx, Task{
		ID:          uuid.New().String(),
		ClassID:     classID,
		Title:       nt.Title,
		Description: nt.Description,
		DueDate:     nt.DueDate,
		IsGraded:    nt.IsGraded,
	})
}

// PendingTasks returns the tasks of the classes due today or later, soonest first.
func (svc *Service) PendingTasks(ctx context.Context, classIDs ...string) ([]Task, error) {
	today := core.DateOf(NowFunc(), svc.loc)
	var pending []Task
	for _, id := range classIDs {
		ts, err := svc.Tasks(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, t := range ts {
			if t.DueDate >= today {
				pending = append(pending, t)
			}
		}
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].DueDate < pending[j].DueDate })
	return pending, nil
}
