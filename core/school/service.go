package school

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("school")
	ErrPeriodNotFound  = core.NewNotFoundError("academic period")
	ErrClassNotFound   = core.NewNotFoundError("class")
	ErrStudentNotFound = core.NewNotFoundError("student")
	ErrPeriodClosed    = core.NewValidationError(errors.New("academic period is closed"))
)

type (
	Repository interface {
		ListSchools(ctx context.Context) ([]School, error)
		GetSchool(ctx context.Context, id string) (School, error)
		SaveSchool(ctx context.Context, s School) (School, error)

		// ListPeriods returns the school's periods in insertion order.
		ListPeriods(ctx context.Context, schoolID string) ([]AcademicPeriod, error)
		GetPeriod(ctx context.Context, id string) (AcademicPeriod, error)
		SavePeriod(ctx context.Context, p AcademicPeriod) (AcademicPeriod, error)
		DeletePeriod(ctx context.Context, id string) error

		ListClasses(ctx context.Context) ([]ClassGroup, error)
		GetClass(ctx context.Context, id string) (ClassGroup, error)

		GetStudent(ctx context.Context, id string) (Student, error)
		GetStudentByUser(ctx context.Context, userID string) (Student, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) List(ctx context.Context) ([]School, error) {
	return svc.repo.ListSchools(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (School, error) {
	return svc.repo.GetSchool(ctx, id)
}

func (svc *Service) UpdateConfig(ctx context.Context, schoolID string, conf Config) (School, error) {
	s, err := svc.repo.GetSchool(ctx, schoolID)
	if err != nil {
		return School{}, err
	}
	if err = conf.Validate(svc.validate); err != nil {
		return School{}, err
	}
	s.Config = conf
	return svc.repo.SaveSchool(ctx, s)
}

// ToggleStudentAccess flips one student portal switch.
func (svc *Service) ToggleStudentAccess(ctx context.Context, schoolID string, key AccessKey) (School, error) {
	s, err := svc.repo.GetSchool(ctx, schoolID)
	if err != nil {
		return School{}, err
	}
	f := s.Config.StudentAccess.field(key)
	if f == nil {
		return School{}, core.NewValidationError(nil, core.FieldError{Field: "key", Error: fmt.Sprintf("unknown access key %q", key)})
	}
	*f = !*f
	return svc.repo.SaveSchool(ctx, s)
}

// Periods

func (svc *Service) Periods(ctx context.Context, schoolID string) ([]AcademicPeriod, error) {
	return svc.repo.ListPeriods(ctx, schoolID)
}

func (svc *Service) GetPeriod(ctx context.Context, id string) (AcademicPeriod, error) {
	return svc.repo.GetPeriod(ctx, id)
}

// AddPeriod appends an open, undated period named after its position.
func (svc *Service) AddPeriod(ctx context.Context, schoolID string) (AcademicPeriod, error) {
	if _, err := svc.repo.GetSchool(ctx, schoolID); err != nil {
		return AcademicPeriod{}, err
	}
	periods, err := svc.repo.ListPeriods(ctx, schoolID)
	if err != nil {
		return AcademicPeriod{}, errors.Wrap(err, "listing periods")
	}
	p := AcademicPeriod{
		ID:       uuid.New().String(),
		SchoolID: schoolID,
		Name:     fmt.Sprintf("Period %d", len(periods)+1),
	}
	return svc.repo.SavePeriod(ctx, p)
}

func (svc *Service) UpdatePeriod(ctx context.Context, id string, up UpdatePeriod) (AcademicPeriod, error) {
	p, err := svc.repo.GetPeriod(ctx, id)
	if err != nil {
		return AcademicPeriod{}, err
	}
	if p.IsClosed {
		return AcademicPeriod{}, ErrPeriodClosed
	}
	if err = up.Validate(svc.validate, p); err != nil {
		return AcademicPeriod{}, err
	}
	p.Name = up.Name
	p.StartDate = up.StartDate
	p.EndDate = up.EndDate
	return svc.repo.SavePeriod(ctx, p)
}

func (svc *Service) ClosePeriod(ctx context.Context, id string) (AcademicPeriod, error) {
	p, err := svc.repo.GetPeriod(ctx, id)
	if err != nil {
		return AcademicPeriod{}, err
	}
	p.IsClosed = true
	return svc.repo.SavePeriod(ctx, p)
}

func (svc *Service) RemovePeriod(ctx context.Context, id string) error {
	if _, err := svc.repo.GetPeriod(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeletePeriod(ctx, id)
}

// CurrentPeriod returns the period whose date range holds date, if any.
func (svc *Service) CurrentPeriod(ctx context.Context, schoolID, date string) (AcademicPeriod, bool, error) {
	periods, err := svc.repo.ListPeriods(ctx, schoolID)
	if err != nil {
		return AcademicPeriod{}, false, errors.Wrap(err, "listing periods")
	}
	for _, p := range periods {
		if p.StartDate != "" && p.EndDate != "" && p.StartDate <= date && date <= p.EndDate {
			return p, true, nil
		}
	}
	return AcademicPeriod{}, false, nil
}

// Classes

func (svc *Service) QueryClasses(ctx context.Context, filter ClassQueryFilter) ([]ClassGroup, error) {
	all, err := svc.repo.ListClasses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing classes")
	}
	classes := make([]ClassGroup, 0, len(all))
	for _, c := range all {
		if filter.Match(c) {
			classes = append(classes, c)
		}
	}
	return classes, nil
}

func (svc *Service) GetClass(ctx context.Context, id string) (ClassGroup, error) {
	return svc.repo.GetClass(ctx, id)
}

// ClassRoster returns the students of a class in roster order. Dangling student IDs are skipped.
func (svc *Service) ClassRoster(ctx context.Context, classID string) ([]Student, error) {
	c, err := svc.repo.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	students := make([]Student, 0, len(c.StudentIDs))
	for _, id := range c.StudentIDs {
		st, err := svc.repo.GetStudent(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, errors.Wrap(err, "getting student")
		}
		students = append(students, st)
	}
	return students, nil
}

// ClassStudentIDs returns the roster's student IDs in roster order.
func (svc *Service) ClassStudentIDs(ctx context.Context, classID string) ([]string, error) {
	students, err := svc.ClassRoster(ctx, classID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return ids, nil
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

// StudentForUser returns the student record behind a portal account.
func (svc *Service) StudentForUser(ctx context.Context, userID string) (Student, error) {
	return svc.repo.GetStudentByUser(ctx, userID)
}
