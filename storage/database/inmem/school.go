package inmemdb

import (
	"context"

	"github.com/trezcool/schooldash/core/school"
)

type schoolRepository struct {
	db *schoolTable
}

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func (repo *schoolRepository) ListSchools(_ context.Context) ([]school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	schools := make([]school.School, len(repo.db.schools))
	copy(schools, repo.db.schools)
	return schools, nil
}

func (repo *schoolRepository) GetSchool(_ context.Context, id string) (school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.schools {
		if s.ID == id {
			return s, nil
		}
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) SaveSchool(_ context.Context, s school.School) (school.School, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, orig := range repo.db.schools {
		if orig.ID == s.ID {
			repo.db.schools[i] = s
			return s, nil
		}
	}
	repo.db.schools = append(repo.db.schools, s)
	return s, nil
}

func (repo *schoolRepository) ListPeriods(_ context.Context, schoolID string) ([]school.AcademicPeriod, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	periods := make([]school.AcademicPeriod, 0)
	for _, p := range repo.db.periods {
		if p.SchoolID == schoolID {
			periods = append(periods, p)
		}
	}
	return periods, nil
}

func (repo *schoolRepository) GetPeriod(_ context.Context, id string) (school.AcademicPeriod, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, p := range repo.db.periods {
		if p.ID == id {
			return p, nil
		}
	}
	return school.AcademicPeriod{}, school.ErrPeriodNotFound
}

func (repo *schoolRepository) SavePeriod(_ context.Context, p school.AcademicPeriod) (school.AcademicPeriod, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, orig := range repo.db.periods {
		if orig.ID == p.ID {
			repo.db.periods[i] = p
			return p, nil
		}
	}
	repo.db.periods = append(repo.db.periods, p)
	return p, nil
}

func (repo *schoolRepository) DeletePeriod(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	periods := repo.db.periods[:0:0]
	for _, p := range repo.db.periods {
		if p.ID != id {
			periods = append(periods, p)
		}
	}
	repo.db.periods = periods
	return nil
}

func (repo *schoolRepository) ListClasses(_ context.Context) ([]school.ClassGroup, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]school.ClassGroup, len(repo.db.classes))
	copy(classes, repo.db.classes)
	return classes, nil
}

func (repo *schoolRepository) GetClass(_ context.Context, id string) (school.ClassGroup, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.classes {
		if c.ID == id {
			return c, nil
		}
	}
	return school.ClassGroup{}, school.ErrClassNotFound
}

func (repo *schoolRepository) GetStudent(_ context.Context, id string) (school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, st := range repo.db.students {
		if st.ID == id {
			return st, nil
		}
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) GetStudentByUser(_ context.Context, userID string) (school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, st := range repo.db.students {
		if userID != "" && st.UserID == userID {
			return st, nil
		}
	}
	return school.Student{}, school.ErrStudentNotFound
}
