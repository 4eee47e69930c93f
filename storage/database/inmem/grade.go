package inmemdb

import (
	"context"

	"github.com/trezcool/schooldash/core/grade"
)

type gradeRepository struct {
	db *gradeTable
}

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db.grade}
}

func (repo *gradeRepository) ListAssessments(_ context.Context, classID string) ([]grade.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	as := make([]grade.Assessment, 0)
	for _, a := range repo.db.assessments {
		if a.ClassID == classID {
			as = append(as, a)
		}
	}
	return as, nil
}

func (repo *gradeRepository) GetAssessment(_ context.Context, id string) (grade.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, a := range repo.db.assessments {
		if a.ID == id {
			return a, nil
		}
	}
	return grade.Assessment{}, grade.ErrAssessmentNotFound
}

func (repo *gradeRepository) AddAssessment(_ context.Context, a grade.Assessment) (grade.Assessment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.assessments = append(repo.db.assessments, a)
	return a, nil
}

func (repo *gradeRepository) ListGrades(_ context.Context, assessmentIDs ...string) ([]grade.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[string]bool, len(assessmentIDs))
	for _, id := range assessmentIDs {
		wanted[id] = true
	}
	recs := make([]grade.Record, 0)
	for _, rec := range repo.db.grades {
		if len(wanted) == 0 || wanted[rec.AssessmentID] {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (repo *gradeRepository) SaveGrade(_ context.Context, rec grade.Record) (grade.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, orig := range repo.db.grades {
		if orig.StudentID == rec.StudentID && orig.AssessmentID == rec.AssessmentID {
			repo.db.grades[i] = rec
			return rec, nil
		}
	}
	repo.db.grades = append(repo.db.grades, rec)
	return rec, nil
}
