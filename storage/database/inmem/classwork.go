package inmemdb

import (
	"context"

	"github.com/trezcool/schooldash/core/classwork"
)

type classworkRepository struct {
	db *classworkTable
}

func NewClassworkRepository(db *DB) classwork.Repository {
	return &classworkRepository{db: db.classwork}
}

func (repo *classworkRepository) ListContents(_ context.Context, classID string) ([]classwork.Content, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	cs := make([]classwork.Content, 0)
	for _, c := range repo.db.contents {
		if c.ClassID == classID {
			cs = append(cs, c)
		}
	}
	return cs, nil
}

func (repo *classworkRepository) AddContent(_ context.Context, c classwork.Content) (classwork.Content, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.contents = append([]classwork.Content{c}, repo.db.contents...)
	return c, nil
}

func (repo *classworkRepository) ListTasks(_ context.Context, classID string) ([]classwork.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ts := make([]classwork.Task, 0)
	for _, t := range repo.db.tasks {
		if t.ClassID == classID {
			ts = append(ts, t)
		}
	}
	return ts, nil
}

func (repo *classworkRepository) AddTask(_ context.Context, t classwork.Task) (classwork.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.tasks = append([]classwork.Task{t}, repo.db.tasks...)
	return t, nil
}
