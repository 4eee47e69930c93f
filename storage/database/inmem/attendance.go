package inmemdb

import (
	"context"

	"github.com/trezcool/schooldash/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) SaveAttendance(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// the ledger keeps its own copy of the statuses
	statuses := make(map[string]attendance.Status, len(rec.Statuses))
	for id, st := range rec.Statuses {
		statuses[id] = st
	}
	rec.Statuses = statuses

	for i, orig := range repo.db.rows {
		if orig.ClassID == rec.ClassID && orig.Date == rec.Date {
			repo.db.rows[i] = rec
			return rec, nil
		}
	}
	repo.db.rows = append(repo.db.rows, rec)
	return rec, nil
}

func (repo *attendanceRepository) ListAttendance(_ context.Context, classID string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, rec := range repo.db.rows {
		if rec.ClassID == classID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}
