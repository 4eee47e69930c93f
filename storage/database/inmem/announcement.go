package inmemdb

import (
	"context"

	"github.com/trezcool/schooldash/core/announcement"
)

type announcementRepository struct {
	db *announcementTable
}

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{db: db.announcement}
}

func (repo *announcementRepository) ListAnnouncements(_ context.Context, schoolID string) ([]announcement.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	as := make([]announcement.Announcement, 0)
	for _, a := range repo.db.rows {
		if schoolID == "" || a.SchoolID == schoolID {
			as = append(as, a)
		}
	}
	return as, nil
}

func (repo *announcementRepository) AddAnnouncement(_ context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append(repo.db.rows, a)
	return a, nil
}
