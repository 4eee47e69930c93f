package inmemdb

import (
	"sync"

	"github.com/trezcool/schooldash/core/announcement"
	"github.com/trezcool/schooldash/core/attendance"
	"github.com/trezcool/schooldash/core/calendar"
	"github.com/trezcool/schooldash/core/classwork"
	"github.com/trezcool/schooldash/core/grade"
	"github.com/trezcool/schooldash/core/school"
	"github.com/trezcool/schooldash/core/user"
)

// DB keeps every table in memory. Rows are stored and returned by value.
type (
	DB struct {
		user         *userTable
		school       *schoolTable
		event        *eventTable
		attendance   *attendanceTable
		grade        *gradeTable
		classwork    *classworkTable
		announcement *announcementTable
	}

	userTable struct {
		sync.RWMutex
		rows []user.User
	}

	schoolTable struct {
		sync.RWMutex
		schools  []school.School
		periods  []school.AcademicPeriod
		classes  []school.ClassGroup
		students []school.Student
	}

	eventTable struct {
		sync.RWMutex
		rows []calendar.Event
	}

	attendanceTable struct {
		sync.RWMutex
		rows []attendance.Record
	}

	gradeTable struct {
		sync.RWMutex
		assessments []grade.Assessment
		grades      []grade.Record
	}

	classworkTable struct {
		sync.RWMutex
		contents []classwork.Content
		tasks    []classwork.Task
	}

	announcementTable struct {
		sync.RWMutex
		rows []announcement.Announcement
	}
)

// Open returns an empty database.
func Open() *DB {
	return &DB{
		user:         new(userTable),
		school:       new(schoolTable),
		event:        new(eventTable),
		attendance:   new(attendanceTable),
		grade:        new(gradeTable),
		classwork:    new(classworkTable),
		announcement: new(announcementTable),
	}
}
