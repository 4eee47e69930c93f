package inmemdb

import (
	"fmt"
	"time"

	"github.com/trezcool/schooldash/core/announcement"
	"github.com/trezcool/schooldash/core/calendar"
	"github.com/trezcool/schooldash/core/classwork"
	"github.com/trezcool/schooldash/core/grade"
	"github.com/trezcool/schooldash/core/school"
	"github.com/trezcool/schooldash/core/user"
)

const studentsCount = 15

// Seed loads the demo fixtures. Calendar events are dated in the month of now.
func Seed(db *DB, now time.Time) {
	seedSchools(db)
	seedUsers(db)
	seedClasses(db)
	seedGrades(db)
	seedClasswork(db)
	seedAnnouncements(db)
	seedEvents(db, now)
}

// OpenSeeded returns a database loaded with the demo fixtures.
func OpenSeeded(now time.Time) *DB {
	db := Open()
	Seed(db, now)
	return db
}

func seedSchools(db *DB) {
	t := db.school
	t.Lock()
	defer t.Unlock()

	t.schools = append(t.schools,
		school.School{
			ID:   "s1",
			Name: "Colégio Futuro",
			Config: school.Config{
				PeriodType:    school.PeriodBimester,
				GradingScale:  school.ScaleNumeric,
				PassingGrade:  6,
				AcademicYear:  2024,
				MinAttendance: 75,
				StudentAccess: school.StudentAccess{
					Enabled:        true,
					ViewGrades:     true,
					ViewAttendance: true,
					ViewContent:    true,
					ViewTasks:      true,
				},
			},
		},
		school.School{
			ID:   "s2",
			Name: "Escola Primária São José",
			Config: school.Config{
				PeriodType:             school.PeriodTrimester,
				GradingScale:           school.ScaleConcept,
				PassingGrade:           5,
				AcademicYear:           2024,
				MinAttendance:          70,
				LateCountsAsAbsence:    true,
				ExcusedCountsAsAbsence: true,
				StudentAccess: school.StudentAccess{
					Enabled:    true,
					ViewGrades: true,
					ViewTasks:  true,
				},
			},
		},
	)

	t.periods = append(t.periods,
		school.AcademicPeriod{ID: "p1", SchoolID: "s1", Name: "1st Bimester", StartDate: "2024-02-01", EndDate: "2024-04-15", IsClosed: true},
		school.AcademicPeriod{ID: "p2", SchoolID: "s1", Name: "2nd Bimester", StartDate: "2024-04-16", EndDate: "2024-06-30"},
		school.AcademicPeriod{ID: "p3", SchoolID: "s1", Name: "3rd Bimester", StartDate: "2024-08-01", EndDate: "2024-09-30"},
		school.AcademicPeriod{ID: "p4", SchoolID: "s1", Name: "4th Bimester", StartDate: "2024-10-01", EndDate: "2024-12-15"},
	)
}

func seedUsers(db *DB) {
	t := db.user
	t.Lock()
	defer t.Unlock()

	t.rows = append(t.rows,
		user.User{ID: "u1", Name: "Ana Silva", Email: "admin@futuro.com", Role: user.RoleAdmin, SchoolID: "s1"},
		user.User{ID: "u2", Name: "Carlos Professor", Email: "prof@futuro.com", Role: user.RoleProfessor, SchoolID: "s1"},
		user.User{ID: "u3", Name: "João Aluno", Email: "aluno@futuro.com", Role: user.RoleStudent, SchoolID: "s1"},
		user.User{ID: "u4", Name: "Maria Souza", Email: "prof2@futuro.com", Role: user.RoleProfessor, SchoolID: "s1"},
		user.User{ID: "u5", Name: "Pedro Santos", Email: "pedro@futuro.com", Role: user.RoleStudent, SchoolID: "s1"},
	)
}

// StudentID returns the fixture ID of the n-th (1-based) student.
func StudentID(n int) string { return fmt.Sprintf("st%d", n) }

func studentRange(from, to int) []string {
	ids := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		ids = append(ids, StudentID(n))
	}
	return ids
}

func seedClasses(db *DB) {
	t := db.school
	t.Lock()
	defer t.Unlock()

	for n := 1; n <= studentsCount; n++ {
		st := school.Student{
			ID:           StudentID(n),
			SchoolID:     "s1",
			Name:         fmt.Sprintf("Student %d", n),
			EnrollmentID: fmt.Sprintf("202400%d", n),
		}
		switch n {
		case 1:
			st.Name, st.UserID = "João Aluno", "u3"
		case 2:
			st.Name, st.UserID = "Pedro Santos", "u5"
		}
		t.students = append(t.students, st)
	}
	t.students = append(t.students, school.Student{ID: "sj1", SchoolID: "s2", Name: "Lucas Ferreira", EnrollmentID: "2024SJ01"})

	t.classes = append(t.classes,
		school.ClassGroup{ID: "c1", SchoolID: "s1", Name: "9th Grade A", Subject: "Mathematics", TeacherID: "u2", StudentIDs: studentRange(1, 15), NextClass: "08:00"},
		school.ClassGroup{ID: "c2", SchoolID: "s1", Name: "9th Grade B", Subject: "Mathematics", TeacherID: "u2", StudentIDs: studentRange(1, 10), NextClass: "10:00"},
		school.ClassGroup{ID: "c3", SchoolID: "s1", Name: "10th Grade", Subject: "Physics", TeacherID: "u2", StudentIDs: studentRange(6, 15)},
		school.ClassGroup{ID: "c4", SchoolID: "s1", Name: "8th Grade A", Subject: "History", TeacherID: "u4", StudentIDs: studentRange(1, 8)},
		school.ClassGroup{ID: "c5", SchoolID: "s1", Name: "12th Grade", Subject: "Chemistry", TeacherID: "u4", StudentIDs: studentRange(8, 15)},
	)
}

func seedGrades(db *DB) {
	t := db.grade
	t.Lock()
	defer t.Unlock()

	t.assessments = append(t.assessments,
		grade.Assessment{ID: "a1", ClassID: "c1", Name: "Monthly Test", Date: "2024-03-10", MaxScore: 10, Weight: 1},
		grade.Assessment{ID: "a2", ClassID: "c1", Name: "Group Project", Date: "2024-03-25", MaxScore: 10, Weight: 1},
		grade.Assessment{ID: "a3", ClassID: "c1", Name: "Bimester Exam", Date: "2024-04-15", MaxScore: 10, Weight: 2},
	)
	// grades between 5 and 10
	for n := 1; n <= studentsCount; n++ {
		for i, a := range t.assessments {
			t.grades = append(t.grades, grade.Record{
				StudentID:    StudentID(n),
				AssessmentID: a.ID,
				Value:        float64(5 + (n*3+i)%6),
			})
		}
	}
}

func seedClasswork(db *DB) {
	t := db.classwork
	t.Lock()
	defer t.Unlock()

	t.contents = append(t.contents,
		classwork.Content{ID: "ct1", ClassID: "c1", Date: "2024-05-20", Description: "Introduction to linear algebra: vectors and matrices", Attachments: 2},
		classwork.Content{ID: "ct2", ClassID: "c1", Date: "2024-05-18", Description: "Review for the bimester exam"},
		classwork.Content{ID: "ct3", ClassID: "c1", Date: "2024-05-15", Description: "Solving exercise sheet 4", Attachments: 1},
	)
	t.tasks = append(t.tasks,
		classwork.Task{ID: "t1", ClassID: "c1", Title: "Exercise sheet 05", Description: "Solve pages 45 to 48 of the textbook. Hand in on a separate sheet.", DueDate: "2024-05-25", IsGraded: true},
		classwork.Task{ID: "t2", ClassID: "c1", Title: "Research: history of algebra", Description: "Research Al-Khwarizmi and bring a one page summary.", DueDate: "2024-05-28"},
	)
}

func seedAnnouncements(db *DB) {
	t := db.announcement
	t.Lock()
	defer t.Unlock()

	t.rows = append(t.rows,
		announcement.Announcement{
			ID:         "ann1",
			SchoolID:   "s1",
			Title:      "Parent-teacher meeting",
			Content:    "The quarterly meeting will take place next Saturday, the 25th, at 09:00 in the main auditorium.",
			Type:       announcement.TypeEvent,
			Date:       "2024-05-20",
			SenderID:   "u1",
			SenderName: "School Board",
			SenderRole: user.RoleAdmin,
			Target:     announcement.TargetAll,
		},
		announcement.Announcement{
			ID:            "ann2",
			SchoolID:      "s1",
			Title:         "Geometry project",
			Content:       "Bring a ruler, compass and protractor to tomorrow's class. The project is worth 2.0 points.",
			Type:          announcement.TypeTask,
			Date:          "2024-05-21",
			SenderID:      "u2",
			SenderName:    "Carlos Professor",
			SenderRole:    user.RoleProfessor,
			Target:        announcement.TargetClass,
			TargetClassID: "c1",
		},
		announcement.Announcement{
			ID:         "ann3",
			SchoolID:   "s1",
			Title:      "System maintenance",
			Content:    "The system will be unavailable on Sunday from 02:00 to 04:00 for an update.",
			Type:       announcement.TypeNotice,
			Date:       "2024-05-18",
			SenderID:   "u1",
			SenderName: "Tech Support",
			SenderRole: user.RoleAdmin,
			Target:     announcement.TargetAll,
		},
	)
}

func seedEvents(db *DB, now time.Time) {
	t := db.event
	t.Lock()
	defer t.Unlock()

	m := calendar.MonthOf(now)
	date := func(day int) string { return calendar.FormatDate(m.Year, m.Month, day) }

	t.rows = append(t.rows,
		calendar.Event{ID: "e1", SchoolID: "s1", Title: "First day of classes", Description: "Official start of the school year for every class.", Date: date(5), Type: calendar.TypeAcademic},
		calendar.Event{ID: "e2", SchoolID: "s1", Title: "National holiday", Description: "No classes.", Date: date(15), Type: calendar.TypeHoliday},
		calendar.Event{ID: "e3", SchoolID: "s1", Title: "Class council", Description: "Teaching meeting with every professor.", Date: date(25), Type: calendar.TypeMeeting},
		calendar.Event{ID: "e4", SchoolID: "s1", Title: "June festival", Description: "Event open to the community.", Date: date(28), Type: calendar.TypeEvent},
	)
}
