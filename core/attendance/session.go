package attendance

import "github.com/pkg/errors"

var ErrStudentNotInSession = errors.New("student is not on this class roster")

type Mark struct {
	StudentID string `json:"student_id"`
	Status    Status `json:"status"`
}

// Session is the in-progress attendance of one class meeting.
// It is a value: Toggle returns a new Session and leaves the receiver untouched.
type Session struct {
	ClassID string `json:"class_id"`
	Date    string `json:"date"`
	Marks   []Mark `json:"marks"`
}

// NewSession marks every student of the roster PRESENT.
func NewSession(classID, date string, studentIDs []string) Session {
	marks := make([]Mark, 0, len(studentIDs))
	for _, id := range studentIDs {
		marks = append(marks, Mark{StudentID: id, Status: StatusPresent})
	}
	return Session{ClassID: classID, Date: date, Marks: marks}
}

func (s Session) indexOf(studentID string) int {
	for i, m := range s.Marks {
		if m.StudentID == studentID {
			return i
		}
	}
	return -1
}

func (s Session) Status(studentID string) (Status, bool) {
	i := s.indexOf(studentID)
	if i < 0 {
		return "", false
	}
	return s.Marks[i].Status, true
}

// Toggle advances one student's status by exactly one step.
func (s Session) Toggle(studentID string) (Session, error) {
	i := s.indexOf(studentID)
	if i < 0 {
		return s, ErrStudentNotInSession
	}
	marks := make([]Mark, len(s.Marks))
	copy(marks, s.Marks)
	marks[i].Status = marks[i].Status.Next()
	return Session{ClassID: s.ClassID, Date: s.Date, Marks: marks}, nil
}

// Snapshot returns the {studentID: status} mapping handed to the ledger.
func (s Session) Snapshot() map[string]Status {
	snap := make(map[string]Status, len(s.Marks))
	for _, m := range s.Marks {
		snap[m.StudentID] = m.Status
	}
	return snap
}

// Counts tallies the session by status.
func (s Session) Counts() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, m := range s.Marks {
		counts[m.Status]++
	}
	return counts
}
