package attendance

import "time"

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusExcused Status = "EXCUSED"
)

// Statuses is the cycle order used by Next.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

func (s Status) index() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Status) IsValid() bool { return s.index() >= 0 }

// Next returns the status following s in the cycle, wrapping EXCUSED back to PRESENT.
// An unknown status resolves to PRESENT.
func (s Status) Next() Status {
	return Statuses[(s.index()+1)%len(Statuses)]
}

// Rules decide which statuses count against a student's attendance rate.
// ABSENT always does.
type Rules struct {
	MinAttendance          float64 `json:"min_attendance"` // percentage
	LateCountsAsAbsence    bool    `json:"late_counts_as_absence"`
	ExcusedCountsAsAbsence bool    `json:"excused_counts_as_absence"`
}

func (r Rules) IsAbsence(s Status) bool {
	switch s {
	case StatusAbsent:
		return true
	case StatusLate:
		return r.LateCountsAsAbsence
	case StatusExcused:
		return r.ExcusedCountsAsAbsence
	default:
		return false
	}
}

// Record is a committed attendance snapshot of one class meeting.
type Record struct {
	ID          string            `json:"id"`
	ClassID     string            `json:"class_id"`
	Date        string            `json:"date"`
	Statuses    map[string]Status `json:"statuses"` // {studentID: status}
	CommittedBy string            `json:"committed_by"`
	CommittedAt time.Time         `json:"committed_at"`
}

type StudentSummary struct {
	StudentID    string  `json:"student_id"`
	Meetings     int     `json:"meetings"`
	Absences     int     `json:"absences"`
	Rate         float64 `json:"rate"` // percentage
	BelowMinimum bool    `json:"below_minimum"`
}

// Rate returns the attendance percentage over the meetings a student took part in.
// No meetings means full attendance.
func Rate(meetings, absences int) float64 {
	if meetings <= 0 {
		return 100
	}
	return float64(meetings-absences) * 100 / float64(meetings)
}
