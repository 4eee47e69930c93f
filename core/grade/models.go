package grade

import (
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/school"
)

type Assessment struct {
	ID       string  `json:"id"`
	ClassID  string  `json:"class_id"`
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	MaxScore float64 `json:"max_score"`
	Weight   float64 `json:"weight"`
}

// Record is one student's grade for one assessment. The (StudentID, AssessmentID) pair is unique.
type Record struct {
	StudentID    string  `json:"student_id"`
	AssessmentID string  `json:"assessment_id"`
	Value        float64 `json:"value"`
}

// NewAssessment contains information needed to create a new Assessment.
type NewAssessment struct {
	Name     string  `json:"name" validate:"required,max=80"`
	Date     string  `json:"date" validate:"required,isodate"`
	MaxScore float64 `json:"max_score" validate:"gt=0"`
	Weight   float64 `json:"weight" validate:"gt=0"`
}

func (na *NewAssessment) Validate(validate *validator.Validate) error {
	na.Name = core.SanitizeText(na.Name)
	na.Date = core.CleanString(na.Date)
	if na.MaxScore == 0 {
		na.MaxScore = 10
	}
	if na.Weight == 0 {
		na.Weight = 1
	}
	return validate.Struct(na)
}

type SetGrade struct {
	StudentID    string   `json:"student_id" validate:"required"`
	AssessmentID string   `json:"assessment_id" validate:"required"`
	Value        *float64 `json:"value" validate:"required,gte=0"`
}

func (sg *SetGrade) Validate(validate *validator.Validate) error {
	sg.StudentID = core.CleanString(sg.StudentID)
	sg.AssessmentID = core.CleanString(sg.AssessmentID)
	return validate.Struct(sg)
}

type Status string

const (
	StatusApproved Status = "APPROVED"
	StatusRecovery Status = "RECOVERY"
	StatusFailed   Status = "FAILED"
	StatusPending  Status = "PENDING" // nothing graded yet
)

// Decide rates a class outcome: below the minimum attendance fails outright,
// otherwise the average decides between approval and recovery.
func Decide(average, attendanceRate float64, conf school.Config) Status {
	switch {
	case attendanceRate < conf.MinAttendance:
		return StatusFailed
	case average >= conf.PassingGrade:
		return StatusApproved
	default:
		return StatusRecovery
	}
}

// Concept maps a 0-10 average onto the letter scale.
func Concept(average, passingGrade float64) string {
	switch {
	case average >= 9:
		return "A"
	case average >= 7:
		return "B"
	case average >= passingGrade:
		return "C"
	default:
		return "D"
	}
}

// WeightedAverage normalizes every graded assessment to 0-10 and weighs it.
// Ungraded assessments are left out. The result is rounded to one decimal.
func WeightedAverage(assessments []Assessment, grades map[string]float64) (avg float64, graded bool) {
	var sum, weights float64
	for _, a := range assessments {
		v, ok := grades[a.ID]
		if !ok || a.MaxScore <= 0 {
			continue
		}
		sum += v / a.MaxScore * 10 * a.Weight
		weights += a.Weight
	}
	if weights == 0 {
		return 0, false
	}
	return math.Round(sum/weights*10) / 10, true
}

type (
	SheetRow struct {
		Student school.Student     `json:"student"`
		Grades  map[string]float64 `json:"grades"` // {assessmentID: value}
		Average *float64           `json:"average"`
	}

	// Sheet is the students x assessments matrix of a class.
	Sheet struct {
		ClassID     string       `json:"class_id"`
		Assessments []Assessment `json:"assessments"`
		Rows        []SheetRow   `json:"rows"`
	}

	ReportGrade struct {
		AssessmentID string   `json:"assessment_id"`
		Name         string   `json:"name"`
		Value        *float64 `json:"value"`
	}

	ReportLine struct {
		ClassID    string        `json:"class_id"`
		ClassName  string        `json:"class_name"`
		Subject    string        `json:"subject"`
		Grades     []ReportGrade `json:"grades,omitempty"`
		Average    *float64      `json:"average,omitempty"`
		Concept    string        `json:"concept,omitempty"`
		Attendance *float64      `json:"attendance,omitempty"`
		Status     Status        `json:"status"`
	}

	ReportCard struct {
		Student school.Student `json:"student"`
		Lines   []ReportLine   `json:"lines"`
	}
)
