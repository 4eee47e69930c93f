package school

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/attendance"
)

type PeriodType string

const (
	PeriodBimester  PeriodType = "BIMESTER"
	PeriodTrimester PeriodType = "TRIMESTER"
	PeriodSemester  PeriodType = "SEMESTER"
)

type GradingScale string

const (
	ScaleNumeric GradingScale = "NUMERIC" // 0-10
	ScaleConcept GradingScale = "CONCEPT" // A/B/C
)

// AccessKey names one student portal switch.
type AccessKey string

const (
	AccessEnabled        AccessKey = "enabled"
	AccessViewGrades     AccessKey = "view_grades"
	AccessViewAttendance AccessKey = "view_attendance"
	AccessViewContent    AccessKey = "view_content"
	AccessViewTasks      AccessKey = "view_tasks"
)

var AccessKeys = []AccessKey{AccessEnabled, AccessViewGrades, AccessViewAttendance, AccessViewContent, AccessViewTasks}

type StudentAccess struct {
	Enabled        bool `json:"enabled"`
	ViewGrades     bool `json:"view_grades"`
	ViewAttendance bool `json:"view_attendance"`
	ViewContent    bool `json:"view_content"`
	ViewTasks      bool `json:"view_tasks"`
}

func (sa *StudentAccess) field(key AccessKey) *bool {
	switch key {
	case AccessEnabled:
		return &sa.Enabled
	case AccessViewGrades:
		return &sa.ViewGrades
	case AccessViewAttendance:
		return &sa.ViewAttendance
	case AccessViewContent:
		return &sa.ViewContent
	case AccessViewTasks:
		return &sa.ViewTasks
	}
	return nil
}

// Allows reports whether students may use the feature behind key.
// Every feature is off while the portal itself is disabled.
func (sa StudentAccess) Allows(key AccessKey) bool {
	if !sa.Enabled {
		return false
	}
	if f := sa.field(key); f != nil {
		return *f
	}
	return false
}

type Config struct {
	PeriodType             PeriodType    `json:"period_type" validate:"required,oneof=BIMESTER TRIMESTER SEMESTER"`
	GradingScale           GradingScale  `json:"grading_scale" validate:"required,oneof=NUMERIC CONCEPT"`
	PassingGrade           float64       `json:"passing_grade" validate:"gte=0,lte=10"`
	AcademicYear           int           `json:"academic_year" validate:"gte=1900,lte=9999"`
	MinAttendance          float64       `json:"min_attendance" validate:"gte=0,lte=100"`
	LateCountsAsAbsence    bool          `json:"late_counts_as_absence"`
	ExcusedCountsAsAbsence bool          `json:"excused_counts_as_absence"`
	StudentAccess          StudentAccess `json:"student_access"`
}

func (c Config) AttendanceRules() attendance.Rules {
	return attendance.Rules{
		MinAttendance:          c.MinAttendance,
		LateCountsAsAbsence:    c.LateCountsAsAbsence,
		ExcusedCountsAsAbsence: c.ExcusedCountsAsAbsence,
	}
}

func (c *Config) Validate(validate *validator.Validate) error {
	c.PeriodType = PeriodType(core.CleanString(string(c.PeriodType)))
	c.GradingScale = GradingScale(core.CleanString(string(c.GradingScale)))
	return validate.Struct(c)
}

type School struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
	Config  Config `json:"config"`
}

type AcademicPeriod struct {
	ID        string `json:"id"`
	SchoolID  string `json:"school_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsClosed  bool   `json:"is_closed"`
}

// UpdatePeriod holds the editable fields of an AcademicPeriod. Empty fields are left as is.
type UpdatePeriod struct {
	Name      string `json:"name" validate:"max=60"`
	StartDate string `json:"start_date" validate:"omitempty,isodate"`
	EndDate   string `json:"end_date" validate:"omitempty,isodate"`
}

func (up *UpdatePeriod) Validate(validate *validator.Validate, orig AcademicPeriod) error {
	up.Name = core.SanitizeText(up.Name)
	up.StartDate = core.CleanString(up.StartDate)
	up.EndDate = core.CleanString(up.EndDate)
	if err := validate.Struct(up); err != nil {
		return err
	}
	if up.Name == "" {
		up.Name = orig.Name
	}
	if up.StartDate == "" {
		up.StartDate = orig.StartDate
	}
	if up.EndDate == "" {
		up.EndDate = orig.EndDate
	}
	if up.StartDate != "" && up.EndDate != "" && up.EndDate < up.StartDate {
		return core.NewValidationError(nil, core.FieldError{Field: "end_date", Error: "end_date must not be before start_date"})
	}
	return nil
}

type Student struct {
	ID           string `json:"id"`
	SchoolID     string `json:"school_id"`
	Name         string `json:"name"`
	EnrollmentID string `json:"enrollment_id"`
	UserID       string `json:"user_id,omitempty"` // portal account, if any
}

type ClassGroup struct {
	ID         string   `json:"id"`
	SchoolID   string   `json:"school_id"`
	Name       string   `json:"name"`
	Subject    string   `json:"subject"`
	TeacherID  string   `json:"teacher_id,omitempty"`
	StudentIDs []string `json:"-"`
	NextClass  string   `json:"next_class,omitempty"`
}

func (c ClassGroup) StudentsCount() int { return len(c.StudentIDs) }

func (c ClassGroup) HasStudent(id string) bool {
	for _, sid := range c.StudentIDs {
		if sid == id {
			return true
		}
	}
	return false
}

type ClassQueryFilter struct {
	Search    string `query:"search"`
	TeacherID string `query:"teacher_id"`
	StudentID string `query:"-"`
	SchoolID  string `query:"-"`
}

func (qf *ClassQueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.TeacherID = core.CleanString(qf.TeacherID)
}

// Match applies AND on the set filter fields. Search matches name or subject, ignoring case.
func (qf ClassQueryFilter) Match(c ClassGroup) bool {
	if qf.SchoolID != "" && c.SchoolID != qf.SchoolID {
		return false
	}
	if qf.TeacherID != "" && c.TeacherID != qf.TeacherID {
		return false
	}
	if qf.StudentID != "" && !c.HasStudent(qf.StudentID) {
		return false
	}
	if qf.Search != "" && !(core.ContainsFold(c.Name, qf.Search) || core.ContainsFold(c.Subject, qf.Search)) {
		return false
	}
	return true
}

func (c ClassGroup) MarshalJSON() ([]byte, error) {
	type alias ClassGroup
	return json.Marshal(struct {
		alias
		StudentsCount int `json:"students_count"`
	}{alias(c), c.StudentsCount()})
}
