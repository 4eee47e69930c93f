package grade

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/attendance"
	"github.com/trezcool/schooldash/core/school"
)

var (
	// errors
	ErrAssessmentNotFound = core.NewNotFoundError("assessment")
	ErrAccessDenied       = errors.New("grades are not available on the student portal")
)

type (
	Repository interface {
		ListAssessments(ctx context.Context, classID string) ([]Assessment, error)
		GetAssessment(ctx context.Context, id string) (Assessment, error)
		AddAssessment(ctx context.Context, a Assessment) (Assessment, error)

		ListGrades(ctx context.Context, assessmentIDs ...string) ([]Record, error)
		// SaveGrade replaces any grade of the same (student, assessment) pair.
		SaveGrade(ctx context.Context, rec Record) (Record, error)
	}

	Classes interface {
		QueryClasses(ctx context.Context, filter school.ClassQueryFilter) ([]school.ClassGroup, error)
		GetClass(ctx context.Context, id string) (school.ClassGroup, error)
		ClassRoster(ctx context.Context, classID string) ([]school.Student, error)
	}

	AttendanceRates interface {
		StudentRate(ctx context.Context, classID, studentID string, rules attendance.Rules) (attendance.StudentSummary, error)
		Summary(ctx context.Context, classID string, rules attendance.Rules) ([]attendance.StudentSummary, error)
		Records(ctx context.Context, classID string) ([]attendance.Record, error)
	}

	Service struct {
		repo       Repository
		classes    Classes
		attendance AttendanceRates
		validate   *validator.Validate
	}
)

func NewService(repo Repository, classes Classes, att AttendanceRates, validate *validator.Validate) *Service {
	return &Service{
		repo:       repo,
		classes:    classes,
		attendance: att,
		validate:   validate,
	}
}

func (svc *Service) Assessments(ctx context.Context, classID string) ([]Assessment, error) {
	as, err := svc.repo.ListAssessments(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "listing assessments")
	}
	sort.SliceStable(as, func(i, j int) bool { return as[i].Date < as[j].Date })
	return as, nil
}

func (svc *Service) CreateAssessment(ctx context.Context, classID string, na NewAssessment) (Assessment, error) {
	if _, err := svc.classes.GetClass(ctx, classID); err != nil {
		return Assessment{}, err
	}
	if err := na.Validate(svc.validate); err != nil {
		return Assessment{}, err
	}
	return svc.repo.AddAssessment(ctx, Assessment{
		ID:       uuid.New().String(),
		ClassID:  classID,
		Name:     na.Name,
		Date:     na.Date,
		MaxScore: na.MaxScore,
		Weight:   na.Weight,
	})
}

// SetGrade records a grade. The value is bounded by the assessment's MaxScore when the assessment is known.
func (svc *Service) SetGrade(ctx context.Context, sg SetGrade) (Record, error) {
	if err := sg.Validate(svc.validate); err != nil {
		return Record{}, err
	}
	a, err := svc.repo.GetAssessment(ctx, sg.AssessmentID)
	switch {
	case err == nil:
		if *sg.Value > a.MaxScore {
			return Record{}, core.NewValidationError(nil, core.FieldError{Field: "value", Error: "value must not be greater than the assessment max score"})
		}
	case !core.IsNotFound(err):
		return Record{}, errors.Wrap(err, "getting assessment")
	}
	rec := Record{StudentID: sg.StudentID, AssessmentID: sg.AssessmentID, Value: *sg.Value}
	return svc.repo.SaveGrade(ctx, rec)
}

func (svc *Service) ClassSheet(ctx context.Context, classID string) (Sheet, error) {
	students, err := svc.classes.ClassRoster(ctx, classID)
	if err != nil {
		return Sheet{}, err
	}
	as, err := svc.Assessments(ctx, classID)
	if err != nil {
		return Sheet{}, err
	}
	byStudent, err := svc.gradesByStudent(ctx, as)
	if err != nil {
		return Sheet{}, err
	}

	rows := make([]SheetRow, 0, len(students))
	for _, st := range students {
		grades := byStudent[st.ID]
		if grades == nil {
			grades = map[string]float64{}
		}
		row := SheetRow{Student: st, Grades: grades}
		if avg, ok := WeightedAverage(as, grades); ok {
			row.Average = &avg
		}
		rows = append(rows, row)
	}
	return Sheet{ClassID: classID, Assessments: as, Rows: rows}, nil
}

func (svc *Service) gradesByStudent(ctx context.Context, as []Assessment) (map[string]map[string]float64, error) {
	ids := make([]string, 0, len(as))
	for _, a := range as {
		ids = append(ids, a.ID)
	}
	out := make(map[string]map[string]float64)
	if len(ids) == 0 {
		return out, nil
	}
	recs, err := svc.repo.ListGrades(ctx, ids...)
	if err != nil {
		return nil, errors.Wrap(err, "listing grades")
	}
	for _, r := range recs {
		if out[r.StudentID] == nil {
			out[r.StudentID] = make(map[string]float64)
		}
		out[r.StudentID][r.AssessmentID] = r.Value
	}
	return out, nil
}

// ReportCard summarizes a student's classes. When forStudent is set the school's
// StudentAccess rules hide grades or attendance, or deny the whole card.
func (svc *Service) ReportCard(ctx context.Context, st school.Student, sch school.School, forStudent bool) (ReportCard, error) {
	access := sch.Config.StudentAccess
	showGrades, showAttendance := true, true
	if forStudent {
		showGrades = access.Allows(school.AccessViewGrades)
		showAttendance = access.Allows(school.AccessViewAttendance)
		if !(showGrades || showAttendance) {
			return ReportCard{}, ErrAccessDenied
		}
	}

	classes, err := svc.classes.QueryClasses(ctx, school.ClassQueryFilter{SchoolID: sch.ID, StudentID: st.ID})
	if err != nil {
		return ReportCard{}, errors.Wrap(err, "querying classes")
	}

	rules := sch.Config.AttendanceRules()
	lines := make([]ReportLine, 0, len(classes))
	for _, c := range classes {
		as, err := svc.Assessments(ctx, c.ID)
		if err != nil {
			return ReportCard{}, err
		}
		byStudent, err := svc.gradesByStudent(ctx, as)
		if err != nil {
			return ReportCard{}, err
		}
		sum, err := svc.attendance.StudentRate(ctx, c.ID, st.ID, rules)
		if err != nil {
			return ReportCard{}, errors.Wrap(err, "getting attendance rate")
		}

		grades := byStudent[st.ID]
		avg, graded := WeightedAverage(as, grades)
		line := ReportLine{
			ClassID:   c.ID,
			ClassName: c.Name,
			Subject:   c.Subject,
			Status:    StatusPending,
		}
		if graded {
			line.Status = Decide(avg, sum.Rate, sch.Config)
		}
		if showGrades {
			for _, a := range as {
				rg := ReportGrade{AssessmentID: a.ID, Name: a.Name}
				if v, ok := grades[a.ID]; ok {
					v := v
					rg.Value = &v
				}
				line.Grades = append(line.Grades, rg)
			}
			if graded {
				line.Average = &avg
				if sch.Config.GradingScale == school.ScaleConcept {
					line.Concept = Concept(avg, sch.Config.PassingGrade)
				}
			}
		}
		if showAttendance {
			rate := sum.Rate
			line.Attendance = &rate
		}
		lines = append(lines, line)
	}
	return ReportCard{Student: st, Lines: lines}, nil
}
