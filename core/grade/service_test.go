package grade_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/grade"
	"github.com/trezcool/schooldash/core/school"
	testutil "github.com/trezcool/schooldash/tests"
)

func fptr(f float64) *float64 { return &f }

func TestService_SetGrade(t *testing.T) {
	deps := testutil.PrepareDeps()
	svc := deps.GradeSvc
	ctx := context.Background()

	tests := []struct {
		name      string
		data      grade.SetGrade
		wantErr   bool
		wantValue float64
	}{
		{name: "missing value", data: grade.SetGrade{StudentID: "st1", AssessmentID: "a1"}, wantErr: true},
		{name: "negative", data: grade.SetGrade{StudentID: "st1", AssessmentID: "a1", Value: fptr(-1)}, wantErr: true},
		{name: "above max score", data: grade.SetGrade{StudentID: "st1", AssessmentID: "a1", Value: fptr(10.5)}, wantErr: true},
		{name: "zero", data: grade.SetGrade{StudentID: "st1", AssessmentID: "a1", Value: fptr(0)}, wantValue: 0},
		{name: "replace", data: grade.SetGrade{StudentID: "st1", AssessmentID: "a1", Value: fptr(9.5)}, wantValue: 9.5},
		{name: "unknown assessment is unbounded", data: grade.SetGrade{StudentID: "st1", AssessmentID: "zz", Value: fptr(42)}, wantValue: 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := svc.SetGrade(ctx, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, rec.Value)
		})
	}

	sheet, err := svc.ClassSheet(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 9.5, sheet.Rows[0].Grades["a1"])
}

func TestService_CreateAssessment(t *testing.T) {
	deps := testutil.PrepareDeps()
	svc := deps.GradeSvc
	ctx := context.Background()

	a, err := svc.CreateAssessment(ctx, "c2", grade.NewAssessment{Name: " Quiz ", Date: "2024-05-10"})
	require.NoError(t, err)
	assert.Equal(t, "Quiz", a.Name)
	assert.Equal(t, float64(10), a.MaxScore)
	assert.Equal(t, float64(1), a.Weight)

	_, err = svc.CreateAssessment(ctx, "nope", grade.NewAssessment{Name: "Quiz", Date: "2024-05-10"})
	assert.True(t, core.IsNotFound(err))

	_, err = svc.CreateAssessment(ctx, "c2", grade.NewAssessment{Name: "Quiz", Date: "tomorrow"})
	var vErrs validator.ValidationErrors
	require.True(t, errors.As(err, &vErrs))

	as, err := svc.Assessments(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, as, 1)
}

func TestService_ClassSheet(t *testing.T) {
	deps := testutil.PrepareDeps()
	svc := deps.GradeSvc
	ctx := context.Background()

	sheet, err := svc.ClassSheet(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, sheet.Assessments, 3)
	require.Len(t, sheet.Rows, 15)

	st1 := sheet.Rows[0]
	assert.Equal(t, "st1", st1.Student.ID)
	assert.Equal(t, map[string]float64{"a1": 8, "a2": 9, "a3": 10}, st1.Grades)
	require.NotNil(t, st1.Average)
	assert.InDelta(t, 9.3, *st1.Average, 1e-9)

	// no assessments, no averages
	sheet, err = svc.ClassSheet(ctx, "c4")
	require.NoError(t, err)
	assert.Empty(t, sheet.Assessments)
	for _, row := range sheet.Rows {
		assert.Nil(t, row.Average)
		assert.Empty(t, row.Grades)
	}

	_, err = svc.ClassSheet(ctx, "nope")
	assert.True(t, core.IsNotFound(err))
}

func TestService_ReportCard(t *testing.T) {
	deps := testutil.PrepareDeps()
	svc := deps.GradeSvc
	ctx := context.Background()

	st, err := deps.SchoolSvc.GetStudent(ctx, "st2")
	require.NoError(t, err)
	sch, err := deps.SchoolSvc.Get(ctx, "s1")
	require.NoError(t, err)

	card, err := svc.ReportCard(ctx, st, sch, true)
	require.NoError(t, err)
	require.Len(t, card.Lines, 3) // c1, c2, c4

	math := card.Lines[0]
	assert.Equal(t, "c1", math.ClassID)
	require.NotNil(t, math.Average)
	assert.InDelta(t, 6.3, *math.Average, 1e-9)
	require.NotNil(t, math.Attendance)
	assert.Equal(t, float64(100), *math.Attendance)
	assert.Equal(t, grade.StatusApproved, math.Status)
	assert.Len(t, math.Grades, 3)
	assert.Empty(t, math.Concept)

	assert.Equal(t, grade.StatusPending, card.Lines[1].Status)
	assert.Nil(t, card.Lines[1].Average)

	// missing every meeting fails the class
	_, err = deps.AttendanceSvc.Open(ctx, "c1", "2024-05-16")
	require.NoError(t, err)
	_, err = deps.AttendanceSvc.Toggle(ctx, "c1", "2024-05-16", "st2")
	require.NoError(t, err)
	_, err = deps.AttendanceSvc.Commit(ctx, "c1", "2024-05-16", "u2")
	require.NoError(t, err)

	card, err = svc.ReportCard(ctx, st, sch, true)
	require.NoError(t, err)
	assert.Equal(t, float64(0), *card.Lines[0].Attendance)
	assert.Equal(t, grade.StatusFailed, card.Lines[0].Status)
}

func TestService_ReportCard_StudentAccess(t *testing.T) {
	deps := testutil.PrepareDeps()
	svc := deps.GradeSvc
	ctx := context.Background()

	st, err := deps.SchoolSvc.GetStudent(ctx, "st1")
	require.NoError(t, err)
	sch, err := deps.SchoolSvc.Get(ctx, "s1")
	require.NoError(t, err)

	sch.Config.StudentAccess.ViewAttendance = false
	card, err := svc.ReportCard(ctx, st, sch, true)
	require.NoError(t, err)
	assert.Nil(t, card.Lines[0].Attendance)
	assert.NotNil(t, card.Lines[0].Average)

	sch.Config.StudentAccess.ViewGrades = false
	_, err = svc.ReportCard(ctx, st, sch, true)
	assert.Equal(t, grade.ErrAccessDenied, err)

	// staff always see everything
	card, err = svc.ReportCard(ctx, st, sch, false)
	require.NoError(t, err)
	assert.NotNil(t, card.Lines[0].Attendance)

	sch.Config.StudentAccess = school.StudentAccess{Enabled: true, ViewGrades: true}
	sch.Config.GradingScale = school.ScaleConcept
	card, err = svc.ReportCard(ctx, st, sch, true)
	require.NoError(t, err)
	assert.Equal(t, "A", card.Lines[0].Concept)
}

func TestService_SchoolReport(t *testing.T) {
	deps := testutil.PrepareDeps()
	svc := deps.GradeSvc
	ctx := context.Background()

	sch, err := deps.SchoolSvc.Get(ctx, "s1")
	require.NoError(t, err)

	report, err := svc.SchoolReport(ctx, sch)
	require.NoError(t, err)
	require.Len(t, report.Classes, 5)

	math := report.Classes[0]
	assert.Equal(t, "c1", math.ClassID)
	assert.Equal(t, 15, math.Students)
	require.NotNil(t, math.Average)
	assert.InDelta(t, 7.9, *math.Average, 1e-9)
	require.NotNil(t, math.ApprovalRate)
	assert.Equal(t, float64(100), *math.ApprovalRate)
	assert.Equal(t, map[grade.Status]int{grade.StatusApproved: 15}, math.Statuses)
	assert.Equal(t, float64(100), math.Attendance)

	assert.Nil(t, report.Classes[1].Average, "nothing graded in c2")
	assert.Equal(t, map[grade.Status]int{grade.StatusPending: 10}, report.Classes[1].Statuses)

	counts := make(map[string]int)
	for _, b := range report.Distribution {
		counts[b.Label] = b.Count
	}
	assert.Equal(t, map[string]int{"EXCELLENT": 8, "GOOD": 0, "REGULAR": 7, "CRITICAL": 0}, counts)
	assert.Empty(t, report.MonthlyAttendance)
	assert.Empty(t, report.AtRisk)

	// a failed exam sends st2 to recovery in c1
	_, err = svc.SetGrade(ctx, grade.SetGrade{StudentID: "st2", AssessmentID: "a3", Value: fptr(0)})
	require.NoError(t, err)
	// st3 misses the only c2 meeting
	_, err = deps.AttendanceSvc.Open(ctx, "c2", "2024-05-16")
	require.NoError(t, err)
	_, err = deps.AttendanceSvc.Toggle(ctx, "c2", "2024-05-16", "st3")
	require.NoError(t, err)
	_, err = deps.AttendanceSvc.Commit(ctx, "c2", "2024-05-16", "u2")
	require.NoError(t, err)

	report, err = svc.SchoolReport(ctx, sch)
	require.NoError(t, err)

	math = report.Classes[0]
	assert.InDelta(t, 7.7, *math.Average, 1e-9)
	assert.InDelta(t, 93.3, *math.ApprovalRate, 1e-9)
	assert.Equal(t, map[grade.Status]int{grade.StatusApproved: 14, grade.StatusRecovery: 1}, math.Statuses)
	assert.Equal(t, float64(90), report.Classes[1].Attendance)

	require.Len(t, report.MonthlyAttendance, 1)
	assert.Equal(t, grade.MonthlyAttendance{Month: "2024-05", Marks: 10, Absences: 1, Rate: 90}, report.MonthlyAttendance[0])

	require.Len(t, report.AtRisk, 2)
	recovery, absent := report.AtRisk[0], report.AtRisk[1]
	assert.Equal(t, "st2", recovery.Student.ID)
	assert.Equal(t, "c1", recovery.ClassID)
	assert.Equal(t, grade.StatusRecovery, recovery.Status)
	require.NotNil(t, recovery.Average)
	assert.InDelta(t, 2.8, *recovery.Average, 1e-9)

	assert.Equal(t, "st3", absent.Student.ID)
	assert.Equal(t, "c2", absent.ClassID)
	assert.Equal(t, grade.StatusPending, absent.Status)
	assert.True(t, absent.BelowMinimum)
	assert.Equal(t, float64(0), absent.Attendance)
	assert.Nil(t, absent.Average)
}
