package grade

import (
	"context"
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core/attendance"
	"github.com/trezcool/schooldash/core/school"
)

// GradeBand is one bar of the grade distribution: averages in [Min, next band's Min).
type GradeBand struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Count int     `json:"count"`
}

// newGradeBands returns the bands from the highest down.
func newGradeBands() []GradeBand {
	return []GradeBand{
		{Label: "EXCELLENT", Min: 9},
		{Label: "GOOD", Min: 7},
		{Label: "REGULAR", Min: 5},
		{Label: "CRITICAL", Min: 0},
	}
}

type (
	ClassPerformance struct {
		ClassID    string   `json:"class_id"`
		ClassName  string   `json:"class_name"`
		Subject    string   `json:"subject"`
		Students   int      `json:"students"`
		Average    *float64 `json:"average"`    // mean of the graded students' averages
		Attendance float64  `json:"attendance"` // mean attendance rate
		// ApprovalRate is the share of graded students that are APPROVED, as a percentage.
		ApprovalRate *float64       `json:"approval_rate"`
		Statuses     map[Status]int `json:"statuses"`
	}

	MonthlyAttendance struct {
		Month    string  `json:"month"` // YYYY-MM
		Marks    int     `json:"marks"`
		Absences int     `json:"absences"`
		Rate     float64 `json:"rate"`
	}

	AtRiskStudent struct {
		Student      school.Student `json:"student"`
		ClassID      string         `json:"class_id"`
		ClassName    string         `json:"class_name"`
		Average      *float64       `json:"average"`
		Attendance   float64        `json:"attendance"`
		BelowMinimum bool           `json:"below_minimum"`
		Status       Status         `json:"status"`
	}

	SchoolReport struct {
		Classes           []ClassPerformance  `json:"classes"`
		Distribution      []GradeBand         `json:"distribution"`
		MonthlyAttendance []MonthlyAttendance `json:"monthly_attendance"`
		AtRisk            []AtRiskStudent     `json:"at_risk"`
	}
)

func round1(f float64) float64 { return math.Round(f*10) / 10 }

// SchoolReport aggregates every class of the school: class performance, the distribution of
// student averages, attendance per month & the students at risk.
// A student is at risk in a class when failing or in recovery, or when below the minimum attendance.
func (svc *Service) SchoolReport(ctx context.Context, sch school.School) (SchoolReport, error) {
	classes, err := svc.classes.QueryClasses(ctx, school.ClassQueryFilter{SchoolID: sch.ID})
	if err != nil {
		return SchoolReport{}, errors.Wrap(err, "querying classes")
	}
	rules := sch.Config.AttendanceRules()

	report := SchoolReport{
		Classes:      make([]ClassPerformance, 0, len(classes)),
		Distribution: newGradeBands(),
		AtRisk:       []AtRiskStudent{},
	}
	months := make(map[string]*MonthlyAttendance)

	for _, c := range classes {
		students, err := svc.classes.ClassRoster(ctx, c.ID)
		if err != nil {
			return SchoolReport{}, errors.Wrap(err, "getting class roster")
		}
		as, err := svc.Assessments(ctx, c.ID)
		if err != nil {
			return SchoolReport{}, err
		}
		byStudent, err := svc.gradesByStudent(ctx, as)
		if err != nil {
			return SchoolReport{}, err
		}
		sums, err := svc.attendance.Summary(ctx, c.ID, rules)
		if err != nil {
			return SchoolReport{}, errors.Wrap(err, "summarizing attendance")
		}
		sumByStudent := make(map[string]attendance.StudentSummary, len(sums))
		for _, sum := range sums {
			sumByStudent[sum.StudentID] = sum
		}

		perf := ClassPerformance{
			ClassID:   c.ID,
			ClassName: c.Name,
			Subject:   c.Subject,
			Students:  len(students),
			Statuses:  make(map[Status]int),
		}
		var avgSum, rateSum float64
		var graded, approved int
		for _, st := range students {
			sum, ok := sumByStudent[st.ID]
			if !ok {
				sum = attendance.StudentSummary{StudentID: st.ID, Rate: attendance.Rate(0, 0)}
			}
			rateSum += sum.Rate

			status := StatusPending
			var avgPtr *float64
			if avg, ok := WeightedAverage(as, byStudent[st.ID]); ok {
				avgPtr = &avg
				status = Decide(avg, sum.Rate, sch.Config)
				avgSum += avg
				graded++
				if status == StatusApproved {
					approved++
				}
				for i := range report.Distribution {
					if avg >= report.Distribution[i].Min {
						report.Distribution[i].Count++
						break
					}
				}
			}
			perf.Statuses[status]++

			if status == StatusFailed || status == StatusRecovery || sum.BelowMinimum {
				report.AtRisk = append(report.AtRisk, AtRiskStudent{
					Student:      st,
					ClassID:      c.ID,
					ClassName:    c.Name,
					Average:      avgPtr,
					Attendance:   sum.Rate,
					BelowMinimum: sum.BelowMinimum,
					Status:       status,
				})
			}
		}
		if len(students) > 0 {
			perf.Attendance = round1(rateSum / float64(len(students)))
		} else {
			perf.Attendance = attendance.Rate(0, 0)
		}
		if graded > 0 {
			avg := round1(avgSum / float64(graded))
			rate := round1(float64(approved) * 100 / float64(graded))
			perf.Average, perf.ApprovalRate = &avg, &rate
		}
		report.Classes = append(report.Classes, perf)

		recs, err := svc.attendance.Records(ctx, c.ID)
		if err != nil {
			return SchoolReport{}, errors.Wrap(err, "listing attendance")
		}
		for _, rec := range recs {
			if len(rec.Date) < len("YYYY-MM") {
				continue
			}
			key := rec.Date[:len("YYYY-MM")]
			m, ok := months[key]
			if !ok {
				m = &MonthlyAttendance{Month: key}
				months[key] = m
			}
			for _, status := range rec.Statuses {
				m.Marks++
				if rules.IsAbsence(status) {
					m.Absences++
				}
			}
		}
	}

	report.MonthlyAttendance = make([]MonthlyAttendance, 0, len(months))
	for _, m := range months {
		m.Rate = round1(attendance.Rate(m.Marks, m.Absences))
		report.MonthlyAttendance = append(report.MonthlyAttendance, *m)
	}
	sort.Slice(report.MonthlyAttendance, func(i, j int) bool {
		return report.MonthlyAttendance[i].Month < report.MonthlyAttendance[j].Month
	})
	return report, nil
}
