package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/grade"
	"github.com/trezcool/schooldash/core/school"
)

type gradeApi struct {
	svc       *grade.Service
	schoolSvc *school.Service
}

func registerGradeAPI(g, classGroup *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := gradeApi{svc: deps.GradeSvc, schoolSvc: deps.SchoolSvc}

	classGroup.GET("/assessments", api.assessments, staffOnly)
	classGroup.POST("/assessments", api.createAssessment, staffOnly)
	classGroup.GET("/grades", api.sheet, staffOnly)
	classGroup.PUT("/grades", api.setGrade, staffOnly)

	g.GET("/report-card", api.reportCard, authed...)

	rg := g.Group("/reports", authed...)
	rg.GET("", api.schoolReport, adminOnly)
}

func (api *gradeApi) assessments(ctx echo.Context) error {
	as, err := api.svc.Assessments(ctx.Request().Context(), getContextClass(ctx).ID)
	if err != nil {
		return errors.Wrap(err, "listing assessments")
	}
	return ctx.JSON(http.StatusOK, as)
}

func (api *gradeApi) createAssessment(ctx echo.Context) error {
	var data grade.NewAssessment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssessment")
	}
	a, err := api.svc.CreateAssessment(ctx.Request().Context(), getContextClass(ctx).ID, data)
	if err != nil {
		return errors.Wrap(err, "creating assessment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *gradeApi) sheet(ctx echo.Context) error {
	sheet, err := api.svc.ClassSheet(ctx.Request().Context(), getContextClass(ctx).ID)
	if err != nil {
		return errors.Wrap(err, "building grade sheet")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

// setGrade records one grade of the class: both the student & the assessment must belong to it.
func (api *gradeApi) setGrade(ctx echo.Context) error {
	c := getContextClass(ctx)

	var data grade.SetGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetGrade")
	}
	if data.StudentID != "" && !c.HasStudent(data.StudentID) {
		return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "student not in class"})
	}
	if data.AssessmentID != "" {
		as, err := api.svc.Assessments(ctx.Request().Context(), c.ID)
		if err != nil {
			return errors.Wrap(err, "listing assessments")
		}
		var found bool
		for _, a := range as {
			if a.ID == data.AssessmentID {
				found = true
				break
			}
		}
		if !found {
			return core.NewValidationError(nil, core.FieldError{Field: "assessment_id", Error: "assessment not in class"})
		}
	}

	rec, err := api.svc.SetGrade(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "setting grade")
	}
	return ctx.JSON(http.StatusOK, rec)
}

// reportCard serves the student's own card, or the ?student_id= card to staff.
func (api *gradeApi) reportCard(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	var st school.Student
	if usr.IsStudent() {
		st, err = api.schoolSvc.StudentForUser(reqCtx, usr.ID)
	} else {
		st, err = api.schoolSvc.GetStudent(reqCtx, ctx.QueryParam("student_id"))
	}
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	if st.SchoolID != usr.SchoolID {
		return errHttpNotFound
	}

	sch, err := api.schoolSvc.Get(reqCtx, usr.SchoolID)
	if err != nil {
		return errors.Wrap(err, "getting school")
	}
	card, err := api.svc.ReportCard(reqCtx, st, sch, usr.IsStudent())
	if err != nil {
		return errors.Wrap(err, "building report card")
	}
	return ctx.JSON(http.StatusOK, card)
}

// schoolReport serves the school wide performance, attendance & at-risk report.
func (api *gradeApi) schoolReport(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	sch, err := api.schoolSvc.Get(ctx.Request().Context(), usr.SchoolID)
	if err != nil {
		return errors.Wrap(err, "getting school")
	}
	report, err := api.svc.SchoolReport(ctx.Request().Context(), sch)
	if err != nil {
		return errors.Wrap(err, "building school report")
	}
	return ctx.JSON(http.StatusOK, report)
}
