package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core/attendance"
	"github.com/trezcool/schooldash/core/school"
)

type attendanceApi struct {
	svc       *attendance.Service
	schoolSvc *school.Service
}

func registerAttendanceAPI(classGroup *echo.Group, deps ServerDeps) {
	api := attendanceApi{svc: deps.AttendanceSvc, schoolSvc: deps.SchoolSvc}

	ag := classGroup.Group("/attendance", staffOnly)
	ag.GET("", api.records)
	ag.GET("/summary", api.summary)

	sg := ag.Group("/:date")
	sg.POST("", api.open)
	sg.GET("", api.session)
	sg.POST("/students/:studentID/toggle", api.toggle)
	sg.POST("/commit", api.commit)
}

type SessionResponse struct {
	attendance.Session
	Counts map[attendance.Status]int `json:"counts"`
}

func newSessionResponse(sess attendance.Session) SessionResponse {
	return SessionResponse{Session: sess, Counts: sess.Counts()}
}

// open (re)starts the meeting's roll call with every student PRESENT.
func (api *attendanceApi) open(ctx echo.Context) error {
	sess, err := api.svc.Open(ctx.Request().Context(), getContextClass(ctx).ID, ctx.Param("date"))
	if err != nil {
		return errors.Wrap(err, "opening attendance session")
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *attendanceApi) session(ctx echo.Context) error {
	sess, err := api.svc.Session(ctx.Request().Context(), getContextClass(ctx).ID, ctx.Param("date"))
	if err != nil {
		return errors.Wrap(err, "getting attendance session")
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *attendanceApi) toggle(ctx echo.Context) error {
	sess, err := api.svc.Toggle(ctx.Request().Context(), getContextClass(ctx).ID, ctx.Param("date"), ctx.Param("studentID"))
	if err != nil {
		return errors.Wrap(err, "toggling attendance")
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *attendanceApi) commit(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Commit(ctx.Request().Context(), getContextClass(ctx).ID, ctx.Param("date"), usr.ID)
	if err != nil {
		return errors.Wrap(err, "committing attendance")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) records(ctx echo.Context) error {
	recs, err := api.svc.Records(ctx.Request().Context(), getContextClass(ctx).ID)
	if err != nil {
		return errors.Wrap(err, "listing attendance records")
	}
	return ctx.JSON(http.StatusOK, recs)
}

// summary rates every student of the class under the school's attendance rules.
func (api *attendanceApi) summary(ctx echo.Context) error {
	c := getContextClass(ctx)
	sch, err := api.schoolSvc.Get(ctx.Request().Context(), c.SchoolID)
	if err != nil {
		return errors.Wrap(err, "getting school")
	}
	sums, err := api.svc.Summary(ctx.Request().Context(), c.ID, sch.Config.AttendanceRules())
	if err != nil {
		return errors.Wrap(err, "summarizing attendance")
	}
	return ctx.JSON(http.StatusOK, sums)
}
