package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/calendar"
	"github.com/trezcool/schooldash/core/classwork"
	"github.com/trezcool/schooldash/core/grade"
	"github.com/trezcool/schooldash/core/school"
	"github.com/trezcool/schooldash/core/user"
)

type dashboardApi struct {
	deps ServerDeps
}

func registerDashboardAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := dashboardApi{deps: deps}
	g.GET("/dashboard", api.summary, authed...)
}

type (
	AdminCounters struct {
		Users      int `json:"users"`
		Professors int `json:"professors"`
		Students   int `json:"students"`
		Classes    int `json:"classes"`
	}

	ProfessorCounters struct {
		Classes      []school.ClassGroup `json:"classes"`
		Students     int                 `json:"students"`
		PendingTasks []classwork.Task    `json:"pending_tasks"`
	}

	StudentCounters struct {
		Classes      []school.ClassGroup `json:"classes"`
		PendingTasks []classwork.Task    `json:"pending_tasks,omitempty"`
		ReportCard   *grade.ReportCard   `json:"report_card,omitempty"`
	}

	Dashboard struct {
		User          user.User              `json:"user"`
		School        school.School          `json:"school"`
		Today         string                 `json:"today"`
		CurrentPeriod *school.AcademicPeriod `json:"current_period,omitempty"`
		Upcoming      []calendar.Event       `json:"upcoming"`
		InboxCount    int                    `json:"inbox_count"`

		Admin     *AdminCounters     `json:"admin,omitempty"`
		Professor *ProfessorCounters `json:"professor,omitempty"`
		Student   *StudentCounters   `json:"student,omitempty"`
	}
)

// summary serves the landing page of the user's role.
func (api *dashboardApi) summary(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	sch, err := api.deps.SchoolSvc.Get(reqCtx, usr.SchoolID)
	if err != nil {
		return errors.Wrap(err, "getting school")
	}
	d := Dashboard{User: usr, School: sch, Today: api.deps.CalendarSvc.Today()}

	if p, ok, err := api.deps.SchoolSvc.CurrentPeriod(reqCtx, sch.ID, d.Today); err != nil {
		return errors.Wrap(err, "getting current period")
	} else if ok {
		d.CurrentPeriod = &p
	}
	if d.Upcoming, err = api.deps.CalendarSvc.Upcoming(reqCtx, sch.ID, 0); err != nil {
		return errors.Wrap(err, "listing upcoming events")
	}
	if d.InboxCount, err = api.deps.AnnouncementSvc.CountInbox(reqCtx, usr); err != nil {
		return errors.Wrap(err, "counting inbox")
	}

	switch usr.Role {
	case user.RoleAdmin:
		d.Admin, err = api.adminCounters(ctx, sch)
	case user.RoleProfessor:
		d.Professor, err = api.professorCounters(ctx, usr)
	case user.RoleStudent:
		d.Student, err = api.studentCounters(ctx, usr, sch)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *dashboardApi) adminCounters(ctx echo.Context, sch school.School) (*AdminCounters, error) {
	reqCtx := ctx.Request().Context()
	var c AdminCounters
	var err error

	if c.Users, err = api.deps.UserSvc.Count(reqCtx, sch.ID); err != nil {
		return nil, errors.Wrap(err, "counting users")
	}
	if c.Professors, err = api.deps.UserSvc.Count(reqCtx, sch.ID, user.RoleProfessor); err != nil {
		return nil, errors.Wrap(err, "counting professors")
	}
	if c.Students, err = api.deps.UserSvc.Count(reqCtx, sch.ID, user.RoleStudent); err != nil {
		return nil, errors.Wrap(err, "counting students")
	}
	classes, err := api.deps.SchoolSvc.QueryClasses(reqCtx, school.ClassQueryFilter{SchoolID: sch.ID})
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	c.Classes = len(classes)
	return &c, nil
}

func (api *dashboardApi) professorCounters(ctx echo.Context, usr user.User) (*ProfessorCounters, error) {
	reqCtx := ctx.Request().Context()

	classes, err := api.deps.SchoolSvc.QueryClasses(reqCtx, school.ClassQueryFilter{SchoolID: usr.SchoolID, TeacherID: usr.ID})
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	c := ProfessorCounters{Classes: classes}
	for _, cls := range classes {
		c.Students += cls.StudentsCount()
	}
	if c.PendingTasks, err = api.deps.ClassworkSvc.PendingTasks(reqCtx, classIDs(classes)...); err != nil {
		return nil, errors.Wrap(err, "listing pending tasks")
	}
	return &c, nil
}

// studentCounters honors the school's StudentAccess switches: a disabled portal shows only the classes.
func (api *dashboardApi) studentCounters(ctx echo.Context, usr user.User, sch school.School) (*StudentCounters, error) {
	reqCtx := ctx.Request().Context()

	st, err := api.deps.SchoolSvc.StudentForUser(reqCtx, usr.ID)
	if err != nil {
		if core.IsNotFound(err) {
			return &StudentCounters{Classes: []school.ClassGroup{}}, nil
		}
		return nil, errors.Wrap(err, "getting student")
	}
	classes, err := api.deps.SchoolSvc.QueryClasses(reqCtx, school.ClassQueryFilter{SchoolID: sch.ID, StudentID: st.ID})
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	c := StudentCounters{Classes: classes}

	access := sch.Config.StudentAccess
	if access.Allows(school.AccessViewTasks) {
		if c.PendingTasks, err = api.deps.ClassworkSvc.PendingTasks(reqCtx, classIDs(classes)...); err != nil {
			return nil, errors.Wrap(err, "listing pending tasks")
		}
	}
	if access.Allows(school.AccessViewGrades) || access.Allows(school.AccessViewAttendance) {
		card, err := api.deps.GradeSvc.ReportCard(reqCtx, st, sch, true)
		if err != nil {
			return nil, errors.Wrap(err, "building report card")
		}
		c.ReportCard = &card
	}
	return &c, nil
}

func classIDs(classes []school.ClassGroup) []string {
	ids := make([]string, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return ids
}
