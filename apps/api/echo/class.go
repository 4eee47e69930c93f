package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/school"
	"github.com/trezcool/schooldash/core/user"
)

type classApi struct {
	svc *school.Service
}

// registerClassAPI mounts every class scoped endpoint: roster, grades, attendance & classwork.
func registerClassAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := classApi{svc: deps.SchoolSvc}

	cg := g.Group("/classes", authed...)
	cg.GET("", api.query)

	dg := cg.Group("/:id", classMiddleware(deps.SchoolSvc))
	dg.GET("", api.retrieve)
	dg.GET("/students", api.roster, staffOnly)

	registerGradeAPI(g, dg, authed, deps)
	registerAttendanceAPI(dg, deps)
	registerClassworkAPI(dg, deps)
}

// query lists the classes the user works with: ?search=&teacher_id=
// Admins see every class of the school, professors the ones they teach & students the ones they attend.
func (api *classApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var filter school.ClassQueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []school.ClassGroup{})
	}
	filter.Clean()
	filter.SchoolID = usr.SchoolID

	switch usr.Role {
	case user.RoleProfessor:
		filter.TeacherID = usr.ID
	case user.RoleStudent:
		st, err := api.svc.StudentForUser(ctx.Request().Context(), usr.ID)
		if err != nil {
			if core.IsNotFound(err) {
				return ctx.JSON(http.StatusOK, []school.ClassGroup{})
			}
			return errors.Wrap(err, "getting student")
		}
		filter.StudentID = st.ID
	}

	classes, err := api.svc.QueryClasses(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, getContextClass(ctx))
}

func (api *classApi) roster(ctx echo.Context) error {
	students, err := api.svc.ClassRoster(ctx.Request().Context(), getContextClass(ctx).ID)
	if err != nil {
		return errors.Wrap(err, "getting class roster")
	}
	return ctx.JSON(http.StatusOK, students)
}
