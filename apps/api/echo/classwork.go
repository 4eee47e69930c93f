package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core/classwork"
	"github.com/trezcool/schooldash/core/school"
)

type classworkApi struct {
	svc *classwork.Service
}

func registerClassworkAPI(classGroup *echo.Group, deps ServerDeps) {
	api := classworkApi{svc: deps.ClassworkSvc}

	classGroup.GET("/contents", api.contents, studentAccessMiddleware(deps.SchoolSvc, school.AccessViewContent))
	classGroup.POST("/contents", api.addContent, staffOnly)
	classGroup.GET("/tasks", api.tasks, studentAccessMiddleware(deps.SchoolSvc, school.AccessViewTasks))
	classGroup.POST("/tasks", api.addTask, staffOnly)
}

func (api *classworkApi) contents(ctx echo.Context) error {
	cs, err := api.svc.Contents(ctx.Request().Context(), getContextClass(ctx).ID)
	if err != nil {
		return errors.Wrap(err, "listing contents")
	}
	return ctx.JSON(http.StatusOK, cs)
}

func (api *classworkApi) addContent(ctx echo.Context) error {
	var data classwork.NewContent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewContent")
	}
	c, err := api.svc.AddContent(ctx.Request().Context(), getContextClass(ctx).ID, data)
	if err != nil {
		return errors.Wrap(err, "adding content")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *classworkApi) tasks(ctx echo.Context) error {
	ts, err := api.svc.Tasks(ctx.Request().Context(), getContextClass(ctx).ID)
	if err != nil {
		return errors.Wrap(err, "listing tasks")
	}
	return ctx.JSON(http.StatusOK, ts)
}

func (api *classworkApi) addTask(ctx echo.Context) error {
	var data classwork.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	t, err := api.svc.AddTask(ctx.Request().Context(), getContextClass(ctx).ID, data)
	if err != nil {
		return errors.Wrap(err, "adding task")
	}
	return ctx.JSON(http.StatusCreated, t)
}
