package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/school"
)

type schoolApi struct {
	svc   *school.Service
	today func() string
}

func registerSchoolAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := schoolApi{svc: deps.SchoolSvc, today: deps.CalendarSvc.Today}

	sg := g.Group("/school", authed...)
	sg.GET("", api.retrieve)
	sg.PUT("/config", api.updateConfig, adminOnly)
	sg.POST("/access/:key/toggle", api.toggleAccess, adminOnly)

	pg := sg.Group("/periods")
	pg.GET("", api.periods)
	pg.GET("/current", api.currentPeriod)
	pg.POST("", api.addPeriod, adminOnly)

	dg := pg.Group("/:id", adminOnly, api.periodMiddleware)
	dg.PUT("", api.updatePeriod)
	dg.POST("/close", api.closePeriod)
	dg.DELETE("", api.removePeriod)
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	sch, err := api.svc.Get(ctx.Request().Context(), usr.SchoolID)
	if err != nil {
		return errors.Wrap(err, "getting school")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) updateConfig(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data school.Config
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Config")
	}
	sch, err := api.svc.UpdateConfig(ctx.Request().Context(), usr.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "updating config")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) toggleAccess(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	sch, err := api.svc.ToggleStudentAccess(ctx.Request().Context(), usr.SchoolID, school.AccessKey(ctx.Param("key")))
	if err != nil {
		return errors.Wrap(err, "toggling student access")
	}
	return ctx.JSON(http.StatusOK, sch.Config.StudentAccess)
}

// Periods

const contextPeriodKey = "period"

// periodMiddleware loads the ":id" period of the user's school into the context.
func (api *schoolApi) periodMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, err := getContextUser(ctx)
		if err != nil {
			return err
		}
		p, err := api.svc.GetPeriod(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			if core.IsNotFound(err) {
				return errHttpNotFound
			}
			return errors.Wrap(err, "getting period")
		}
		if p.SchoolID != usr.SchoolID {
			return errHttpNotFound
		}
		ctx.Set(contextPeriodKey, p)
		return next(ctx)
	}
}

func (api *schoolApi) periods(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	periods, err := api.svc.Periods(ctx.Request().Context(), usr.SchoolID)
	if err != nil {
		return errors.Wrap(err, "listing periods")
	}
	return ctx.JSON(http.StatusOK, periods)
}

func (api *schoolApi) currentPeriod(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	date := ctx.QueryParam("date")
	if date == "" {
		date = api.today()
	}
	p, ok, err := api.svc.CurrentPeriod(ctx.Request().Context(), usr.SchoolID, date)
	if err != nil {
		return errors.Wrap(err, "getting current period")
	}
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *schoolApi) addPeriod(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	p, err := api.svc.AddPeriod(ctx.Request().Context(), usr.SchoolID)
	if err != nil {
		return errors.Wrap(err, "adding period")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *schoolApi) updatePeriod(ctx echo.Context) error {
	var data school.UpdatePeriod
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePeriod")
	}
	p, err := api.svc.UpdatePeriod(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating period")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *schoolApi) closePeriod(ctx echo.Context) error {
	p, err := api.svc.ClosePeriod(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "closing period")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *schoolApi) removePeriod(ctx echo.Context) error {
	if err := api.svc.RemovePeriod(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "removing period")
	}
	return ctx.NoContent(http.StatusNoContent)
}
