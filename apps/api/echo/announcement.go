package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core/announcement"
)

type announcementApi struct {
	svc *announcement.Service
}

func registerAnnouncementAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := announcementApi{svc: deps.AnnouncementSvc}

	ag := g.Group("/announcements", authed...)
	ag.GET("", api.inbox)
	ag.GET("/sent", api.sent, staffOnly)
	ag.POST("", api.publish, staffOnly)
}

func (api *announcementApi) inbox(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	as, err := api.svc.Inbox(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "getting inbox")
	}
	return ctx.JSON(http.StatusOK, as)
}

func (api *announcementApi) sent(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	as, err := api.svc.Sent(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "getting sent announcements")
	}
	return ctx.JSON(http.StatusOK, as)
}

func (api *announcementApi) publish(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data announcement.NewAnnouncement
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	a, err := api.svc.Publish(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "publishing announcement")
	}
	return ctx.JSON(http.StatusCreated, a)
}
