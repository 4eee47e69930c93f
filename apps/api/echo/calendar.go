package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/calendar"
)

type calendarApi struct {
	svc          *calendar.Service
	previewLimit int
}

func registerCalendarAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := calendarApi{svc: deps.CalendarSvc, previewLimit: deps.Conf.Calendar.DayPreviewLimit}

	cg := g.Group("/calendar", authed...)
	cg.GET("", api.month)
	cg.GET("/upcoming", api.upcoming)
	cg.GET("/days/:date", api.day)

	eg := g.Group("/events", authed...)
	eg.GET("", api.query)
	eg.POST("", api.create, adminOnly)
	eg.GET("/:id", api.retrieve)
}

type (
	DayCell struct {
		Blank   bool             `json:"blank,omitempty"`
		Day     int              `json:"day,omitempty"`
		Date    string           `json:"date,omitempty"`
		IsToday bool             `json:"is_today,omitempty"`
		Events  []calendar.Event `json:"events,omitempty"`
		More    int              `json:"more,omitempty"` // events left out of the preview
	}

	MonthView struct {
		calendar.Month
		Label    string         `json:"label"`
		Today    string         `json:"today"`
		Weekdays []string       `json:"weekdays"`
		Prev     calendar.Month `json:"prev"`
		Next     calendar.Month `json:"next"`
		Cells    []DayCell      `json:"cells"`
	}
)

func newMonthView(g calendar.Grid, today string, previewLimit int) MonthView {
	cells := make([]DayCell, 0, len(g.Cells))
	for _, c := range g.Cells {
		shown, more := c.Preview(previewLimit)
		cells = append(cells, DayCell{
			Blank:   c.Blank,
			Day:     c.Day,
			Date:    c.Date,
			IsToday: c.IsToday,
			Events:  shown,
			More:    more,
		})
	}
	return MonthView{
		Month:    g.Month,
		Label:    g.Month.String(),
		Today:    today,
		Weekdays: calendar.Weekdays,
		Prev:     g.Month.Prev(),
		Next:     g.Month.Next(),
		Cells:    cells,
	}
}

// month serves the grid of ?year=&month= (0-based); the current month by default.
func (api *calendarApi) month(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	curr := calendar.MonthOf(api.svc.Now())
	year, err := intParam(ctx, "year", curr.Year)
	if err != nil {
		return err
	}
	month, err := intParam(ctx, "month", curr.Month)
	if err != nil {
		return err
	}

	grid, err := api.svc.Month(ctx.Request().Context(), usr.SchoolID, year, month)
	if err != nil {
		return errors.Wrap(err, "building month grid")
	}
	return ctx.JSON(http.StatusOK, newMonthView(grid, api.svc.Today(), api.previewLimit))
}

func (api *calendarApi) upcoming(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	limit, err := intParam(ctx, "limit", 0)
	if err != nil {
		return err
	}
	events, err := api.svc.Upcoming(ctx.Request().Context(), usr.SchoolID, limit)
	if err != nil {
		return errors.Wrap(err, "listing upcoming events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *calendarApi) day(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	events, err := api.svc.ForDate(ctx.Request().Context(), usr.SchoolID, ctx.Param("date"))
	if err != nil {
		return errors.Wrap(err, "listing day events")
	}
	return ctx.JSON(http.StatusOK, events)
}

type eventQuery struct {
	From string             `query:"from"`
	To   string             `query:"to"`
	Type calendar.EventType `query:"type"`
}

func (api *calendarApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var q eventQuery
	if err = ctx.Bind(&q); err != nil {
		return ctx.JSON(http.StatusOK, []calendar.Event{})
	}
	events, err := api.svc.Query(ctx.Request().Context(), calendar.QueryFilter{
		SchoolID: usr.SchoolID,
		From:     core.CleanString(q.From),
		To:       core.CleanString(q.To),
		Type:     calendar.EventType(core.CleanString(string(q.Type))),
	})
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *calendarApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data calendar.NewEvent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	e, err := api.svc.Create(ctx.Request().Context(), usr.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *calendarApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	e, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting event")
	}
	if e.SchoolID != usr.SchoolID {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, e)
}
