package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feeledger/core/report"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports")
	rg.GET("/transactions", api.transactions)
	rg.GET("/dashboard", api.dashboard)
	rg.GET("/defaulters", api.defaulters)
	rg.GET("/options", api.options)
}

func (api *reportApi) transactions(ctx echo.Context) error {
	var filter report.TransactionFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to TransactionFilter")
	}
	rpt, err := api.svc.Transactions(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing transactions")
	}
	return ctx.JSON(http.StatusOK, rpt)
}

// dashboard accepts `date` (YYYY-MM-DD, defaults to today) and `view_all`.
func (api *reportApi) dashboard(ctx echo.Context) error {
	viewAll, _ := strconv.ParseBool(ctx.QueryParam("view_all"))

	dash, err := api.svc.Dashboard(ctx.Request().Context(), ctx.QueryParam("date"), viewAll)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *reportApi) defaulters(ctx echo.Context) error {
	views, err := api.svc.Defaulters(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "ranking defaulters")
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *reportApi) options(ctx echo.Context) error {
	opts, err := api.svc.Options(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing options")
	}
	return ctx.JSON(http.StatusOK, opts)
}
