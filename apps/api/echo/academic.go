package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feeledger/core/academic"
)

type academicApi struct {
	svc *academic.Service
}

func registerAcademicAPI(g *echo.Group, svc *academic.Service) {
	api := academicApi{svc: svc}

	yg := g.Group("/academic-years")
	yg.POST("", api.createYear)
	yg.GET("", api.queryYears)
	yg.GET("/:id", api.retrieveYear)
	yg.PUT("/:id", api.updateYear)
	yg.DELETE("/:id", api.destroyYear)

	pg := g.Group("/payment-periods")
	pg.POST("", api.createPeriod)
	pg.GET("", api.queryPeriods)
	pg.GET("/:id", api.retrievePeriod)
	pg.PUT("/:id", api.updatePeriod)
	pg.DELETE("/:id", api.destroyPeriod)
}

// Academic Years

func (api *academicApi) createYear(ctx echo.Context) error {
	var data academic.NewAcademicYear
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAcademicYear")
	}
	year, err := api.svc.CreateYear(data)
	if err != nil {
		return errors.Wrap(err, "creating academic year")
	}
	return ctx.JSON(http.StatusCreated, year)
}

func (api *academicApi) queryYears(ctx echo.Context) error {
	years, err := api.svc.QueryAllYears()
	if err != nil {
		return errors.Wrap(err, "querying academic years")
	}
	return ctx.JSON(http.StatusOK, years)
}

func (api *academicApi) retrieveYear(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	year, err := api.svc.GetYear(id)
	if err != nil {
		return errors.Wrap(err, "getting academic year")
	}
	return ctx.JSON(http.StatusOK, year)
}

func (api *academicApi) updateYear(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data academic.NewAcademicYear
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAcademicYear")
	}
	year, err := api.svc.UpdateYear(id, data)
	if err != nil {
		return errors.Wrap(err, "updating academic year")
	}
	return ctx.JSON(http.StatusOK, year)
}

func (api *academicApi) destroyYear(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteYear(id); err != nil {
		return errors.Wrap(err, "deleting academic year")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Payment Periods

func (api *academicApi) createPeriod(ctx echo.Context) error {
	var data academic.NewPaymentPeriod
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPaymentPeriod")
	}
	period, err := api.svc.CreatePeriod(data)
	if err != nil {
		return errors.Wrap(err, "creating payment period")
	}
	return ctx.JSON(http.StatusCreated, period)
}

func (api *academicApi) queryPeriods(ctx echo.Context) error {
	periods, err := api.svc.QueryAllPeriods()
	if err != nil {
		return errors.Wrap(err, "querying payment periods")
	}
	return ctx.JSON(http.StatusOK, periods)
}

func (api *academicApi) retrievePeriod(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	period, err := api.svc.GetPeriod(id)
	if err != nil {
		return errors.Wrap(err, "getting payment period")
	}
	return ctx.JSON(http.StatusOK, period)
}

func (api *academicApi) updatePeriod(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data academic.NewPaymentPeriod
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPaymentPeriod")
	}
	period, err := api.svc.UpdatePeriod(id, data)
	if err != nil {
		return errors.Wrap(err, "updating payment period")
	}
	return ctx.JSON(http.StatusOK, period)
}

func (api *academicApi) destroyPeriod(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeletePeriod(id); err != nil {
		return errors.Wrap(err, "deleting payment period")
	}
	return ctx.NoContent(http.StatusNoContent)
}
