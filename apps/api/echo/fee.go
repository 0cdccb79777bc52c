package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/report"
	spreadsheetsvc "github.com/trezcool/feeledger/services/spreadsheet"
)

type feeApi struct {
	svc     *fee.Service
	reports *report.Service
}

func registerFeeAPI(g *echo.Group, svc *fee.Service, reports *report.Service) {
	api := feeApi{svc: svc, reports: reports}

	fg := g.Group("/fees")
	fg.POST("", api.create)
	fg.GET("", api.query)
	fg.POST("/bulk", api.bulkCreate)
	fg.POST("/bulk/preview", api.bulkPreview)

	// detail endpoints
	dg := fg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.POST("/payments", api.pay)
	dg.POST("/reverse", api.reverse)
	dg.POST("/penalty", api.addPenalty)
	dg.DELETE("/penalty", api.removePenalty)
	dg.POST("/sync", api.sync)
	dg.GET("/receipt", api.receipt)

	g.GET("/penalty-config", api.penaltyConfig)
	g.PUT("/penalty-config", api.savePenaltyConfig)
}

// Handlers

func (api *feeApi) create(ctx echo.Context) error {
	var data fee.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}
	rec, err := api.svc.GenerateSingle(data)
	if err != nil {
		return errors.Wrap(err, "generating fee")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *feeApi) query(ctx echo.Context) error {
	var filter fee.LedgerFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to LedgerFilter")
	}
	var ord Ordering
	ord.Bind(ctx)

	recs, err := api.svc.Query(ctx.Request().Context(), filter, ord.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	return ctx.JSON(http.StatusOK, recs)
}

// readUpload parses the uploaded `file` and the selected `period_ids`.
func readUpload(ctx echo.Context) ([]fee.SheetRow, []int, error) {
	file, err := ctx.FormFile("file")
	if err != nil {
		return nil, nil, errFileRequired
	}
	src, err := file.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening upload")
	}
	defer func() { _ = src.Close() }()

	rows, err := spreadsheetsvc.Parse(file.Filename, src)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing upload")
	}

	var values []string
	if form, err := ctx.MultipartForm(); err == nil {
		values = form.Value["period_ids"]
	}
	periodIDs, err := parseIDList(values)
	if err != nil {
		return nil, nil, err
	}
	return rows, periodIDs, nil
}

type bulkResponse struct {
	Created int          `json:"created"`
	Fees    []fee.Record `json:"fees"`
}

func (api *feeApi) bulkCreate(ctx echo.Context) error {
	rows, periodIDs, err := readUpload(ctx)
	if err != nil {
		return err
	}
	recs, err := api.svc.GenerateFromSheet(rows, periodIDs)
	if err != nil {
		return errors.Wrap(err, "generating fees in bulk")
	}
	return ctx.JSON(http.StatusCreated, bulkResponse{Created: len(recs), Fees: recs})
}

func (api *feeApi) bulkPreview(ctx echo.Context) error {
	rows, _, err := readUpload(ctx)
	if err != nil {
		return err
	}
	parsed, err := fee.ParseBulkRows(rows)
	if err != nil {
		return errors.Wrap(err, "parsing rows")
	}
	return ctx.JSON(http.StatusOK, parsed)
}

func (api *feeApi) retrieve(ctx echo.Context) error {
	id, err := feeIDParam(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Get(id)
	if err != nil {
		return errors.Wrap(err, "getting fee")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *feeApi) pay(ctx echo.Context) error {
	id, err := feeIDParam(ctx)
	if err != nil {
		return err
	}
	var data fee.Payment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Payment")
	}
	rec, err := api.svc.RecordPayment(id, data)
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *feeApi) reverse(ctx echo.Context) error {
	id, err := feeIDParam(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.ReversePayment(id)
	if err != nil {
		return errors.Wrap(err, "reversing payment")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *feeApi) addPenalty(ctx echo.Context) error {
	id, err := feeIDParam(ctx)
	if err != nil {
		return err
	}
	var data fee.PenaltyInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PenaltyInput")
	}
	rec, err := api.svc.AddPenalty(id, data)
	if err != nil {
		return errors.Wrap(err, "adding penalty")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *feeApi) removePenalty(ctx echo.Context) error {
	id, err := feeIDParam(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.RemovePenalty(id)
	if err != nil {
		return errors.Wrap(err, "removing penalty")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *feeApi) sync(ctx echo.Context) error {
	id, err := feeIDParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.SyncPayment(id); err != nil {
		return errors.Wrap(err, "syncing payment")
	}
	return ctx.JSON(http.StatusAccepted, echo.Map{"success": "Payment sync requested."})
}

func (api *feeApi) receipt(ctx echo.Context) error {
	id, err := feeIDParam(ctx)
	if err != nil {
		return err
	}
	data, err := api.reports.Receipt(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "assembling receipt")
	}
	return ctx.JSON(http.StatusOK, data)
}

func (api *feeApi) penaltyConfig(ctx echo.Context) error {
	cfg, err := api.svc.PenaltyConfig()
	if err != nil {
		return errors.Wrap(err, "getting penalty config")
	}
	return ctx.JSON(http.StatusOK, cfg)
}

func (api *feeApi) savePenaltyConfig(ctx echo.Context) error {
	var data fee.PenaltyConfig
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PenaltyConfig")
	}
	cfg, err := api.svc.SavePenaltyConfig(data)
	if err != nil {
		return errors.Wrap(err, "saving penalty config")
	}
	return ctx.JSON(http.StatusOK, cfg)
}
