package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feeledger/core/feehead"
)

type feeHeadApi struct {
	svc *feehead.Service
}

func registerFeeHeadAPI(g *echo.Group, svc *feehead.Service) {
	api := feeHeadApi{svc: svc}

	hg := g.Group("/fee-heads")
	hg.POST("", api.create)
	hg.GET("", api.query)
	hg.GET("/:id", api.retrieve)
	hg.PUT("/:id", api.update)
	hg.DELETE("/:id", api.destroy)
}

func (api *feeHeadApi) create(ctx echo.Context) error {
	var data feehead.NewFeeHead
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeeHead")
	}
	head, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating fee head")
	}
	return ctx.JSON(http.StatusCreated, head)
}

func (api *feeHeadApi) query(ctx echo.Context) error {
	heads, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying fee heads")
	}
	return ctx.JSON(http.StatusOK, heads)
}

func (api *feeHeadApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	head, err := api.svc.Get(id)
	if err != nil {
		return errors.Wrap(err, "getting fee head")
	}
	return ctx.JSON(http.StatusOK, head)
}

func (api *feeHeadApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data feehead.NewFeeHead
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeeHead")
	}
	head, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating fee head")
	}
	return ctx.JSON(http.StatusOK, head)
}

func (api *feeHeadApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting fee head")
	}
	return ctx.NoContent(http.StatusNoContent)
}
