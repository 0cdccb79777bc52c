package echoapi

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/fee"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}
	ord.Orderings = core.ParseOrdering(val)
}

// intParam reads a positive integer path parameter; anything else is a 404.
func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

func feeIDParam(ctx echo.Context) (snowflake.ID, error) {
	return fee.ParseID(ctx.Param("id"))
}

// parseIDList accepts repeated values and/or comma separated lists: `?period_ids=1,2&period_ids=3`.
func parseIDList(values []string) ([]int, error) {
	ids := make([]int, 0, len(values))
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			id, err := strconv.Atoi(s)
			if err != nil {
				return nil, errInvalidPeriodID
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
