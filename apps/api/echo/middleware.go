package echoapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// requestIDMiddleware tags every response with the caller's X-Request-ID, or a fresh one.
func requestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		rid := ctx.Request().Header.Get(echo.HeaderXRequestID)
		if rid == "" {
			rid = uuid.New().String()
		}
		ctx.Response().Header().Set(echo.HeaderXRequestID, rid)
		return next(ctx)
	}
}
