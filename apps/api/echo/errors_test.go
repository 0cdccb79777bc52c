package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/tests"
)

func Test_appHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
		wantLog  string
	}{
		{
			name:     "directory down",
			err:      errors.Wrap(core.NewExternalLookupError("student directory", errors.New("connection refused")), "listing"),
			wantCode: http.StatusBadGateway,
			wantBody: `{"error":"student directory lookup failed: connection refused"}`,
			wantLog:  "WARN student directory lookup failed: connection refused",
		},
		{
			name:     "not found",
			err:      errors.Wrap(fee.ErrNotFound, "getting fee"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"` + fee.ErrNotFound.Error() + `"}`,
		},
		{
			name:     "server error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal Server Error"}`,
			wantLog:  "ERROR Internal Server Error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, translator := testutil.NewValidator()
			logger := new(testutil.Logger)
			e := echo.New()
			rec := httptest.NewRecorder()
			ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			newAppHTTPErrorHandler(logger, translator)(tt.err, ctx)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			if tt.wantLog == "" {
				assert.Empty(t, logger.Messages)
			} else {
				assert.Equal(t, []string{tt.wantLog}, logger.Messages)
			}
		})
	}
}
