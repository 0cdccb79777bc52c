package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/report"
	"github.com/trezcool/feeledger/tests"
)

func Test_reportApi(t *testing.T) {
	resetApp()
	term1 := testutil.CreatePeriod(t, academicSvc, "2024", "Term 1", "2024-01-08", "2024-04-05")

	create := func(code, amount string) fee.Record {
		t.Helper()
		rec, err := feeSvc.GenerateSingle(fee.NewFee{StudentCode: code, Amount: testutil.DecPtr(amount), PeriodID: term1.ID})
		require.NoError(t, err)
		return rec
	}
	jane := create("S001", "100")
	john := create("S002", "300")
	_, err := feeSvc.RecordPayment(jane.ID, fee.Payment{Amount: testutil.DecPtr("100")})
	require.NoError(t, err)
	_, err = feeSvc.RecordPayment(john.ID, fee.Payment{Amount: testutil.DecPtr("120")})
	require.NoError(t, err)

	t.Run("transactions", func(t *testing.T) {
		rec := serve(httpTest{path: "/v1/reports/transactions?status=Paid&start_date=2024-03-01&end_date=2024-03-01"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var rpt report.TransactionReport
		unmarshall(t, rec, &rpt)
		assert.Equal(t, 1, rpt.Count)
		require.Len(t, rpt.Transactions, 1)
		assert.Equal(t, "Jane Doe", rpt.Transactions[0].StudentName)
		assert.Equal(t, "Grade 1", rpt.Transactions[0].Grade)
		assert.Equal(t, "100", rpt.Totals.Collected.String())
	})

	t.Run("transactions: grade", func(t *testing.T) {
		rec := serve(httpTest{path: "/v1/reports/transactions?grade=Grade+2"})
		require.Equal(t, http.StatusOK, rec.Code)
		var rpt report.TransactionReport
		unmarshall(t, rec, &rpt)
		assert.Equal(t, 1, rpt.Count)
		assert.Equal(t, "180", rpt.Totals.Outstanding.String())
	})

	runTests(t, []httpTest{
		{name: "transactions: bad date", path: "/v1/reports/transactions?end_date=01-03-2024", wantCode: http.StatusBadRequest},
		{
			name: "dashboard: bad date", path: "/v1/reports/dashboard?date=yesterday", wantCode: http.StatusBadRequest,
			wantData: []byte(`{"date": "date must be formatted as YYYY-MM-DD"}`),
		},
		{
			name: "options", path: "/v1/reports/options", wantCode: http.StatusOK,
			wantData: []byte(`{"grades": ["Grade 1", "Grade 2"], "academic_years": ["2024"]}`),
		},
	})

	t.Run("dashboard", func(t *testing.T) {
		rec := serve(httpTest{path: "/v1/reports/dashboard?date=2024-03-01"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var dash report.Dashboard
		unmarshall(t, rec, &dash)
		assert.Equal(t, "400", dash.Totals.Expected.String())
		assert.Equal(t, "220", dash.Totals.Collected.String())
		assert.Equal(t, "180", dash.Totals.Outstanding.String())
		require.Len(t, dash.Defaulters, 1)
		assert.Equal(t, "John Smith", dash.Defaulters[0].StudentName)
		assert.Equal(t, "2024-03-01", dash.Daily.Date)
		assert.Len(t, dash.Daily.Fees, 2)
		assert.Equal(t, "400", dash.Daily.Total.String())
	})

	t.Run("dashboard: another day", func(t *testing.T) {
		rec := serve(httpTest{path: "/v1/reports/dashboard?date=2024-03-02"})
		require.Equal(t, http.StatusOK, rec.Code)
		var dash report.Dashboard
		unmarshall(t, rec, &dash)
		assert.Empty(t, dash.Daily.Fees)

		rec = serve(httpTest{path: "/v1/reports/dashboard?date=2024-03-02&view_all=true"})
		require.Equal(t, http.StatusOK, rec.Code)
		unmarshall(t, rec, &dash)
		assert.True(t, dash.Daily.ViewAll)
		assert.Len(t, dash.Daily.Fees, 2)
	})

	t.Run("defaulters", func(t *testing.T) {
		rec := serve(httpTest{path: "/v1/reports/defaulters"})
		require.Equal(t, http.StatusOK, rec.Code)
		var views []report.TransactionView
		unmarshall(t, rec, &views)
		require.Len(t, views, 1)
		assert.Equal(t, john.ID, views[0].ID)
		assert.Equal(t, "180", views[0].Balance.Decimal.String())
	})
}
