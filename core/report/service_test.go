package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/report"
	"github.com/trezcool/feeledger/core/student"
	directorysvc "github.com/trezcool/feeledger/services/directory"
	gatewaysvc "github.com/trezcool/feeledger/services/gateway"
	inmemdb "github.com/trezcool/feeledger/storage/database/inmem"
	"github.com/trezcool/feeledger/tests"
)

type fixture struct {
	academicSvc *academic.Service
	feeSvc      *fee.Service
	reportSvc   *report.Service
	logger      *testutil.Logger
}

func setup(t *testing.T, dir student.Directory, issuedAt time.Time) fixture {
	t.Helper()
	validate, _ := testutil.NewValidator()
	db := inmemdb.Open()
	logger := new(testutil.Logger)

	academicSvc := academic.NewService(inmemdb.NewAcademicRepository(db), validate)
	feeSvc := fee.NewService(fee.Deps{
		Repo:      inmemdb.NewFeeRepository(db),
		Periods:   academicSvc,
		Directory: dir,
		IDs:       &testutil.IDs{At: issuedAt},
		Syncer:    gatewaysvc.NewConsoleSyncerMock(logger),
		Validate:  validate,
		Logger:    logger,
	})
	return fixture{
		academicSvc: academicSvc,
		feeSvc:      feeSvc,
		reportSvc: report.NewService(report.Deps{
			Fees:           feeSvc,
			Periods:        academicSvc,
			Directory:      dir,
			Validate:       validate,
			Logger:         logger,
			DefaulterLimit: 5,
		}),
		logger: logger,
	}
}

func TestService_paymentLifecycle(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	dir := directorysvc.NewStaticDirectory(student.Student{Code: "S001", Name: "Jane Doe", Grade: "Grade 1"})
	f := setup(t, dir, issuedAt)
	ctx := context.Background()

	term1 := testutil.CreatePeriod(t, f.academicSvc, "2024", "Term 1", "2024-01-08", "2024-04-05")
	rec, err := f.feeSvc.GenerateSingle(fee.NewFee{StudentCode: "S001", Amount: testutil.DecPtr("200"), PeriodID: term1.ID})
	require.NoError(t, err)

	dash, err := f.reportSvc.Dashboard(ctx, "2024-03-01", false)
	require.NoError(t, err)
	assert.Equal(t, "200", dash.Totals.Outstanding.String())
	require.Len(t, dash.Defaulters, 1)
	assert.Equal(t, "Jane Doe", dash.Defaulters[0].StudentName)
	assert.Len(t, dash.Daily.Fees, 1)

	rec, err = f.feeSvc.RecordPayment(rec.ID, fee.Payment{Amount: testutil.DecPtr("150")})
	require.NoError(t, err)
	assert.Equal(t, fee.StatusPartial, rec.Status)
	assert.Equal(t, "50", rec.Balance.Decimal.String())

	defaulters, err := f.reportSvc.Defaulters(ctx)
	require.NoError(t, err)
	require.Len(t, defaulters, 1)
	assert.Equal(t, "50", defaulters[0].OutstandingBalance().String())

	rec, err = f.feeSvc.RecordPayment(rec.ID, fee.Payment{Amount: testutil.DecPtr("50")})
	require.NoError(t, err)
	assert.Equal(t, fee.StatusPaid, rec.Status)
	assert.True(t, rec.Balance.Decimal.IsZero())

	defaulters, err = f.reportSvc.Defaulters(ctx)
	require.NoError(t, err)
	assert.Empty(t, defaulters)

	rpt, err := f.reportSvc.Transactions(ctx, report.TransactionFilter{Status: report.CategoryPaid, Grade: "Grade 1"})
	require.NoError(t, err)
	assert.Equal(t, 1, rpt.Count)
	assert.Equal(t, "200", rpt.Totals.Collected.String())
	assert.True(t, rpt.Totals.Outstanding.IsZero())

	receipt, err := f.reportSvc.Receipt(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Term 1", receipt.PaymentPeriod)
	assert.Equal(t, "200", receipt.PaidAmount.String())
	assert.True(t, receipt.Balance.IsZero())

	require.NoError(t, f.feeSvc.SyncPayment(rec.ID))
	ack, ok := gatewaysvc.LastAcknowledgement()
	require.True(t, ok)
	assert.Equal(t, rec.ID.String(), ack.FeeID)
	assert.Equal(t, fee.StatusPaid, ack.Status)
}

func TestService_Transactions_invalidFilter(t *testing.T) {
	f := setup(t, nil, time.Now())

	_, err := f.reportSvc.Transactions(context.Background(), report.TransactionFilter{EndDate: "tomorrow"})
	assert.Error(t, err)
}

func TestService_directoryDown(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f := setup(t, directorysvc.NewFailingDirectory(errors.New("connection refused")), issuedAt)
	ctx := context.Background()

	term1 := testutil.CreatePeriod(t, f.academicSvc, "2024", "Term 1", "2024-01-08", "2024-04-05")
	rec, err := f.feeSvc.GenerateSingle(fee.NewFee{StudentCode: "S001", Amount: testutil.DecPtr("80"), PeriodID: term1.ID})
	require.NoError(t, err)

	receipt, err := f.reportSvc.Receipt(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "", receipt.StudentName)
	assert.Equal(t, "S001", receipt.StudentCode)

	opts, err := f.reportSvc.Options(ctx)
	require.NoError(t, err)
	assert.Empty(t, opts.Grades)
	assert.Equal(t, []string{"2024"}, opts.AcademicYears)
	assert.NotZero(t, f.logger.Count())

	_, err = f.reportSvc.Receipt(ctx, fee.IDAt(issuedAt, 1, 999))
	assert.Equal(t, fee.ErrNotFound, err)
}

func TestService_Dashboard_defaultsToToday(t *testing.T) {
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	defer func() { core.NowFunc = func() time.Time { return time.Now().UTC() } }()

	f := setup(t, nil, now)
	_, err := f.feeSvc.GenerateSingle(fee.NewFee{StudentCode: "S001", Amount: testutil.DecPtr("10"), PeriodID: 1})
	require.NoError(t, err)

	dash, err := f.reportSvc.Dashboard(context.Background(), "", false)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", dash.Daily.Date)
	assert.Len(t, dash.Daily.Fees, 1)
}

func TestService_Dashboard_ledgerTimezone(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	issuedAt := time.Date(2024, 3, 2, 12, 0, 0, 0, est)
	f := setup(t, nil, issuedAt)
	f.reportSvc = report.NewService(report.Deps{Fees: f.feeSvc, Logger: f.logger, Location: est})
	_, err := f.feeSvc.GenerateSingle(fee.NewFee{StudentCode: "S001", Amount: testutil.DecPtr("10"), PeriodID: 1})
	require.NoError(t, err)

	tests := []struct {
		date     string
		wantDate string
		wantFees int
	}{
		{date: "2024-03-02", wantDate: "2024-03-02", wantFees: 1},
		{date: " 2024-03-01 ", wantDate: "2024-03-01", wantFees: 0},
		{date: "2024-03-03", wantDate: "2024-03-03", wantFees: 0},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			dash, err := f.reportSvc.Dashboard(context.Background(), tt.date, false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, dash.Daily.Date)
			assert.Len(t, dash.Daily.Fees, tt.wantFees)
		})
	}

	_, err = f.reportSvc.Dashboard(context.Background(), "03/02/2024", false)
	assert.IsType(t, &core.ValidationError{}, err)
}
