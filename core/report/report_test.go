package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/student"
)

var d = decimal.RequireFromString

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestTotals(t *testing.T) {
	fees := []fee.Record{
		{Amount: d("100"), PaidAmount: d("100"), Status: fee.StatusPaid},
		{Amount: d("50"), Penalty: d("10"), Status: fee.StatusGenerated},
	}
	totals := DashboardTotals(fees)
	assert.Equal(t, "160", totals.Expected.String())
	assert.Equal(t, "100", totals.Collected.String())
	assert.Equal(t, "60", totals.Outstanding.String())

	empty := DashboardTotals(nil)
	assert.True(t, empty.Expected.IsZero())
	assert.True(t, empty.Outstanding.IsZero())
}

func TestRankDefaulters(t *testing.T) {
	partial := fee.Record{ID: fee.IDAt(at(1, 8), 1, 1), Amount: d("200"), Balance: decimal.NewNullDecimal(d("40")), Status: fee.StatusPartial}
	unpaid := fee.Record{ID: fee.IDAt(at(1, 8), 1, 2), Amount: d("100"), Status: fee.StatusGenerated}
	paid := fee.Record{ID: fee.IDAt(at(1, 8), 1, 3), Amount: d("500"), Status: fee.StatusPaid}
	reversed := fee.Record{ID: fee.IDAt(at(1, 8), 1, 4), Amount: d("80"), Balance: decimal.NewNullDecimal(decimal.Zero), Status: fee.StatusGenerated}
	tie := fee.Record{ID: fee.IDAt(at(1, 8), 1, 5), Amount: d("100"), Status: fee.StatusGenerated}

	ids := func(recs []fee.Record) []int64 {
		out := make([]int64, 0, len(recs))
		for _, r := range recs {
			out = append(out, r.ID.Int64())
		}
		return out
	}

	tests := []struct {
		name  string
		fees  []fee.Record
		limit int
		want  []fee.Record
	}{
		{name: "excludes paid and settled", fees: []fee.Record{partial, unpaid, paid, reversed}, limit: 5, want: []fee.Record{unpaid, partial}},
		{name: "ties keep input order", fees: []fee.Record{partial, unpaid, tie}, limit: 5, want: []fee.Record{unpaid, tie, partial}},
		{name: "truncated", fees: []fee.Record{partial, unpaid, tie}, limit: 1, want: []fee.Record{unpaid}},
		{name: "no limit", fees: []fee.Record{partial, unpaid, tie}, want: []fee.Record{unpaid, tie, partial}},
		{name: "none", fees: []fee.Record{paid}, limit: 5, want: []fee.Record{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ids(tt.want), ids(RankDefaulters(tt.fees, tt.limit)))
		})
	}
}

func TestListTransactions(t *testing.T) {
	students := student.NewLookup([]student.Student{
		{Code: "S001", Name: "Jane Doe", Grade: "Grade 1"},
		{Code: "S002", Name: "John Smith", Grade: "Grade 2"},
	})
	paid := fee.Record{ID: fee.IDAt(at(1, 9), 1, 0), StudentCode: "S001", Amount: d("100"), PaidAmount: d("100"), Status: fee.StatusPaid}
	paidPenalty := fee.Record{
		ID: fee.IDAt(at(2, 23), 1, 0), StudentCode: "S002", Amount: d("100"), Penalty: d("5"), PaidAmount: d("105"), Status: fee.StatusPaid,
	}
	unpaid := fee.Record{ID: fee.IDAt(at(3, 0), 1, 0), StudentCode: "S001", Amount: d("70"), Status: fee.StatusGenerated}
	partial := fee.Record{
		ID: fee.IDAt(at(4, 12), 1, 0), StudentCode: "S003", Grade: "Grade 2", Amount: d("90"), PaidAmount: d("30"), Status: fee.StatusPartial,
	}
	all := []fee.Record{paid, paidPenalty, unpaid, partial}

	codes := func(views []TransactionView) []string {
		out := make([]string, 0, len(views))
		for _, v := range views {
			out = append(out, v.ID.String())
		}
		return out
	}
	idsOf := func(recs ...fee.Record) []string {
		out := make([]string, 0, len(recs))
		for _, r := range recs {
			out = append(out, r.ID.String())
		}
		return out
	}

	tests := []struct {
		name   string
		filter TransactionFilter
		want   []string
	}{
		{name: "no filter", want: idsOf(all...)},
		{name: "Paid", filter: TransactionFilter{Status: CategoryPaid}, want: idsOf(paid, paidPenalty)},
		{name: "Paid Manually", filter: TransactionFilter{Status: CategoryPaidManually}, want: idsOf(paid, paidPenalty)},
		{name: "Paid with Penalty", filter: TransactionFilter{Status: CategoryPaidWithPenalty}, want: idsOf(paidPenalty)},
		{name: "Unpaid", filter: TransactionFilter{Status: CategoryUnpaid}, want: idsOf(unpaid)},
		{name: "unknown category", filter: TransactionFilter{Status: "Refunded"}, want: idsOf(all...)},
		{name: "start date", filter: TransactionFilter{StartDate: "2024-03-03"}, want: idsOf(unpaid, partial)},
		{name: "end date is inclusive", filter: TransactionFilter{EndDate: "2024-03-02"}, want: idsOf(paid, paidPenalty)},
		{name: "single day", filter: TransactionFilter{StartDate: "2024-03-02", EndDate: "2024-03-02"}, want: idsOf(paidPenalty)},
		{name: "grade from directory or record", filter: TransactionFilter{Grade: "Grade 2"}, want: idsOf(paidPenalty, partial)},
		{name: "grade is exact", filter: TransactionFilter{Grade: "grade 2"}, want: []string{}},
		{name: "combined", filter: TransactionFilter{Status: CategoryPaid, Grade: "Grade 1"}, want: idsOf(paid)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := ListTransactions(all, tt.filter, students)
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(views))
		})
	}

	t.Run("views are joined with the directory", func(t *testing.T) {
		views, err := ListTransactions([]fee.Record{unpaid, partial}, TransactionFilter{}, students)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", views[0].StudentName)
		assert.Equal(t, "Grade 1", views[0].Grade)
		assert.Equal(t, "", views[1].StudentName)

		totals := TransactionTotals(views)
		assert.Equal(t, "160", totals.Expected.String())
		assert.Equal(t, "30", totals.Collected.String())
		assert.Equal(t, "130", totals.Outstanding.String())
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := ListTransactions(all, TransactionFilter{StartDate: "03/01/2024"}, students)
		assert.IsType(t, &core.ValidationError{}, err)
	})
}

func TestAssembleReceipt(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	defer func() { core.NowFunc = func() time.Time { return time.Now().UTC() } }()

	students := student.NewLookup([]student.Student{{Code: "S001", Name: "Jane Doe", Grade: "Grade 1"}})

	t.Run("unpaid", func(t *testing.T) {
		rec := fee.Record{
			ID: fee.IDAt(at(1, 8), 1, 1), StudentCode: "S001", Amount: d("100"), Penalty: d("10"),
			PaymentPeriod: "Term 1", Status: fee.StatusGenerated,
		}
		r := AssembleReceipt(rec, students)
		assert.Equal(t, now, r.Date)
		assert.Equal(t, "Jane Doe", r.StudentName)
		assert.Equal(t, "Grade 1", r.Grade)
		assert.Equal(t, "Term 1", r.PaymentPeriod)
		assert.Equal(t, "110", r.TotalDue.String())
		assert.Equal(t, "110", r.PaidAmount.String(), "paid amount defaults to the total due")
		assert.True(t, r.Balance.IsZero())
	})

	t.Run("partial", func(t *testing.T) {
		rec := fee.Record{
			ID: fee.IDAt(at(1, 8), 1, 2), StudentCode: "S404", Grade: "Grade 5", Amount: d("200"),
			PaidAmount: d("150"), Balance: decimal.NewNullDecimal(d("50")), Status: fee.StatusPartial,
		}
		r := AssembleReceipt(rec, students)
		assert.Equal(t, "", r.StudentName)
		assert.Equal(t, "Grade 5", r.Grade)
		assert.Equal(t, "150", r.PaidAmount.String())
		assert.Equal(t, "50", r.Balance.String())
	})
}

func TestSelectDailyFees(t *testing.T) {
	kinshasa := time.FixedZone("WAT", 3600)
	fees := []fee.Record{
		{ID: fee.IDAt(at(1, 10), 1, 0), Amount: d("10")},
		{ID: fee.IDAt(at(1, 23), 1, 0), Amount: d("20")}, // 2 March 00:00 in WAT
		{ID: fee.IDAt(at(2, 10), 1, 0), Amount: d("40"), Penalty: d("1")},
	}

	daily := SelectDailyFees(fees, at(1, 12), time.UTC, false)
	assert.Equal(t, "2024-03-01", daily.Date)
	assert.Len(t, daily.Fees, 2)
	assert.Equal(t, "30", daily.Total.String())

	daily = SelectDailyFees(fees, at(2, 12), kinshasa, false)
	assert.Equal(t, "2024-03-02", daily.Date)
	assert.Len(t, daily.Fees, 2)
	assert.Equal(t, "61", daily.Total.String())

	est := time.FixedZone("EST", -5*3600)
	eveningFee := fee.Record{ID: fee.IDAt(time.Date(2024, 3, 2, 12, 0, 0, 0, est), 1, 0), Amount: d("5")}
	daily = SelectDailyFees([]fee.Record{eveningFee}, time.Date(2024, 3, 2, 0, 0, 0, 0, est), est, false)
	assert.Equal(t, "2024-03-02", daily.Date, "midnight of a local date stays on that date")
	assert.Len(t, daily.Fees, 1)

	daily = SelectDailyFees(fees, at(5, 12), time.UTC, true)
	assert.True(t, daily.ViewAll)
	assert.Len(t, daily.Fees, 3)
	assert.Equal(t, "71", daily.Total.String())
}
