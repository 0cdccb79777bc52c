package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/student"
)

// Status categories of the transactions report
const (
	CategoryPaid            = "Paid"
	CategoryUnpaid          = "Unpaid"
	CategoryPaidWithPenalty = "Paid with Penalty"
	CategoryPaidManually    = "Paid Manually"
)

// TransactionFilter fields are optional and ANDed. Dates are YYYY-MM-DD, both bounds inclusive.
type TransactionFilter struct {
	StartDate string `query:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status    string `query:"status" json:"status"`
	Grade     string `query:"grade" json:"grade"`
}

func (tf *TransactionFilter) Clean() {
	tf.StartDate = core.CleanString(tf.StartDate)
	tf.EndDate = core.CleanString(tf.EndDate)
	tf.Status = core.CleanString(tf.Status)
	tf.Grade = core.CleanString(tf.Grade)
}

// TransactionView is a record joined with the directory: Grade is the effective grade.
type TransactionView struct {
	fee.Record
	StudentName string `json:"student_name"`
}

func newView(rec fee.Record, students student.Lookup) TransactionView {
	if rec.Grade == "" {
		rec.Grade = students.Grade(rec.StudentCode)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.IssuedAt()
	}
	return TransactionView{Record: rec, StudentName: students.Name(rec.StudentCode)}
}

// ListTransactions returns the views of the records matching filter, in input order.
func ListTransactions(fees []fee.Record, filter TransactionFilter, students student.Lookup) ([]TransactionView, error) {
	filter.Clean()

	var start, end time.Time
	var err error
	if filter.StartDate != "" {
		if start, err = parseFilterDate("start_date", filter.StartDate); err != nil {
			return nil, err
		}
	}
	if filter.EndDate != "" {
		if end, err = parseFilterDate("end_date", filter.EndDate); err != nil {
			return nil, err
		}
		end = endOfDay(end)
	}

	views := make([]TransactionView, 0, len(fees))
	for _, rec := range fees {
		created := rec.IssuedAt()
		if !start.IsZero() && created.Before(start) {
			continue
		}
		if !end.IsZero() && created.After(end) {
			continue
		}
		if !matchesCategory(rec, filter.Status) {
			continue
		}
		v := newView(rec, students)
		if filter.Grade != "" && v.Grade != filter.Grade {
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

// matchesCategory maps a report category to a record predicate.
// "Paid Manually" has no record-level marker and matches every Paid record.
// Unknown categories do not restrict.
func matchesCategory(rec fee.Record, category string) bool {
	switch category {
	case CategoryPaid, CategoryPaidManually:
		return rec.Status == fee.StatusPaid
	case CategoryUnpaid:
		return rec.Status == fee.StatusGenerated
	case CategoryPaidWithPenalty:
		return rec.Status == fee.StatusPaid && rec.Penalty.IsPositive()
	default:
		return true
	}
}

func parseFilterDate(field, value string) (time.Time, error) {
	t, err := core.ParseDate(value)
	if err != nil {
		return time.Time{}, core.NewValidationError(err, core.FieldError{Field: field, Error: "date must be formatted as YYYY-MM-DD"})
	}
	return t, nil
}

// endOfDay is the last millisecond of day.
func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Millisecond)
}

// Totals are computed over a set of records:
// expected is Σ(amount + penalty), collected is Σ paid amount and outstanding is their difference.
type Totals struct {
	Expected    decimal.Decimal `json:"expected"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

func sumTotals(recs []fee.Record) Totals {
	expected, collected := decimal.Zero, decimal.Zero
	for _, r := range recs {
		expected = expected.Add(r.Total())
		collected = collected.Add(r.PaidAmount)
	}
	return Totals{Expected: expected, Collected: collected, Outstanding: expected.Sub(collected)}
}

// DashboardTotals covers the whole ledger.
func DashboardTotals(all []fee.Record) Totals {
	return sumTotals(all)
}

// TransactionTotals covers the filtered transactions only.
func TransactionTotals(views []TransactionView) Totals {
	recs := make([]fee.Record, 0, len(views))
	for _, v := range views {
		recs = append(recs, v.Record)
	}
	return sumTotals(recs)
}
