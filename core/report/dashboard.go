package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/student"
)

// IsDefaulter: not Paid, and the balance is either unknown or still positive.
func IsDefaulter(rec fee.Record) bool {
	return rec.Status != fee.StatusPaid && (!rec.Balance.Valid || rec.Balance.Decimal.IsPositive())
}

// defaulterKey is the balance when one is known and non-zero, the principal otherwise.
func defaulterKey(rec fee.Record) decimal.Decimal {
	if rec.Balance.Valid && !rec.Balance.Decimal.IsZero() {
		return rec.Balance.Decimal
	}
	return rec.Amount
}

// RankDefaulters returns the top `limit` defaulters, largest amount owed first.
// Ties keep their input order. A limit <= 0 returns them all.
func RankDefaulters(fees []fee.Record, limit int) []fee.Record {
	defaulters := make([]fee.Record, 0)
	for _, r := range fees {
		if IsDefaulter(r) {
			defaulters = append(defaulters, r)
		}
	}
	sort.SliceStable(defaulters, func(i, j int) bool {
		return defaulterKey(defaulters[i]).GreaterThan(defaulterKey(defaulters[j]))
	})
	if limit > 0 && len(defaulters) > limit {
		defaulters = defaulters[:limit]
	}
	return defaulters
}

// DailyFees lists the records issued on day (in loc), or all of them when viewAll is set.
type DailyFees struct {
	Date    string          `json:"date"`
	ViewAll bool            `json:"view_all"`
	Fees    []fee.Record    `json:"fees"`
	Total   decimal.Decimal `json:"total"`
}

func SelectDailyFees(fees []fee.Record, day time.Time, loc *time.Location, viewAll bool) DailyFees {
	if loc == nil {
		loc = time.UTC
	}
	day = day.In(loc)
	y, m, d := day.Date()

	daily := DailyFees{Date: day.Format(core.DateLayout), ViewAll: viewAll, Fees: make([]fee.Record, 0), Total: decimal.Zero}
	for _, r := range fees {
		if !viewAll {
			ry, rm, rd := r.IssuedAt().In(loc).Date()
			if ry != y || rm != m || rd != d {
				continue
			}
		}
		daily.Fees = append(daily.Fees, r)
		daily.Total = daily.Total.Add(r.Total())
	}
	return daily
}

type Dashboard struct {
	Totals     Totals            `json:"totals"`
	Defaulters []TransactionView `json:"defaulters"`
	Daily      DailyFees         `json:"daily"`
}

// BuildDashboard assembles totals, top defaulters and the daily fees from the whole ledger.
func BuildDashboard(all []fee.Record, students student.Lookup, limit int, day time.Time, loc *time.Location, viewAll bool) Dashboard {
	ranked := RankDefaulters(all, limit)
	defaulters := make([]TransactionView, 0, len(ranked))
	for _, r := range ranked {
		defaulters = append(defaulters, newView(r, students))
	}
	return Dashboard{
		Totals:     DashboardTotals(all),
		Defaulters: defaulters,
		Daily:      SelectDailyFees(all, day, loc, viewAll),
	}
}
