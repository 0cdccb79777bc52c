package report

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/student"
)

type (
	FeeSource interface {
		QueryAll() ([]fee.Record, error)
		Get(id snowflake.ID) (fee.Record, error)
	}

	PeriodSource interface {
		QueryAllPeriods() ([]academic.PaymentPeriod, error)
	}

	Deps struct {
		Fees           FeeSource
		Periods        PeriodSource
		Directory      student.Directory
		Validate       *validator.Validate
		Logger         core.Logger
		DefaulterLimit int
		Location       *time.Location
	}

	// Service recomputes every report from the current ledger; nothing is cached.
	Service struct {
		fees           FeeSource
		periods        PeriodSource
		directory      student.Directory
		validate       *validator.Validate
		logger         core.Logger
		defaulterLimit int
		loc            *time.Location
	}
)

func NewService(deps Deps) *Service {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		fees:           deps.Fees,
		periods:        deps.Periods,
		directory:      deps.Directory,
		validate:       deps.Validate,
		logger:         deps.Logger,
		defaulterLimit: deps.DefaulterLimit,
		loc:            loc,
	}
}

// students loads the directory, absorbing failures.
func (svc *Service) students(ctx context.Context) student.Lookup {
	students, err := student.Load(ctx, svc.directory)
	switch {
	case core.IsExternalLookup(err):
		svc.logger.Warn("student directory unavailable; names and grades left blank", err)
	case err != nil:
		svc.logger.Error("loading student directory", err)
	}
	return students
}

type TransactionReport struct {
	Transactions []TransactionView `json:"transactions"`
	Count        int               `json:"count"`
	Totals       Totals            `json:"totals"`
}

func (svc *Service) Transactions(ctx context.Context, filter TransactionFilter) (TransactionReport, error) {
	filter.Clean()
	if err := svc.validate.Struct(filter); err != nil {
		return TransactionReport{}, err
	}
	all, err := svc.fees.QueryAll()
	if err != nil {
		return TransactionReport{}, err
	}
	views, err := ListTransactions(all, filter, svc.students(ctx))
	if err != nil {
		return TransactionReport{}, err
	}
	return TransactionReport{Transactions: views, Count: len(views), Totals: TransactionTotals(views)}, nil
}

// Dashboard reports on the whole ledger; daily fees are those issued on date (YYYY-MM-DD in the ledger
// timezone, today when empty) unless viewAll is set.
func (svc *Service) Dashboard(ctx context.Context, date string, viewAll bool) (Dashboard, error) {
	day := core.NowFunc()
	if date = core.CleanString(date); date != "" {
		d, err := core.ParseDateIn(date, svc.loc)
		if err != nil {
			return Dashboard{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: "date must be formatted as YYYY-MM-DD"})
		}
		day = d
	}

	all, err := svc.fees.QueryAll()
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(all, svc.students(ctx), svc.defaulterLimit, day, svc.loc, viewAll), nil
}

func (svc *Service) Defaulters(ctx context.Context) ([]TransactionView, error) {
	all, err := svc.fees.QueryAll()
	if err != nil {
		return nil, err
	}
	students := svc.students(ctx)
	ranked := RankDefaulters(all, svc.defaulterLimit)
	views := make([]TransactionView, 0, len(ranked))
	for _, r := range ranked {
		views = append(views, newView(r, students))
	}
	return views, nil
}

func (svc *Service) Receipt(ctx context.Context, id snowflake.ID) (ReceiptData, error) {
	rec, err := svc.fees.Get(id)
	if err != nil {
		return ReceiptData{}, err
	}
	return AssembleReceipt(rec, svc.students(ctx)), nil
}

// Options lists the values clients offer in filter drop-downs.
type Options struct {
	Grades        []string `json:"grades"`
	AcademicYears []string `json:"academic_years"`
}

func (svc *Service) Options(ctx context.Context) (Options, error) {
	periods, err := svc.periods.QueryAllPeriods()
	if err != nil {
		return Options{}, err
	}
	seen := make(map[string]struct{})
	years := make([]string, 0)
	for _, p := range periods {
		if p.AcademicYear == "" {
			continue
		}
		if _, ok := seen[p.AcademicYear]; !ok {
			seen[p.AcademicYear] = struct{}{}
			years = append(years, p.AcademicYear)
		}
	}
	sort.Strings(years)
	return Options{Grades: svc.students(ctx).Grades(), AcademicYears: years}, nil
}
