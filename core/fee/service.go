package fee

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/student"
)

var (
	// errors
	ErrNotFound    = errors.New("fee record not found")
	ErrNoValidRows = errors.New("no valid rows found in the uploaded file")
)

type (
	Repository interface {
		// CreateFees inserts all records at once.
		CreateFees(recs ...Record) error
		QueryAllFees() ([]Record, error)
		GetFeeByID(id snowflake.ID) (Record, error)
		// UpdateFee applies fn to the stored record atomically and saves it unless fn fails.
		UpdateFee(id snowflake.ID, fn func(*Record) error) (Record, error)

		GetPenaltyConfig() (PenaltyConfig, error)
		SavePenaltyConfig(cfg PenaltyConfig) error
	}

	PeriodSource interface {
		GetPeriod(id int) (academic.PaymentPeriod, error)
		QueryAllPeriods() ([]academic.PaymentPeriod, error)
	}

	Deps struct {
		Repo      Repository
		Periods   PeriodSource
		Directory student.Directory
		IDs       IDGenerator
		Syncer    Syncer
		Validate  *validator.Validate
		Logger    core.Logger
	}

	Service struct {
		repo      Repository
		periods   PeriodSource
		directory student.Directory
		ids       IDGenerator
		syncer    Syncer
		validate  *validator.Validate
		logger    core.Logger
	}
)

func NewService(deps Deps) *Service {
	return &Service{
		repo:      deps.Repo,
		periods:   deps.Periods,
		directory: deps.Directory,
		ids:       deps.IDs,
		syncer:    deps.Syncer,
		validate:  deps.Validate,
		logger:    deps.Logger,
	}
}

// GenerateSingle creates one Generated record.
// An unknown period does not fail the generation: the record is kept with an unresolved period.
func (svc *Service) GenerateSingle(nf NewFee) (Record, error) {
	if err := nf.Validate(svc.validate); err != nil {
		return Record{}, err
	}

	periodID := nf.PeriodID
	if _, err := svc.periods.GetPeriod(periodID); err != nil {
		if err != academic.ErrPeriodNotFound {
			return Record{}, err
		}
		svc.logger.Warn(fmt.Sprintf("generating fee for %s: payment period %d not found", nf.StudentCode, periodID))
		periodID = 0
	}

	feeHead := nf.FeeHead
	if feeHead == "" {
		feeHead = DefaultFeeHead
	}
	rec := Record{
		ID:          svc.ids.Generate(),
		StudentCode: nf.StudentCode,
		Grade:       nf.Grade,
		FeeHead:     feeHead,
		Amount:      *nf.Amount,
		PeriodID:    periodID,
		Status:      StatusGenerated,
	}
	if err := svc.repo.CreateFees(rec); err != nil {
		return Record{}, err
	}
	return svc.resolve(rec, nil), nil
}

// RecordPayment adds to the paid amount then re-evaluates status and balance against amount + penalty.
func (svc *Service) RecordPayment(id snowflake.ID, p Payment) (Record, error) {
	if err := p.Validate(svc.validate); err != nil {
		return Record{}, err
	}
	rec, err := svc.repo.UpdateFee(id, func(r *Record) error {
		r.PaidAmount = r.PaidAmount.Add(*p.Amount)
		total := r.Total()
		if r.PaidAmount.GreaterThanOrEqual(total) {
			r.Status = StatusPaid
		} else {
			r.Status = StatusPartial
		}
		r.Balance.Decimal = clampBalance(total, r.PaidAmount)
		r.Balance.Valid = true
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return svc.resolve(rec, nil), nil
}

func (svc *Service) ReversePayment(id snowflake.ID) (Record, error) {
	rec, err := svc.repo.UpdateFee(id, func(r *Record) error {
		applyReversal(r)
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return svc.resolve(rec, nil), nil
}

func (svc *Service) AddPenalty(id snowflake.ID, pi PenaltyInput) (Record, error) {
	if err := pi.Validate(svc.validate); err != nil {
		return Record{}, err
	}
	rec, err := svc.repo.UpdateFee(id, func(r *Record) error {
		applyPenalty(r, *pi.Amount)
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return svc.resolve(rec, nil), nil
}

func (svc *Service) RemovePenalty(id snowflake.ID) (Record, error) {
	rec, err := svc.repo.UpdateFee(id, func(r *Record) error {
		clearPenalty(r)
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return svc.resolve(rec, nil), nil
}

// SyncPayment hands the record to the gateway and returns at once.
func (svc *Service) SyncPayment(id snowflake.ID) error {
	rec, err := svc.repo.GetFeeByID(id)
	if err != nil {
		return err
	}
	svc.syncer.Sync(svc.resolve(rec, nil))
	return nil
}

func (svc *Service) Get(id snowflake.ID) (Record, error) {
	rec, err := svc.repo.GetFeeByID(id)
	if err != nil {
		return Record{}, err
	}
	return svc.resolve(rec, nil), nil
}

// QueryAll returns every record, oldest first.
func (svc *Service) QueryAll() ([]Record, error) {
	recs, err := svc.repo.QueryAllFees()
	if err != nil {
		return nil, err
	}
	periods, err := svc.periodIndex()
	if err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i] = svc.resolve(recs[i], periods)
	}
	return recs, nil
}

// Query applies the ledger filter. Student names come from the directory; a directory failure
// only degrades name search and grade fallback.
func (svc *Service) Query(ctx context.Context, filter LedgerFilter, ordering ...core.DBOrdering) ([]Record, error) {
	recs, err := svc.QueryAll()
	if err != nil {
		return nil, err
	}

	filter.Clean()
	if !filter.IsEmpty() {
		students, err := student.Load(ctx, svc.directory)
		if err != nil {
			svc.logger.Warn("querying fees: directory unavailable", err)
		}
		periods, err := svc.periodIndex()
		if err != nil {
			return nil, err
		}
		recs = FilterLedger(recs, filter, periods, students)
	}

	SortFees(recs, ordering)
	return recs, nil
}

func (svc *Service) PenaltyConfig() (PenaltyConfig, error) {
	cfg, err := svc.repo.GetPenaltyConfig()
	if err != nil {
		return PenaltyConfig{}, err
	}
	if cfg.IsZero() {
		return DefaultPenaltyConfig(), nil
	}
	return cfg, nil
}

func (svc *Service) SavePenaltyConfig(cfg PenaltyConfig) (PenaltyConfig, error) {
	if err := cfg.Validate(svc.validate); err != nil {
		return PenaltyConfig{}, err
	}
	if err := svc.repo.SavePenaltyConfig(cfg); err != nil {
		return PenaltyConfig{}, err
	}
	return cfg, nil
}

func (svc *Service) periodIndex() (map[int]academic.PaymentPeriod, error) {
	periods, err := svc.periods.QueryAllPeriods()
	if err != nil {
		return nil, err
	}
	idx := make(map[int]academic.PaymentPeriod, len(periods))
	for _, p := range periods {
		idx[p.ID] = p
	}
	return idx, nil
}

// resolve fills the read-only fields. periods may be nil, in which case the period is fetched.
func (svc *Service) resolve(rec Record, periods map[int]academic.PaymentPeriod) Record {
	rec.CreatedAt = rec.IssuedAt()
	rec.PaymentPeriod = UnresolvedPeriod

	var period academic.PaymentPeriod
	var ok bool
	if periods != nil {
		period, ok = periods[rec.PeriodID]
	} else if rec.PeriodID > 0 {
		p, err := svc.periods.GetPeriod(rec.PeriodID)
		period, ok = p, err == nil
	}
	if ok {
		rec.PaymentPeriod = period.ShortName
	}
	return rec
}

// FilterLedger keeps the records matching every set field of filter.
func FilterLedger(recs []Record, filter LedgerFilter, periods map[int]academic.PaymentPeriod, students student.Lookup) []Record {
	filtered := make([]Record, 0, len(recs))
	for _, r := range recs {
		if filter.PeriodID > 0 && r.PeriodID != filter.PeriodID {
			continue
		}
		if filter.AcademicYearID > 0 {
			period, ok := periods[r.PeriodID]
			if !ok || period.AcademicYearID != filter.AcademicYearID {
				continue
			}
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		if filter.Grade != "" {
			grade := r.Grade
			if grade == "" {
				grade = students.Grade(r.StudentCode)
			}
			if grade == "" || !core.ContainsFold(grade, filter.Grade) {
				continue
			}
		}
		if filter.Search != "" &&
			!core.ContainsFold(r.StudentCode, filter.Search) &&
			!core.ContainsFold(students.Name(r.StudentCode), filter.Search) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// Ordering fields
const (
	OrderCreatedAt   = "created_at"
	OrderAmount      = "amount"
	OrderBalance     = "balance"
	OrderStudentCode = "student_code"
)

// SortFees sorts in place following ordering; oldest first when no ordering is given.
// Unknown fields are ignored.
func SortFees(recs []Record, ordering []core.DBOrdering) {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: OrderCreatedAt, Ascending: true}}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		for _, ord := range ordering {
			var c int
			switch ord.Field {
			case OrderCreatedAt:
				c = compareIDs(recs[i].ID, recs[j].ID)
			case OrderAmount:
				c = recs[i].Amount.Cmp(recs[j].Amount)
			case OrderBalance:
				c = recs[i].OutstandingBalance().Cmp(recs[j].OutstandingBalance())
			case OrderStudentCode:
				c = strings.Compare(recs[i].StudentCode, recs[j].StudentCode)
			}
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compareIDs(a, b snowflake.ID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
