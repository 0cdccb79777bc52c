package fee

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/trezcool/feeledger/core"
)

type Status string

// Statuses
const (
	StatusGenerated Status = "Generated"
	StatusPartial   Status = "Partial"
	StatusPaid      Status = "Paid"
)

const (
	DefaultFeeHead = "General"

	// UnresolvedPeriod labels records whose period reference does not resolve.
	UnresolvedPeriod = "N/A"
)

// Record is one fee obligation of one student for one payment period.
// Balance stays null until the first payment; readers treat a null balance as Total().
type Record struct {
	ID            snowflake.ID        `json:"id" yaml:"id"`
	StudentCode   string              `json:"student_code" yaml:"student_code"`
	Grade         string              `json:"grade" yaml:"grade"`
	FeeHead       string              `json:"fee_head" yaml:"fee_head"`
	Amount        decimal.Decimal     `json:"amount" yaml:"amount"`
	Penalty       decimal.Decimal     `json:"penalty" yaml:"penalty"`
	PeriodID      int                 `json:"payment_period_id" yaml:"payment_period_id"`
	PaymentPeriod string              `json:"payment_period" yaml:"-"` // resolved on read
	Status        Status              `json:"status" yaml:"status"`
	PaidAmount    decimal.Decimal     `json:"paid_amount" yaml:"paid_amount"`
	Balance       decimal.NullDecimal `json:"balance" yaml:"balance"`
	CreatedAt     time.Time           `json:"created_at" yaml:"-"` // resolved on read
}

// IssuedAt is the creation time carried by the record's ID.
func (r Record) IssuedAt() time.Time {
	return time.UnixMilli(r.ID.Time()).UTC()
}

// Total is the amount due: principal plus penalty.
func (r Record) Total() decimal.Decimal {
	return r.Amount.Add(r.Penalty)
}

// OutstandingBalance is the stored balance, or Total() when no payment was ever recorded.
func (r Record) OutstandingBalance() decimal.Decimal {
	if r.Balance.Valid {
		return r.Balance.Decimal
	}
	return r.Total()
}

// SuggestedPayment is what is left to pay, floored at zero.
func (r Record) SuggestedPayment() decimal.Decimal {
	return clampBalance(r.Total(), r.PaidAmount)
}

// NewFee contains information needed to generate a single fee record.
type NewFee struct {
	StudentCode string           `json:"student_code" validate:"required,notblank"`
	Amount      *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	PeriodID    int              `json:"payment_period_id" validate:"required,gt=0"`
	Grade       string           `json:"grade"`
	FeeHead     string           `json:"fee_head"`
}

func (nf *NewFee) Validate(validate *validator.Validate) error {
	nf.StudentCode = core.CleanString(nf.StudentCode)
	nf.Grade = core.CleanString(nf.Grade)
	nf.FeeHead = core.CleanString(nf.FeeHead)
	return validate.Struct(nf)
}

type Payment struct {
	Amount *decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

func (p Payment) Validate(validate *validator.Validate) error { return validate.Struct(p) }

type PenaltyInput struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

func (p PenaltyInput) Validate(validate *validator.Validate) error { return validate.Struct(p) }

// LedgerFilter narrows the ledger listing. Set fields are ANDed.
type LedgerFilter struct {
	AcademicYearID int    `query:"academic_year_id"`
	PeriodID       int    `query:"payment_period_id"`
	Grade          string `query:"grade"`  // case-insensitive substring of the effective grade
	Status         string `query:"status"` // exact stored status
	Search         string `query:"search"` // case-insensitive substring of student code or name
}

func (lf *LedgerFilter) Clean() {
	lf.Grade = core.CleanString(lf.Grade)
	lf.Status = core.CleanString(lf.Status)
	lf.Search = core.CleanString(lf.Search)
}

func (lf *LedgerFilter) IsEmpty() bool {
	return lf.AcademicYearID == 0 && lf.PeriodID == 0 && lf.Grade == "" && lf.Status == "" && lf.Search == ""
}
