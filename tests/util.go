package testutil

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/fee"
)

// NewValidator returns a validator and its translator set up the way the apps do.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate, translator
}

func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func DecPtr(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}

// IDs hands out snowflake IDs issued at a fixed instant, in increasing order.
type IDs struct {
	At   time.Time
	mu   sync.Mutex
	step int64
}

var _ fee.IDGenerator = (*IDs)(nil)

func (ids *IDs) Generate() snowflake.ID {
	ids.mu.Lock()
	defer ids.mu.Unlock()
	ids.step++
	return fee.IDAt(ids.At, 1, ids.step)
}

// Logger records every message it receives.
type Logger struct {
	mu       sync.Mutex
	Messages []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, fmt.Sprintf("%s %s", level, msg))
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.log("DEBUG", msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.log("INFO", msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.log("WARN", msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.log("ERROR", msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.log("FATAL", msg) }

func (l *Logger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Messages)
}

// CreatePeriod creates an academic year and one of its payment periods.
func CreatePeriod(t *testing.T, svc *academic.Service, year, period, start, end string) academic.PaymentPeriod {
	y, err := svc.CreateYear(academic.NewAcademicYear{ShortName: year})
	if err != nil {
		t.Fatalf("CreatePeriod() failed: %v", err)
	}
	p, err := svc.CreatePeriod(academic.NewPaymentPeriod{
		AcademicYearID: y.ID,
		ShortName:      period,
		StartDate:      start,
		EndDate:        end,
	})
	if err != nil {
		t.Fatalf("CreatePeriod() failed: %v", err)
	}
	return p
}

// CreateFee stores rec as is; zero fields default to a Generated record of the General fee head.
func CreateFee(t *testing.T, repo fee.Repository, rec fee.Record) fee.Record {
	if rec.Status == "" {
		rec.Status = fee.StatusGenerated
	}
	if rec.FeeHead == "" {
		rec.FeeHead = fee.DefaultFeeHead
	}
	if err := repo.CreateFees(rec); err != nil {
		t.Fatalf("CreateFee() failed: %v", err)
	}
	return rec
}
