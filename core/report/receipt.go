package report

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/student"
)

// ReceiptData is everything a receipt renderer needs.
type ReceiptData struct {
	ID            snowflake.ID    `json:"id"`
	Date          time.Time       `json:"date"`
	StudentName   string          `json:"student_name"`
	StudentCode   string          `json:"student_code"`
	Grade         string          `json:"grade"`
	PaymentPeriod string          `json:"payment_period"`
	Amount        decimal.Decimal `json:"amount"`
	Penalty       decimal.Decimal `json:"penalty"`
	TotalDue      decimal.Decimal `json:"total_due"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Balance       decimal.Decimal `json:"balance"`
}

// AssembleReceipt builds the receipt of rec, dated now.
func AssembleReceipt(rec fee.Record, students student.Lookup) ReceiptData {
	v := newView(rec, students)
	total := rec.Total()
	return ReceiptData{
		ID:            rec.ID,
		Date:          core.NowFunc(),
		StudentName:   v.StudentName,
		StudentCode:   rec.StudentCode,
		Grade:         v.Grade,
		PaymentPeriod: rec.PaymentPeriod,
		Amount:        rec.Amount,
		Penalty:       rec.Penalty,
		TotalDue:      total,
		PaidAmount:    receiptPaidAmount(rec.PaidAmount, total),
		Balance:       receiptBalance(rec.Balance),
	}
}

// receiptPaidAmount shows the total due when nothing was paid, so receipts of unpaid records read as settled.
func receiptPaidAmount(paid, total decimal.Decimal) decimal.Decimal {
	if paid.IsZero() {
		return total
	}
	return paid
}

func receiptBalance(balance decimal.NullDecimal) decimal.Decimal {
	if balance.Valid {
		return balance.Decimal
	}
	return decimal.Zero
}
