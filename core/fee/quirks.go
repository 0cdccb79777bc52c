package fee

import "github.com/shopspring/decimal"

// Long-standing ledger behaviours that clients rely on. Each is kept in one place so it can be changed alone.

// applyReversal only resets the status. Amount, penalty, paid amount and balance are left as they were,
// so a reversed record may show a paid amount while being Generated.
func applyReversal(r *Record) {
	r.Status = StatusGenerated
}

// applyPenalty adds to the penalty without re-evaluating status or balance:
// a Paid record stays Paid with a stale balance until the next payment.
func applyPenalty(r *Record, amount decimal.Decimal) {
	r.Penalty = r.Penalty.Add(amount)
}

// clearPenalty resets the penalty to zero whatever was added before; status and balance stay.
func clearPenalty(r *Record) {
	r.Penalty = decimal.Zero
}

// clampBalance floors the remaining balance at zero on overpayment.
func clampBalance(total, paid decimal.Decimal) decimal.Decimal {
	balance := total.Sub(paid)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}
