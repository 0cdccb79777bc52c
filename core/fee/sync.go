package fee

// Syncer pushes a record to the payment gateway. Sync returns immediately;
// delivery happens in the background, is never retried and has no effect on the ledger.
type Syncer interface {
	Sync(rec Record)
}
