package gatewaysvc

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/fee"
)

// Acknowledgement is what the gateway hands back for a synced record.
type Acknowledgement struct {
	ID          uuid.UUID
	FeeID       string
	StudentCode string
	Status      fee.Status
	PaidAmount  string
	SyncedAt    time.Time
}

var (
	// Acknowledgements collects what the mock syncer acknowledged.
	Acknowledgements = make([]Acknowledgement, 0)
	mu               sync.Mutex
)

// consoleSyncer stands in for the payment gateway: it logs each record after a fixed delay.
type consoleSyncer struct {
	delay         time.Duration
	logger        core.Logger
	disableOutput bool
}

var _ fee.Syncer = (*consoleSyncer)(nil)

func NewConsoleSyncer(delay time.Duration, logger core.Logger) fee.Syncer {
	return &consoleSyncer{delay: delay, logger: logger}
}

func (s consoleSyncer) Sync(rec fee.Record) {
	go s.sync(rec)
}

func (s consoleSyncer) sync(rec fee.Record) Acknowledgement {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	ack := Acknowledgement{
		ID:          uuid.New(),
		FeeID:       rec.ID.String(),
		StudentCode: rec.StudentCode,
		Status:      rec.Status,
		PaidAmount:  rec.PaidAmount.String(),
		SyncedAt:    core.NowFunc(),
	}

	if !s.disableOutput {
		s.logger.Info(fmt.Sprintf("payment synced: fee %s of %s", ack.FeeID, ack.StudentCode), map[string]interface{}{
			"ack":         ack.ID.String(),
			"status":      ack.Status,
			"paid_amount": ack.PaidAmount,
		})
	}
	return ack
}

type consoleSyncerMock struct {
	consoleSyncer
}

func NewConsoleSyncerMock(logger core.Logger) fee.Syncer {
	return &consoleSyncerMock{
		consoleSyncer: consoleSyncer{logger: logger, disableOutput: true},
	}
}

func (s *consoleSyncerMock) Sync(rec fee.Record) {
	// run synchronously
	ack := s.sync(rec)
	mu.Lock()
	Acknowledgements = append(Acknowledgements, ack)
	mu.Unlock()
}

// LastAcknowledgement returns the most recent acknowledgement of the mock syncer, if any.
func LastAcknowledgement() (Acknowledgement, bool) {
	mu.Lock()
	defer mu.Unlock()
	if len(Acknowledgements) == 0 {
		return Acknowledgement{}, false
	}
	return Acknowledgements[len(Acknowledgements)-1], true
}
