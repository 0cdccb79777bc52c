package ledger

import (
	"context"

	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/feehead"
)

// Snapshot is the whole persisted state of the ledger.
type Snapshot struct {
	FeeRecords    []fee.Record             `json:"fee_records" yaml:"fee_records"`
	Periods       []academic.PaymentPeriod `json:"periods" yaml:"periods"`
	AcademicYears []academic.AcademicYear  `json:"academic_years" yaml:"academic_years"`
	FeeHeads      []feehead.FeeHead        `json:"fee_heads" yaml:"fee_heads"`
	PenaltyConfig fee.PenaltyConfig        `json:"penalty_config" yaml:"penalty_config"`
}

type (
	// Persistence loads and saves whole snapshots. Load of a store that was never saved returns an empty Snapshot.
	Persistence interface {
		Load(ctx context.Context) (Snapshot, error)
		Save(ctx context.Context, snap Snapshot) error
	}

	// Store is the in-memory source of truth the session persists.
	Store interface {
		Snapshot() Snapshot
		Restore(snap Snapshot)
	}
)

type discard struct{}

// Discard keeps nothing; used when the ledger lives in memory only.
var Discard Persistence = discard{}

func (discard) Load(context.Context) (Snapshot, error) { return Snapshot{}, nil }

func (discard) Save(context.Context, Snapshot) error { return nil }
