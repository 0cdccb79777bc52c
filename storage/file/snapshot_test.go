package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/ledger"
)

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "ledger.yaml")
	store := NewSnapshotStore(path)

	t.Run("missing file", func(t *testing.T) {
		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.FeeRecords)
	})

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	want := ledger.Snapshot{
		AcademicYears: []academic.AcademicYear{{ID: 1, ShortName: "2024"}},
		Periods:       []academic.PaymentPeriod{{ID: 1, AcademicYearID: 1, ShortName: "Term 1", StartDate: "2024-01-08", EndDate: "2024-04-05"}},
		FeeRecords: []fee.Record{
			{
				ID: fee.IDAt(at, 1, 1), StudentCode: "S001", FeeHead: fee.DefaultFeeHead, Amount: decimal.RequireFromString("200.50"),
				PeriodID: 1, Status: fee.StatusPartial, PaidAmount: decimal.NewFromInt(150),
				Balance: decimal.NewNullDecimal(decimal.RequireFromString("50.50")),
			},
			{ID: fee.IDAt(at, 1, 2), StudentCode: "S002", Amount: decimal.NewFromInt(80), Status: fee.StatusGenerated},
		},
		PenaltyConfig: fee.DefaultPenaltyConfig(),
	}

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, want))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, want.AcademicYears, got.AcademicYears)
		assert.Equal(t, want.Periods, got.Periods)
		require.Len(t, got.FeeRecords, 2)

		partial := got.FeeRecords[0]
		assert.Equal(t, want.FeeRecords[0].ID, partial.ID)
		assert.Equal(t, "200.5", partial.Amount.String())
		assert.Equal(t, "150", partial.PaidAmount.String())
		assert.True(t, partial.Balance.Valid)
		assert.Equal(t, "50.5", partial.Balance.Decimal.String())
		assert.False(t, got.FeeRecords[1].Balance.Valid, "null balance survives")
		assert.Equal(t, fee.PenaltyIncremental, got.PenaltyConfig.Method)
		assert.True(t, got.PenaltyConfig.SkipSundays)

		matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, matches, "no temporary file left behind")
	})

	t.Run("empty file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))
		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.FeeRecords)
	})

	t.Run("corrupt file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("fee_records: [oops"), 0o600))
		_, err := store.Load(ctx)
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, store.Save(cctx, want))
	})
}
