package sqlxstore

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/ledger"
)

var byID = core.DBOrdering{Field: "id", Ascending: true}.String()

const (
	insertYear = `INSERT INTO academic_year (id, short_name, description) VALUES (:id, :short_name, :description)`

	insertPeriod = `INSERT INTO payment_period (id, academic_year_id, start_date, end_date, short_name, description)
		VALUES (:id, :academic_year_id, :start_date, :end_date, :short_name, :description)`

	insertFeeHead = `INSERT INTO fee_head (id, name, default_amount) VALUES (:id, :name, :default_amount)`

	insertFee = `INSERT INTO fee_record (id, student_code, grade, fee_head, amount, penalty, payment_period_id, status, paid_amount, balance)
		VALUES (:id, :student_code, :grade, :fee_head, :amount, :penalty, :payment_period_id, :status, :paid_amount, :balance)`

	insertPenalty = `INSERT INTO penalty_config (id, method, amount, period_days, notification_period, max_notifications, termination_message, skip_sundays)
		VALUES (1, :method, :amount, :period_days, :notification_period, :max_notifications, :termination_message, :skip_sundays)`
)

// snapshotStore persists ledger snapshots in Postgres. Save replaces every table in one transaction.
type snapshotStore struct {
	db *sqlx.DB
}

var _ ledger.Persistence = (*snapshotStore)(nil) // interface compliance check

func NewSnapshotStore(db *sql.DB) ledger.Persistence {
	return &snapshotStore{db: sqlx.NewDb(db, "postgres")}
}

func (store *snapshotStore) Load(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot

	var years []yearRow
	if err := store.db.SelectContext(ctx, &years, "SELECT id, short_name, description FROM academic_year ORDER BY "+byID); err != nil {
		return ledger.Snapshot{}, errors.Wrap(err, "loading academic years")
	}
	for _, r := range years {
		snap.AcademicYears = append(snap.AcademicYears, r.model())
	}

	var periods []periodRow
	q := `SELECT id, academic_year_id, to_char(start_date, 'YYYY-MM-DD') AS start_date, to_char(end_date, 'YYYY-MM-DD') AS end_date,
		short_name, description FROM payment_period ORDER BY ` + byID
	if err := store.db.SelectContext(ctx, &periods, q); err != nil {
		return ledger.Snapshot{}, errors.Wrap(err, "loading payment periods")
	}
	for _, r := range periods {
		snap.Periods = append(snap.Periods, r.model())
	}

	var heads []feeHeadRow
	if err := store.db.SelectContext(ctx, &heads, "SELECT id, name, default_amount FROM fee_head ORDER BY "+byID); err != nil {
		return ledger.Snapshot{}, errors.Wrap(err, "loading fee heads")
	}
	for _, r := range heads {
		snap.FeeHeads = append(snap.FeeHeads, r.model())
	}

	var fees []feeRow
	q = `SELECT id, student_code, grade, fee_head, amount, penalty, payment_period_id, status, paid_amount, balance
		FROM fee_record ORDER BY ` + byID
	if err := store.db.SelectContext(ctx, &fees, q); err != nil {
		return ledger.Snapshot{}, errors.Wrap(err, "loading fee records")
	}
	for _, r := range fees {
		snap.FeeRecords = append(snap.FeeRecords, r.model())
	}

	var penalty penaltyRow
	q = `SELECT method, amount, period_days, notification_period, max_notifications, termination_message, skip_sundays
		FROM penalty_config WHERE id = 1`
	switch err := store.db.GetContext(ctx, &penalty, q); err {
	case nil:
		snap.PenaltyConfig = penalty.model()
	case sql.ErrNoRows: // never configured
	default:
		return ledger.Snapshot{}, errors.Wrap(err, "loading penalty config")
	}

	return snap, nil
}

func (store *snapshotStore) Save(ctx context.Context, snap ledger.Snapshot) (err error) {
	tx, err := store.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"penalty_config", "fee_record", "fee_head", "payment_period", "academic_year"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "clearing %s", table)
		}
	}

	for _, y := range snap.AcademicYears {
		if _, err = tx.NamedExecContext(ctx, insertYear, toYearRow(y)); err != nil {
			return errors.Wrap(err, "inserting academic year")
		}
	}
	for _, p := range snap.Periods {
		if _, err = tx.NamedExecContext(ctx, insertPeriod, toPeriodRow(p)); err != nil {
			return errors.Wrap(err, "inserting payment period")
		}
	}
	for _, h := range snap.FeeHeads {
		if _, err = tx.NamedExecContext(ctx, insertFeeHead, toFeeHeadRow(h)); err != nil {
			return errors.Wrap(err, "inserting fee head")
		}
	}
	for _, rec := range snap.FeeRecords {
		if _, err = tx.NamedExecContext(ctx, insertFee, toFeeRow(rec)); err != nil {
			return errors.Wrap(err, "inserting fee record")
		}
	}
	if !snap.PenaltyConfig.IsZero() {
		if _, err = tx.NamedExecContext(ctx, insertPenalty, toPenaltyRow(snap.PenaltyConfig)); err != nil {
			return errors.Wrap(err, "inserting penalty config")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing snapshot")
	}
	return nil
}
