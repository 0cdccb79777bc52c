package inmemdb

import (
	"sort"

	"github.com/bwmarrin/snowflake"

	"github.com/trezcool/feeledger/core/fee"
)

type feeRepository struct {
	db *DB
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) fee.Repository {
	return &feeRepository{db: db}
}

func (repo *feeRepository) CreateFees(recs ...fee.Record) error {
	if len(recs) == 0 {
		return nil
	}
	t := repo.db.fee
	t.Lock()
	for _, r := range recs {
		r := r
		r.PaymentPeriod = ""
		t.table[r.ID] = &r
	}
	t.Unlock()

	repo.db.changed()
	return nil
}

func (repo *feeRepository) QueryAllFees() ([]fee.Record, error) {
	t := repo.db.fee
	t.RLock()
	defer t.RUnlock()

	recs := make([]fee.Record, 0, len(t.table))
	for _, r := range t.table {
		recs = append(recs, *r)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}

func (repo *feeRepository) GetFeeByID(id snowflake.ID) (fee.Record, error) {
	t := repo.db.fee
	t.RLock()
	defer t.RUnlock()

	if r, ok := t.table[id]; ok {
		return *r, nil
	}
	return fee.Record{}, fee.ErrNotFound
}

func (repo *feeRepository) UpdateFee(id snowflake.ID, fn func(*fee.Record) error) (fee.Record, error) {
	t := repo.db.fee
	t.Lock()
	orig, ok := t.table[id]
	if !ok {
		t.Unlock()
		return fee.Record{}, fee.ErrNotFound
	}
	rec := *orig // fn works on a copy: a failing fn leaves the row untouched
	if err := fn(&rec); err != nil {
		t.Unlock()
		return fee.Record{}, err
	}
	rec.ID = id
	t.table[id] = &rec
	t.Unlock()

	repo.db.changed()
	return rec, nil
}

func (repo *feeRepository) GetPenaltyConfig() (fee.PenaltyConfig, error) {
	t := repo.db.fee
	t.RLock()
	defer t.RUnlock()
	return t.penalty, nil
}

func (repo *feeRepository) SavePenaltyConfig(cfg fee.PenaltyConfig) error {
	t := repo.db.fee
	t.Lock()
	t.penalty = cfg
	t.Unlock()

	repo.db.changed()
	return nil
}
