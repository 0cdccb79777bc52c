package inmemdb

import (
	"sort"

	"github.com/trezcool/feeledger/core/feehead"
)

type feeHeadRepository struct {
	db *DB
}

var _ feehead.Repository = (*feeHeadRepository)(nil) // interface compliance check

func NewFeeHeadRepository(db *DB) feehead.Repository {
	return &feeHeadRepository{db: db}
}

func (repo *feeHeadRepository) CreateFeeHead(head feehead.FeeHead) (feehead.FeeHead, error) {
	t := repo.db.feeHead
	t.Lock()
	t.pkCount++
	head.ID = t.pkCount
	t.table[head.ID] = &head
	t.Unlock()

	repo.db.changed()
	return head, nil
}

func (repo *feeHeadRepository) QueryAllFeeHeads() ([]feehead.FeeHead, error) {
	t := repo.db.feeHead
	t.RLock()
	defer t.RUnlock()

	heads := make([]feehead.FeeHead, 0, len(t.table))
	for _, h := range t.table {
		heads = append(heads, *h)
	}
	sort.Slice(heads, func(i, j int) bool { return heads[i].ID < heads[j].ID })
	return heads, nil
}

func (repo *feeHeadRepository) GetFeeHeadByID(id int) (feehead.FeeHead, error) {
	t := repo.db.feeHead
	t.RLock()
	defer t.RUnlock()

	if h, ok := t.table[id]; ok {
		return *h, nil
	}
	return feehead.FeeHead{}, feehead.ErrNotFound
}

func (repo *feeHeadRepository) UpdateFeeHead(head feehead.FeeHead) (feehead.FeeHead, error) {
	t := repo.db.feeHead
	t.Lock()
	if _, ok := t.table[head.ID]; !ok {
		t.Unlock()
		return feehead.FeeHead{}, feehead.ErrNotFound
	}
	t.table[head.ID] = &head
	t.Unlock()

	repo.db.changed()
	return head, nil
}

func (repo *feeHeadRepository) DeleteFeeHead(id int) error {
	t := repo.db.feeHead
	t.Lock()
	if _, ok := t.table[id]; !ok {
		t.Unlock()
		return feehead.ErrNotFound
	}
	delete(t.table, id)
	t.Unlock()

	repo.db.changed()
	return nil
}
