package inmemdb

import (
	"sort"
	"sync"

	"github.com/bwmarrin/snowflake"

	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/feehead"
	"github.com/trezcool/feeledger/core/ledger"
)

type (
	DB struct {
		year    *yearTable
		period  *periodTable
		feeHead *feeHeadTable
		fee     *feeTable

		hookMu   sync.RWMutex
		onChange func()
	}

	yearTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*academic.AcademicYear
	}

	periodTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*academic.PaymentPeriod
	}

	feeHeadTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*feehead.FeeHead
	}

	feeTable struct {
		sync.RWMutex
		table   map[snowflake.ID]*fee.Record
		penalty fee.PenaltyConfig
	}
)

var _ ledger.Store = (*DB)(nil) // interface compliance check

func Open() *DB {
	return &DB{
		year:    &yearTable{table: make(map[int]*academic.AcademicYear)},
		period:  &periodTable{table: make(map[int]*academic.PaymentPeriod)},
		feeHead: &feeHeadTable{table: make(map[int]*feehead.FeeHead)},
		fee:     &feeTable{table: make(map[snowflake.ID]*fee.Record)},
	}
}

// OnChange registers fn to be called after every successful write.
func (db *DB) OnChange(fn func()) {
	db.hookMu.Lock()
	defer db.hookMu.Unlock()
	db.onChange = fn
}

func (db *DB) changed() {
	db.hookMu.RLock()
	fn := db.onChange
	db.hookMu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Snapshot copies every table, rows sorted by primary key.
func (db *DB) Snapshot() ledger.Snapshot {
	var snap ledger.Snapshot

	db.year.RLock()
	snap.AcademicYears = make([]academic.AcademicYear, 0, len(db.year.table))
	for _, y := range db.year.table {
		snap.AcademicYears = append(snap.AcademicYears, *y)
	}
	db.year.RUnlock()
	sort.Slice(snap.AcademicYears, func(i, j int) bool { return snap.AcademicYears[i].ID < snap.AcademicYears[j].ID })

	db.period.RLock()
	snap.Periods = make([]academic.PaymentPeriod, 0, len(db.period.table))
	for _, p := range db.period.table {
		snap.Periods = append(snap.Periods, *p)
	}
	db.period.RUnlock()
	sort.Slice(snap.Periods, func(i, j int) bool { return snap.Periods[i].ID < snap.Periods[j].ID })

	db.feeHead.RLock()
	snap.FeeHeads = make([]feehead.FeeHead, 0, len(db.feeHead.table))
	for _, h := range db.feeHead.table {
		snap.FeeHeads = append(snap.FeeHeads, *h)
	}
	db.feeHead.RUnlock()
	sort.Slice(snap.FeeHeads, func(i, j int) bool { return snap.FeeHeads[i].ID < snap.FeeHeads[j].ID })

	db.fee.RLock()
	snap.FeeRecords = make([]fee.Record, 0, len(db.fee.table))
	for _, r := range db.fee.table {
		snap.FeeRecords = append(snap.FeeRecords, *r)
	}
	snap.PenaltyConfig = db.fee.penalty
	db.fee.RUnlock()
	sort.Slice(snap.FeeRecords, func(i, j int) bool { return snap.FeeRecords[i].ID < snap.FeeRecords[j].ID })

	return snap
}

// Restore replaces every table with the snapshot's rows. The change hook is not called.
func (db *DB) Restore(snap ledger.Snapshot) {
	db.year.Lock()
	db.year.table = make(map[int]*academic.AcademicYear, len(snap.AcademicYears))
	db.year.pkCount = 0
	for _, y := range snap.AcademicYears {
		y := y
		db.year.table[y.ID] = &y
		if y.ID > db.year.pkCount {
			db.year.pkCount = y.ID
		}
	}
	db.year.Unlock()

	db.period.Lock()
	db.period.table = make(map[int]*academic.PaymentPeriod, len(snap.Periods))
	db.period.pkCount = 0
	for _, p := range snap.Periods {
		p := p
		p.AcademicYear = ""
		db.period.table[p.ID] = &p
		if p.ID > db.period.pkCount {
			db.period.pkCount = p.ID
		}
	}
	db.period.Unlock()

	db.feeHead.Lock()
	db.feeHead.table = make(map[int]*feehead.FeeHead, len(snap.FeeHeads))
	db.feeHead.pkCount = 0
	for _, h := range snap.FeeHeads {
		h := h
		db.feeHead.table[h.ID] = &h
		if h.ID > db.feeHead.pkCount {
			db.feeHead.pkCount = h.ID
		}
	}
	db.feeHead.Unlock()

	db.fee.Lock()
	db.fee.table = make(map[snowflake.ID]*fee.Record, len(snap.FeeRecords))
	for _, r := range snap.FeeRecords {
		r := r
		db.fee.table[r.ID] = &r
	}
	db.fee.penalty = snap.PenaltyConfig
	db.fee.Unlock()
}
