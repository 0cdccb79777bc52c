package inmemdb

import (
	"sort"

	"github.com/trezcool/feeledger/core/academic"
)

type academicRepository struct {
	db *DB
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *DB) academic.Repository {
	return &academicRepository{db: db}
}

// Academic Years

func (repo *academicRepository) CreateYear(year academic.AcademicYear) (academic.AcademicYear, error) {
	t := repo.db.year
	t.Lock()
	t.pkCount++
	year.ID = t.pkCount
	t.table[year.ID] = &year
	t.Unlock()

	repo.db.changed()
	return year, nil
}

func (repo *academicRepository) QueryAllYears() ([]academic.AcademicYear, error) {
	t := repo.db.year
	t.RLock()
	defer t.RUnlock()

	years := make([]academic.AcademicYear, 0, len(t.table))
	for _, y := range t.table {
		years = append(years, *y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].ID < years[j].ID })
	return years, nil
}

func (repo *academicRepository) GetYearByID(id int) (academic.AcademicYear, error) {
	t := repo.db.year
	t.RLock()
	defer t.RUnlock()

	if y, ok := t.table[id]; ok {
		return *y, nil
	}
	return academic.AcademicYear{}, academic.ErrYearNotFound
}

func (repo *academicRepository) UpdateYear(year academic.AcademicYear) (academic.AcademicYear, error) {
	t := repo.db.year
	t.Lock()
	if _, ok := t.table[year.ID]; !ok {
		t.Unlock()
		return academic.AcademicYear{}, academic.ErrYearNotFound
	}
	t.table[year.ID] = &year
	t.Unlock()

	repo.db.changed()
	return year, nil
}

func (repo *academicRepository) DeleteYear(id int) error {
	t := repo.db.year
	t.Lock()
	if _, ok := t.table[id]; !ok {
		t.Unlock()
		return academic.ErrYearNotFound
	}
	delete(t.table, id)
	t.Unlock()

	repo.db.changed()
	return nil
}

// Payment Periods

func (repo *academicRepository) CreatePeriod(period academic.PaymentPeriod) (academic.PaymentPeriod, error) {
	t := repo.db.period
	t.Lock()
	t.pkCount++
	period.ID = t.pkCount
	period.AcademicYear = ""
	t.table[period.ID] = &period
	t.Unlock()

	repo.db.changed()
	return period, nil
}

func (repo *academicRepository) QueryAllPeriods() ([]academic.PaymentPeriod, error) {
	t := repo.db.period
	t.RLock()
	defer t.RUnlock()

	periods := make([]academic.PaymentPeriod, 0, len(t.table))
	for _, p := range t.table {
		periods = append(periods, *p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].ID < periods[j].ID })
	return periods, nil
}

func (repo *academicRepository) GetPeriodByID(id int) (academic.PaymentPeriod, error) {
	t := repo.db.period
	t.RLock()
	defer t.RUnlock()

	if p, ok := t.table[id]; ok {
		return *p, nil
	}
	return academic.PaymentPeriod{}, academic.ErrPeriodNotFound
}

func (repo *academicRepository) UpdatePeriod(period academic.PaymentPeriod) (academic.PaymentPeriod, error) {
	t := repo.db.period
	t.Lock()
	if _, ok := t.table[period.ID]; !ok {
		t.Unlock()
		return academic.PaymentPeriod{}, academic.ErrPeriodNotFound
	}
	period.AcademicYear = ""
	t.table[period.ID] = &period
	t.Unlock()

	repo.db.changed()
	return period, nil
}

func (repo *academicRepository) DeletePeriod(id int) error {
	t := repo.db.period
	t.Lock()
	if _, ok := t.table[id]; !ok {
		t.Unlock()
		return academic.ErrPeriodNotFound
	}
	delete(t.table, id)
	t.Unlock()

	repo.db.changed()
	return nil
}
