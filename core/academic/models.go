package academic

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/feeledger/core"
)

type AcademicYear struct {
	ID          int    `json:"id" yaml:"id"`
	ShortName   string `json:"short_name" yaml:"short_name"`
	Description string `json:"description" yaml:"description"`
}

// PaymentPeriod references its AcademicYear by id.
// AcademicYear holds the year's short name, resolved on read; it is empty when the year no longer exists.
type PaymentPeriod struct {
	ID             int    `json:"id" yaml:"id"`
	AcademicYearID int    `json:"academic_year_id" yaml:"academic_year_id"`
	AcademicYear   string `json:"academic_year" yaml:"-"`
	StartDate      string `json:"start_date" yaml:"start_date"` // YYYY-MM-DD
	EndDate        string `json:"end_date" yaml:"end_date"`     // YYYY-MM-DD
	ShortName      string `json:"short_name" yaml:"short_name"`
	Description    string `json:"description" yaml:"description"`
}

// NewAcademicYear contains information needed to create (or replace) an AcademicYear.
type NewAcademicYear struct {
	ShortName   string `json:"short_name" validate:"required,notblank"`
	Description string `json:"description"`
}

func (ny *NewAcademicYear) Validate(validate *validator.Validate) error {
	ny.ShortName = core.CleanString(ny.ShortName)
	ny.Description = core.CleanString(ny.Description)
	return validate.Struct(ny)
}

// NewPaymentPeriod contains information needed to create (or replace) a PaymentPeriod.
type NewPaymentPeriod struct {
	AcademicYearID int    `json:"academic_year_id" validate:"required,gt=0"`
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"end_date" validate:"required,datetime=2006-01-02"`
	ShortName      string `json:"short_name" validate:"required,notblank"`
	Description    string `json:"description"`
}

func (np *NewPaymentPeriod) Validate(validate *validator.Validate) error {
	np.StartDate = core.CleanString(np.StartDate)
	np.EndDate = core.CleanString(np.EndDate)
	np.ShortName = core.CleanString(np.ShortName)
	np.Description = core.CleanString(np.Description)
	return validate.Struct(np)
}
