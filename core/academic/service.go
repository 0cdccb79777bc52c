package academic

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/feeledger/core"
)

var (
	// errors
	ErrYearNotFound   = errors.New("academic year not found")
	ErrPeriodNotFound = errors.New("payment period not found")
)

type (
	Repository interface {
		CreateYear(year AcademicYear) (AcademicYear, error)
		QueryAllYears() ([]AcademicYear, error)
		GetYearByID(id int) (AcademicYear, error)
		UpdateYear(year AcademicYear) (AcademicYear, error)
		DeleteYear(id int) error

		CreatePeriod(period PaymentPeriod) (PaymentPeriod, error)
		QueryAllPeriods() ([]PaymentPeriod, error)
		GetPeriodByID(id int) (PaymentPeriod, error)
		UpdatePeriod(period PaymentPeriod) (PaymentPeriod, error)
		DeletePeriod(id int) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Academic Years

func (svc *Service) CreateYear(ny NewAcademicYear) (AcademicYear, error) {
	if err := ny.Validate(svc.validate); err != nil {
		return AcademicYear{}, err
	}
	return svc.repo.CreateYear(AcademicYear{ShortName: ny.ShortName, Description: ny.Description})
}

func (svc *Service) QueryAllYears() ([]AcademicYear, error) {
	return svc.repo.QueryAllYears()
}

func (svc *Service) GetYear(id int) (AcademicYear, error) {
	return svc.repo.GetYearByID(id)
}

func (svc *Service) UpdateYear(id int, uy NewAcademicYear) (AcademicYear, error) {
	if err := uy.Validate(svc.validate); err != nil {
		return AcademicYear{}, err
	}
	return svc.repo.UpdateYear(AcademicYear{ID: id, ShortName: uy.ShortName, Description: uy.Description})
}

// DeleteYear deletes the year even when periods still reference it.
func (svc *Service) DeleteYear(id int) error {
	return svc.repo.DeleteYear(id)
}

// Payment Periods

func (svc *Service) checkYear(id int) error {
	if _, err := svc.repo.GetYearByID(id); err != nil {
		if err == ErrYearNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "academic_year_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) CreatePeriod(np NewPaymentPeriod) (PaymentPeriod, error) {
	if err := np.Validate(svc.validate); err != nil {
		return PaymentPeriod{}, err
	}
	if err := svc.checkYear(np.AcademicYearID); err != nil {
		return PaymentPeriod{}, err
	}
	period, err := svc.repo.CreatePeriod(PaymentPeriod{
		AcademicYearID: np.AcademicYearID,
		StartDate:      np.StartDate,
		EndDate:        np.EndDate,
		ShortName:      np.ShortName,
		Description:    np.Description,
	})
	if err != nil {
		return PaymentPeriod{}, err
	}
	return svc.resolve(period), nil
}

func (svc *Service) QueryAllPeriods() ([]PaymentPeriod, error) {
	periods, err := svc.repo.QueryAllPeriods()
	if err != nil {
		return nil, err
	}
	years, err := svc.yearNames()
	if err != nil {
		return nil, err
	}
	for i := range periods {
		periods[i].AcademicYear = years[periods[i].AcademicYearID]
	}
	return periods, nil
}

func (svc *Service) GetPeriod(id int) (PaymentPeriod, error) {
	period, err := svc.repo.GetPeriodByID(id)
	if err != nil {
		return PaymentPeriod{}, err
	}
	return svc.resolve(period), nil
}

func (svc *Service) UpdatePeriod(id int, up NewPaymentPeriod) (PaymentPeriod, error) {
	if err := up.Validate(svc.validate); err != nil {
		return PaymentPeriod{}, err
	}
	if err := svc.checkYear(up.AcademicYearID); err != nil {
		return PaymentPeriod{}, err
	}
	period, err := svc.repo.UpdatePeriod(PaymentPeriod{
		ID:             id,
		AcademicYearID: up.AcademicYearID,
		StartDate:      up.StartDate,
		EndDate:        up.EndDate,
		ShortName:      up.ShortName,
		Description:    up.Description,
	})
	if err != nil {
		return PaymentPeriod{}, err
	}
	return svc.resolve(period), nil
}

func (svc *Service) DeletePeriod(id int) error {
	return svc.repo.DeletePeriod(id)
}

// resolve sets the year's short name on the period; a dangling year reference resolves to "".
func (svc *Service) resolve(period PaymentPeriod) PaymentPeriod {
	if year, err := svc.repo.GetYearByID(period.AcademicYearID); err == nil {
		period.AcademicYear = year.ShortName
	} else {
		period.AcademicYear = ""
	}
	return period
}

func (svc *Service) yearNames() (map[int]string, error) {
	years, err := svc.repo.QueryAllYears()
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(years))
	for _, y := range years {
		names[y.ID] = y.ShortName
	}
	return names, nil
}
