package feehead

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/trezcool/feeledger/core"
)

var ErrNotFound = errors.New("fee head not found")

// FeeHead is a named fee category. Its DefaultAmount only pre-fills generation forms.
type FeeHead struct {
	ID            int             `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	DefaultAmount decimal.Decimal `json:"default_amount" yaml:"default_amount"`
}

type NewFeeHead struct {
	Name          string           `json:"name" validate:"required,notblank"`
	DefaultAmount *decimal.Decimal `json:"default_amount" validate:"required,gte=0"`
}

func (nh *NewFeeHead) Validate(validate *validator.Validate) error {
	nh.Name = core.CleanString(nh.Name)
	return validate.Struct(nh)
}

type (
	Repository interface {
		CreateFeeHead(head FeeHead) (FeeHead, error)
		QueryAllFeeHeads() ([]FeeHead, error)
		GetFeeHeadByID(id int) (FeeHead, error)
		UpdateFeeHead(head FeeHead) (FeeHead, error)
		DeleteFeeHead(id int) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(nh NewFeeHead) (FeeHead, error) {
	if err := nh.Validate(svc.validate); err != nil {
		return FeeHead{}, err
	}
	return svc.repo.CreateFeeHead(FeeHead{Name: nh.Name, DefaultAmount: *nh.DefaultAmount})
}

func (svc *Service) QueryAll() ([]FeeHead, error) {
	return svc.repo.QueryAllFeeHeads()
}

func (svc *Service) Get(id int) (FeeHead, error) {
	return svc.repo.GetFeeHeadByID(id)
}

func (svc *Service) Update(id int, uh NewFeeHead) (FeeHead, error) {
	if err := uh.Validate(svc.validate); err != nil {
		return FeeHead{}, err
	}
	return svc.repo.UpdateFeeHead(FeeHead{ID: id, Name: uh.Name, DefaultAmount: *uh.DefaultAmount})
}

func (svc *Service) Delete(id int) error {
	return svc.repo.DeleteFeeHead(id)
}
