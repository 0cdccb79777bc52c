package fee

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/trezcool/feeledger/core"
)

// Penalty methods
const (
	PenaltyIncremental = "Incremental Amount"
	PenaltyFixed       = "Fixed Amount"
	PenaltyPercentage  = "Percentage"
)

// PenaltyConfig is the school's penalty policy. It is stored alongside the ledger;
// penalties themselves are applied manually with AddPenalty.
type PenaltyConfig struct {
	Method             string          `json:"method" yaml:"method" validate:"required,oneof='Incremental Amount' 'Fixed Amount' 'Percentage'"`
	Amount             decimal.Decimal `json:"amount" yaml:"amount" validate:"gte=0"`
	PeriodDays         int             `json:"period" yaml:"period" validate:"gte=0"`
	NotificationPeriod string          `json:"notification_period" yaml:"notification_period" validate:"required,notblank"`
	MaxNotifications   int             `json:"max_notifications" yaml:"max_notifications" validate:"gte=0"`
	TerminationMessage string          `json:"termination_message" yaml:"termination_message" validate:"required,notblank"`
	SkipSundays        bool            `json:"skip_sundays" yaml:"skip_sundays"`
}

// DefaultPenaltyConfig is served until a configuration is saved.
func DefaultPenaltyConfig() PenaltyConfig {
	return PenaltyConfig{
		Method:             PenaltyIncremental,
		Amount:             decimal.NewFromInt(100),
		PeriodDays:         5,
		NotificationPeriod: "Within 1 days",
		MaxNotifications:   400,
		TerminationMessage: "you wont get our service",
		SkipSundays:        true,
	}
}

// IsZero reports whether no configuration was ever saved.
func (pc PenaltyConfig) IsZero() bool {
	return pc.Method == ""
}

func (pc *PenaltyConfig) Validate(validate *validator.Validate) error {
	pc.Method = core.CleanString(pc.Method)
	pc.NotificationPeriod = core.CleanString(pc.NotificationPeriod)
	pc.TerminationMessage = core.CleanString(pc.TerminationMessage)
	return validate.Struct(pc)
}
