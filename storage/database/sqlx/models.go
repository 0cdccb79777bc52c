package sqlxstore

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/feehead"
)

type (
	yearRow struct {
		ID          int         `db:"id"`
		ShortName   string      `db:"short_name"`
		Description null.String `db:"description"`
	}

	periodRow struct {
		ID             int         `db:"id"`
		AcademicYearID int         `db:"academic_year_id"`
		StartDate      string      `db:"start_date"`
		EndDate        string      `db:"end_date"`
		ShortName      string      `db:"short_name"`
		Description    null.String `db:"description"`
	}

	feeHeadRow struct {
		ID            int             `db:"id"`
		Name          string          `db:"name"`
		DefaultAmount decimal.Decimal `db:"default_amount"`
	}

	feeRow struct {
		ID          int64               `db:"id"`
		StudentCode string              `db:"student_code"`
		Grade       null.String         `db:"grade"`
		FeeHead     string              `db:"fee_head"`
		Amount      decimal.Decimal     `db:"amount"`
		Penalty     decimal.Decimal     `db:"penalty"`
		PeriodID    null.Int            `db:"payment_period_id"`
		Status      string              `db:"status"`
		PaidAmount  decimal.Decimal     `db:"paid_amount"`
		Balance     decimal.NullDecimal `db:"balance"`
	}

	penaltyRow struct {
		Method             string          `db:"method"`
		Amount             decimal.Decimal `db:"amount"`
		PeriodDays         int             `db:"period_days"`
		NotificationPeriod null.String     `db:"notification_period"`
		MaxNotifications   int             `db:"max_notifications"`
		TerminationMessage null.String     `db:"termination_message"`
		SkipSundays        bool            `db:"skip_sundays"`
	}
)

func toYearRow(y academic.AcademicYear) yearRow {
	return yearRow{ID: y.ID, ShortName: y.ShortName, Description: null.NewString(y.Description, y.Description != "")}
}

func (r yearRow) model() academic.AcademicYear {
	return academic.AcademicYear{ID: r.ID, ShortName: r.ShortName, Description: r.Description.String}
}

func toPeriodRow(p academic.PaymentPeriod) periodRow {
	return periodRow{
		ID:             p.ID,
		AcademicYearID: p.AcademicYearID,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		ShortName:      p.ShortName,
		Description:    null.NewString(p.Description, p.Description != ""),
	}
}

func (r periodRow) model() academic.PaymentPeriod {
	return academic.PaymentPeriod{
		ID:             r.ID,
		AcademicYearID: r.AcademicYearID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		ShortName:      r.ShortName,
		Description:    r.Description.String,
	}
}

func toFeeHeadRow(h feehead.FeeHead) feeHeadRow {
	return feeHeadRow{ID: h.ID, Name: h.Name, DefaultAmount: h.DefaultAmount}
}

func (r feeHeadRow) model() feehead.FeeHead {
	return feehead.FeeHead{ID: r.ID, Name: r.Name, DefaultAmount: r.DefaultAmount}
}

func toFeeRow(rec fee.Record) feeRow {
	return feeRow{
		ID:          rec.ID.Int64(),
		StudentCode: rec.StudentCode,
		Grade:       null.NewString(rec.Grade, rec.Grade != ""),
		FeeHead:     rec.FeeHead,
		Amount:      rec.Amount,
		Penalty:     rec.Penalty,
		PeriodID:    null.NewInt(rec.PeriodID, rec.PeriodID > 0),
		Status:      string(rec.Status),
		PaidAmount:  rec.PaidAmount,
		Balance:     rec.Balance,
	}
}

func (r feeRow) model() fee.Record {
	return fee.Record{
		ID:          snowflake.ID(r.ID),
		StudentCode: r.StudentCode,
		Grade:       r.Grade.String,
		FeeHead:     r.FeeHead,
		Amount:      r.Amount,
		Penalty:     r.Penalty,
		PeriodID:    r.PeriodID.Int,
		Status:      fee.Status(r.Status),
		PaidAmount:  r.PaidAmount,
		Balance:     r.Balance,
	}
}

func toPenaltyRow(cfg fee.PenaltyConfig) penaltyRow {
	return penaltyRow{
		Method:             cfg.Method,
		Amount:             cfg.Amount,
		PeriodDays:         cfg.PeriodDays,
		NotificationPeriod: null.NewString(cfg.NotificationPeriod, cfg.NotificationPeriod != ""),
		MaxNotifications:   cfg.MaxNotifications,
		TerminationMessage: null.NewString(cfg.TerminationMessage, cfg.TerminationMessage != ""),
		SkipSundays:        cfg.SkipSundays,
	}
}

func (r penaltyRow) model() fee.PenaltyConfig {
	return fee.PenaltyConfig{
		Method:             r.Method,
		Amount:             r.Amount,
		PeriodDays:         r.PeriodDays,
		NotificationPeriod: r.NotificationPeriod.String,
		MaxNotifications:   r.MaxNotifications,
		TerminationMessage: r.TerminationMessage.String,
		SkipSundays:        r.SkipSundays,
	}
}
