package fee

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trezcool/feeledger/core"
)

var (
	studentCodeHeader = regexp.MustCompile(`(?i)student\s*code`)
	codeHeader        = regexp.MustCompile(`(?i)code`)
	amountHeader      = regexp.MustCompile(`(?i)amount`)
	feeHeader         = regexp.MustCompile(`(?i)fee`)
	gradeHeader       = regexp.MustCompile(`(?i)grade`)
	classHeader       = regexp.MustCompile(`(?i)class`)
)

// Cell is one non-header cell of a spreadsheet, keyed by its column header.
type Cell struct {
	Header string
	Value  string
}

// SheetRow holds a data row's cells in column order.
type SheetRow []Cell

// BulkRow is a spreadsheet row resolved to a student and an amount.
type BulkRow struct {
	StudentCode string          `json:"student_code"`
	Amount      decimal.Decimal `json:"amount"`
	Grade       string          `json:"grade,omitempty"`
}

// firstMatch returns the value of the first non-empty cell whose header matches, trying patterns in order.
func (row SheetRow) firstMatch(patterns ...*regexp.Regexp) (string, bool) {
	for _, pattern := range patterns {
		for _, c := range row {
			if c.Value != "" && pattern.MatchString(c.Header) {
				return c.Value, true
			}
		}
	}
	return "", false
}

// ParseBulkRows resolves each row's code, amount and optional grade from its headers, case-insensitively:
// code is "student code" else "code", amount is "amount" else "fee", grade is "grade" else "class".
// Rows without a code or a numeric amount are dropped. ErrNoValidRows is returned when nothing is left.
func ParseBulkRows(rows []SheetRow) ([]BulkRow, error) {
	parsed := make([]BulkRow, 0, len(rows))
	for _, row := range rows {
		row = row.trimmed()

		code, ok := row.firstMatch(studentCodeHeader, codeHeader)
		if !ok {
			continue
		}
		rawAmount, ok := row.firstMatch(amountHeader, feeHeader)
		if !ok {
			continue
		}
		amount, err := parseAmount(rawAmount)
		if err != nil {
			continue
		}
		grade, _ := row.firstMatch(gradeHeader, classHeader)

		parsed = append(parsed, BulkRow{StudentCode: code, Amount: amount, Grade: grade})
	}
	if len(parsed) == 0 {
		return nil, ErrNoValidRows
	}
	return parsed, nil
}

func (row SheetRow) trimmed() SheetRow {
	cells := make(SheetRow, 0, len(row))
	for _, c := range row {
		cells = append(cells, Cell{Header: core.CleanString(c.Header), Value: core.CleanString(c.Value)})
	}
	return cells
}

// parseAmount accepts plain decimals, tolerating thousands separators.
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}

// GenerateBulk creates one Generated record per (row, period) pair in a single batch.
// Duplicate period ids count once; unknown periods are skipped.
func (svc *Service) GenerateBulk(rows []BulkRow, periodIDs []int) ([]Record, error) {
	var flds []core.FieldError
	if len(rows) == 0 {
		flds = append(flds, core.FieldError{Field: "rows", Error: "at least one row is required"})
	}
	if len(periodIDs) == 0 {
		flds = append(flds, core.FieldError{Field: "period_ids", Error: "select at least one payment period"})
	}
	if len(flds) > 0 {
		return nil, core.NewValidationError(nil, flds...)
	}

	periods, err := svc.periodIndex()
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(periodIDs))
	resolved := make([]int, 0, len(periodIDs))
	for _, id := range periodIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := periods[id]; !ok {
			svc.logger.Warn(fmt.Sprintf("bulk generation: payment period %d not found; skipped", id))
			continue
		}
		resolved = append(resolved, id)
	}

	recs := make([]Record, 0, len(rows)*len(resolved))
	for _, row := range rows {
		for _, periodID := range resolved {
			recs = append(recs, Record{
				ID:          svc.ids.Generate(),
				StudentCode: row.StudentCode,
				Grade:       row.Grade,
				FeeHead:     DefaultFeeHead,
				Amount:      row.Amount,
				PeriodID:    periodID,
				Status:      StatusGenerated,
			})
		}
	}
	if len(recs) == 0 {
		return recs, nil
	}
	if err = svc.repo.CreateFees(recs...); err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i] = svc.resolve(recs[i], periods)
	}
	return recs, nil
}

// GenerateFromSheet parses rows then generates them for every period.
func (svc *Service) GenerateFromSheet(rows []SheetRow, periodIDs []int) ([]Record, error) {
	parsed, err := ParseBulkRows(rows)
	if err != nil {
		return nil, err
	}
	return svc.GenerateBulk(parsed, periodIDs)
}
