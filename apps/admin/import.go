package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/feeledger/core/fee"
	spreadsheetsvc "github.com/trezcool/feeledger/services/spreadsheet"
)

// importFees generates one fee per row of file and per payment period.
func (cli *commandLine) importFees(file, periods string) error {
	periodIDs, err := parsePeriodIDs(periods)
	if err != nil {
		return err
	}

	f, err := os.Open(filepath.Clean(file))
	if err != nil {
		return errors.Wrap(err, "opening import file")
	}
	defer func() { _ = f.Close() }()

	rows, err := spreadsheetsvc.Parse(f.Name(), f)
	if err != nil {
		return err
	}
	recs, err := cli.feeSvc.GenerateFromSheet(rows, periodIDs)
	if err != nil {
		return err
	}
	return cli.printFees(recs)
}

func parsePeriodIDs(s string) ([]int, error) {
	ids := make([]int, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Errorf("invalid payment period id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (cli *commandLine) printFees(recs []fee.Record) error {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.ID.String(), r.StudentCode, r.Grade, r.PaymentPeriod, r.Amount.StringFixed(2), string(r.Status),
		})
	}
	return cli.print([]string{"ID", "STUDENT", "GRADE", "PERIOD", "AMOUNT", "STATUS"}, rows, recs)
}
