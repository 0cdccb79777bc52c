package main

import (
	"context"
	"fmt"

	"github.com/trezcool/feeledger/core/report"
)

func (cli *commandLine) report(ctx context.Context, kind string, filter report.TransactionFilter) error {
	switch kind {
	case "dashboard":
		dash, err := cli.reportSvc.Dashboard(ctx, "", false)
		if err != nil {
			return err
		}
		rows := [][]string{
			{"expected", dash.Totals.Expected.StringFixed(2)},
			{"collected", dash.Totals.Collected.StringFixed(2)},
			{"outstanding", dash.Totals.Outstanding.StringFixed(2)},
			{"issued today", fmt.Sprintf("%d (%s)", len(dash.Daily.Fees), dash.Daily.Total.StringFixed(2))},
		}
		return cli.print([]string{"TOTAL", "AMOUNT"}, rows, dash)
	case "defaulters":
		views, err := cli.reportSvc.Defaulters(ctx)
		if err != nil {
			return err
		}
		return cli.printViews(views, views)
	case "transactions":
		rpt, err := cli.reportSvc.Transactions(ctx, filter)
		if err != nil {
			return err
		}
		return cli.printViews(rpt.Transactions, rpt)
	default:
		return fmt.Errorf("%q: no such report", kind)
	}
}

func (cli *commandLine) printViews(views []report.TransactionView, v interface{}) error {
	rows := make([][]string, 0, len(views))
	for _, tv := range views {
		rows = append(rows, []string{
			tv.ID.String(),
			tv.StudentCode,
			tv.StudentName,
			tv.Grade,
			tv.Total().StringFixed(2),
			tv.OutstandingBalance().StringFixed(2),
			string(tv.Status),
		})
	}
	return cli.print([]string{"ID", "STUDENT", "NAME", "GRADE", "TOTAL", "BALANCE", "STATUS"}, rows, v)
}
