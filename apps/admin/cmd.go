package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/report"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("migrate requires the postgres ledger store (LEDGER_STORE=postgres)")
)

type commandLine struct {
	db        *sql.DB // nil unless the ledger is stored in postgres
	feeSvc    *fee.Service
	reportSvc *report.Service
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a database migration command (up, down, status, version...)")
	fmt.Println("  import -file FILE -periods 1,2 - generate fees from a spreadsheet for the given payment periods")
	fmt.Println("  report -kind dashboard|defaulters|transactions [-start DATE -end DATE -status STATUS -grade GRADE] - print a report")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "The .xlsx, .xls or .csv file to import.")
	importPeriods := importCmd.String("periods", "", "Comma separated payment period IDs.")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportKind := reportCmd.String("kind", "dashboard", "dashboard, defaulters or transactions.")
	reportStart := reportCmd.String("start", "", "Transactions issued on or after this date (YYYY-MM-DD).")
	reportEnd := reportCmd.String("end", "", "Transactions issued on or before this date (YYYY-MM-DD).")
	reportStatus := reportCmd.String("status", "", "Transactions category, e.g. Paid, Partially Paid.")
	reportGrade := reportCmd.String("grade", "", "Transactions grade.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" || *importPeriods == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importFees(*importFile, *importPeriods)
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		filter := report.TransactionFilter{
			StartDate: *reportStart,
			EndDate:   *reportEnd,
			Status:    *reportStatus,
			Grade:     *reportGrade,
		}
		return cli.report(context.Background(), *reportKind, filter)
	default:
		cli.printUsage()
		return errHelp
	}
}

// print writes v as an aligned table on a terminal, as JSON otherwise.
func (cli *commandLine) print(header []string, rows [][]string, v interface{}) error {
	if f, ok := cli.out.(*os.File); !ok || !isTerminalFunc(int(f.Fd())) {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}
