package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/ledger"
	"github.com/trezcool/feeledger/core/report"
	"github.com/trezcool/feeledger/core/student"
	directorysvc "github.com/trezcool/feeledger/services/directory"
	gatewaysvc "github.com/trezcool/feeledger/services/gateway"
	logsvc "github.com/trezcool/feeledger/services/logger"
	"github.com/trezcool/feeledger/storage/database"
	inmemdb "github.com/trezcool/feeledger/storage/database/inmem"
	sqlxstore "github.com/trezcool/feeledger/storage/database/sqlx"
	filestore "github.com/trezcool/feeledger/storage/file"
)

func main() {
	os.Exit(start())
}

func start() int {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(false)

	// set up persistence
	var db *sql.DB
	var persist ledger.Persistence
	switch conf.Ledger.Store {
	case core.StorePostgres:
		var err error
		if db, err = database.Open(conf); err != nil {
			logger.Error("opening database", err)
			return 1
		}
		defer func() { _ = db.Close() }()
		persist = sqlxstore.NewSnapshotStore(db)
	case core.StoreFile:
		persist = filestore.NewSnapshotStore(conf.Ledger.SnapshotPath)
	default:
		persist = ledger.Discard
	}

	cli := commandLine{db: db, out: os.Stdout}

	// migrations run before the ledger tables can be loaded
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		return exitCode(cli.run(os.Args), logger)
	}

	mem := inmemdb.Open()
	sess, err := ledger.Open(context.Background(), mem, persist, logger, ledger.Options{Location: conf.Ledger.Location()})
	if err != nil {
		logger.Error("opening ledger", err)
		return 1
	}
	defer func() {
		if err := sess.Close(context.Background()); err != nil {
			logger.Error("saving ledger", err)
		}
	}()

	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)

	var dir student.Directory = directorysvc.NewStaticDirectory()
	if conf.Directory.BaseURL != "" {
		dir = directorysvc.NewRESTDirectory(conf.Directory.BaseURL, conf.Directory.Timeout)
	} else if conf.Directory.File != "" {
		if dir, err = directorysvc.LoadYAMLDirectory(conf.Directory.File); err != nil {
			logger.Error("loading student directory", err)
			return 1
		}
	}

	ids, err := fee.NewIDGenerator(conf.Ledger.NodeID)
	if err != nil {
		logger.Error("setting up id generator", err)
		return 1
	}

	academicSvc := academic.NewService(inmemdb.NewAcademicRepository(mem), validate)
	cli.feeSvc = fee.NewService(fee.Deps{
		Repo:      inmemdb.NewFeeRepository(mem),
		Periods:   academicSvc,
		Directory: dir,
		IDs:       ids,
		Syncer:    gatewaysvc.NewConsoleSyncerMock(logger),
		Validate:  validate,
		Logger:    logger,
	})
	cli.reportSvc = report.NewService(report.Deps{
		Fees:           cli.feeSvc,
		Periods:        academicSvc,
		Directory:      dir,
		Validate:       validate,
		Logger:         logger,
		DefaulterLimit: conf.Ledger.DefaulterLimit,
		Location:       conf.Ledger.Location(),
	})

	return exitCode(cli.run(os.Args), logger)
}

func exitCode(err error, logger core.Logger) int {
	if err == nil {
		return 0
	}
	if err != errHelp {
		logger.Error("admin command failed", err, logsvc.Person{ID: os.Getenv("USER"), Username: os.Getenv("USER")})
	}
	return 1
}
