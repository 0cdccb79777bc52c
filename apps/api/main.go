package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	echoapi "github.com/trezcool/feeledger/apps/api/echo"
	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/feehead"
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

// TODO:
// - receipt PDF rendering (the receipt endpoint only returns JSON for now)
// - penalty scheduler applying PenaltyConfig to overdue fees
func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "LEDGER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up persistence
	persist, closeStore, err := setUpStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up ledger store: %v", err), err)
	}
	defer func() {
		if err = closeStore(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	db := inmemdb.Open()
	sess, err := ledger.Open(context.Background(), db, persist, dbLogger, ledger.Options{
		FlushSchedule: conf.Ledger.FlushSchedule,
		Location:      conf.Ledger.Location(),
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening ledger: %v", err), err)
	}
	db.OnChange(sess.Mutated)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err = sess.Close(ctx); err != nil {
			dbLogger.Error("Failed to save ledger", err)
		}
	}()

	// set up services
	dir, err := setUpDirectory(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up student directory: %v", err), err)
	}

	ids, err := fee.NewIDGenerator(conf.Ledger.NodeID)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up id generator: %v", err), err)
	}

	var syncer fee.Syncer
	if conf.TestMode {
		syncer = gatewaysvc.NewConsoleSyncerMock(logger)
	} else {
		syncer = gatewaysvc.NewConsoleSyncer(conf.Ledger.SyncDelay, logger)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	academicSvc := academic.NewService(inmemdb.NewAcademicRepository(db), validate)
	feeHeadSvc := feehead.NewService(inmemdb.NewFeeHeadRepository(db), validate)
	feeSvc := fee.NewService(fee.Deps{
		Repo:      inmemdb.NewFeeRepository(db),
		Periods:   academicSvc,
		Directory: dir,
		IDs:       ids,
		Syncer:    syncer,
		Validate:  validate,
		Logger:    logger,
	})
	reportSvc := report.NewService(report.Deps{
		Fees:           feeSvc,
		Periods:        academicSvc,
		Directory:      dir,
		Validate:       validate,
		Logger:         logger,
		DefaulterLimit: conf.Ledger.DefaulterLimit,
		Location:       conf.Ledger.Location(),
	})

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("ledger_store").Set(conf.Ledger.Store)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			Validate:    validate,
			Translator:  translator,
			AcademicSvc: academicSvc,
			FeeHeadSvc:  feeHeadSvc,
			FeeSvc:      feeSvc,
			ReportSvc:   reportSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStore returns the persistence selected by `ledger.store` and a func releasing it.
func setUpStore(conf *core.Config) (ledger.Persistence, func() error, error) {
	noop := func() error { return nil }

	switch conf.Ledger.Store {
	case core.StoreMemory:
		return ledger.Discard, noop, nil
	case core.StoreFile:
		return filestore.NewSnapshotStore(conf.Ledger.SnapshotPath), noop, nil
	case core.StorePostgres:
		db, err := setUpDB(conf)
		if err != nil {
			return nil, nil, err
		}
		return sqlxstore.NewSnapshotStore(db), db.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown ledger store %q", conf.Ledger.Store)
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func setUpDirectory(conf *core.Config) (student.Directory, error) {
	switch {
	case conf.Directory.BaseURL != "":
		return directorysvc.NewRESTDirectory(conf.Directory.BaseURL, conf.Directory.Timeout), nil
	case conf.Directory.File != "":
		return directorysvc.LoadYAMLDirectory(conf.Directory.File)
	default:
		return directorysvc.NewStaticDirectory(), nil
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
