package dig_container

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/fs"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	schedulersvc "github.com/trezcool/mahudhurio/services/scheduler"
	"github.com/trezcool/mahudhurio/storage/database"
	boiledrepos "github.com/trezcool/mahudhurio/storage/database/sqlboiler"
	sqlxrepos "github.com/trezcool/mahudhurio/storage/database/sqlx"
)

const (
	dbSetUpTimeout = time.Minute
	digestTimeout  = 5 * time.Minute
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sql.DB, core.DB, *sqlx.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), dbSetUpTimeout)
	defer cancel()

	setUp := func() (*sql.DB, error) {
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}

		db, err := database.Connect(ctx, conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(ctx, db, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db, sqlx.NewDb(db, conf.Database.Engine)
}

func newRepository(db core.DB, xdb *sqlx.DB) report.Repository {
	return report.NewRepository(boiledrepos.NewEnrollmentReader(db), sqlxrepos.NewEnrollmentWriter(xdb))
}

func newEmailTemplates(conf *core.Config) *core.EmailTemplates {
	return core.NewEmailTemplates(appfs.FS, "templates/email", conf)
}

func newEmailService(conf *core.Config, tmpls *core.EmailTemplates, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, tmpls, logger)
	}
	return emailsvc.NewSendgridService(conf, tmpls, logger)
}

func newAnalyzer(conf *core.Config) (*attendance.Analyzer, error) {
	opts := attendance.OptionsFromConfig(conf.Analytics)
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "loading analytics options")
	}
	return attendance.NewAnalyzer(opts), nil
}

func newScheduler(logger core.Logger) *schedulersvc.Scheduler {
	return schedulersvc.New(logger, digestTimeout)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	report.InitValidators(validate, translator)
	return validate
}

type ServerParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	ReportSvc  *report.Service
	Validate   *validator.Validate
	DB         *sql.DB
	Translator ut.Translator
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		ReportSvc:  p.ReportSvc,
		Validate:   p.Validate,
		Translator: p.Translator,
		DB:         p.DB,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newRepository))
	must(c.Provide(newEmailTemplates))
	must(c.Provide(newEmailService))
	must(c.Provide(newAnalyzer))
	must(c.Provide(report.NewService))
	must(c.Provide(newScheduler))
	must(c.Provide(newValidator))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
