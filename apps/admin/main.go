package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/fs"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/storage/database"
	boiledrepos "github.com/trezcool/mahudhurio/storage/database/sqlboiler"
	sqlxrepos "github.com/trezcool/mahudhurio/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := attendance.OptionsFromConfig(conf.Analytics)
	if err := opts.Validate(); err != nil {
		logger.Fatal(fmt.Sprintf("loading analytics options: %v", err), err)
	}

	// set up DB
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Connect(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("connecting to database: %v", err), err)
	}
	defer func() { _ = db.Close() }()

	// set up services
	tmpls := core.NewEmailTemplates(appfs.FS, "templates/email", conf)
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, tmpls, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, tmpls, logger)
	}
	repo := report.NewRepository(boiledrepos.NewEnrollmentReader(db), sqlxrepos.NewEnrollmentWriter(sqlx.NewDb(db, conf.Database.Engine)))

	// start CLI
	cli := commandLine{
		db:        db,
		reportSvc: report.NewService(repo, attendance.NewAnalyzer(opts), mailSvc, logger),
		out:       os.Stdout,
	}
	if err = cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s\n", err), err)
		}
		stop()
		_ = db.Close()
		os.Exit(1)
	}
}
