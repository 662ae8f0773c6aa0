package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/storage/database"
)

var (
	// mockable
	migrateFunc    = database.Migrate
	isTerminalFunc = term.IsTerminal
	openFunc       = func(name string) (io.ReadCloser, error) { return os.Open(name) }

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sql.DB
	reportSvc *report.Service
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]  - run a goose migration command (up, down, status, ...)")
	_, _ = fmt.Fprintln(cli.out, "  import -file PATH       - replace every enrollment with the ones of a class-check CSV export")
	_, _ = fmt.Fprintln(cli.out, "  recalculate             - re-derive the stored attendance figures with the current settings")
	_, _ = fmt.Fprintln(cli.out, "  notify [-min N]         - email advisors their advisees with N+ consecutive absences")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importCmd.SetOutput(cli.out)
	importFile := importCmd.String("file", "", "Path of the CSV export.")

	notifyCmd := flag.NewFlagSet("notify", flag.ContinueOnError)
	notifyCmd.SetOutput(cli.out)
	notifyMin := notifyCmd.Int("min", 0, "Minimum consecutive absences (defaults to the configured one).")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return migrateFunc(ctx, cli.db, args[2], args[3:]...)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importCSV(ctx, *importFile)
	case "recalculate":
		return cli.recalculate(ctx)
	case "notify":
		if err := notifyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *notifyMin < 0 {
			notifyCmd.Usage()
			return errHelp
		}
		return cli.notify(ctx, *notifyMin)
	default:
		cli.printUsage()
		return errHelp
	}
}
