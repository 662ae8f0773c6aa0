package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/storage/csvfile"
)

func (cli *commandLine) importCSV(ctx context.Context, path string) error {
	f, err := openFunc(path)
	if err != nil {
		return errors.Wrap(err, "opening CSV")
	}
	defer func() { _ = f.Close() }()

	reader := csvfile.NewReader()
	if isTerminalFunc(int(os.Stdout.Fd())) {
		reader.Progress = func(n int) { _, _ = fmt.Fprintf(cli.out, "\r  parsed %d records...", n) }
	}

	_, _ = fmt.Fprintf(cli.out, "Reading %s\n", path)
	res, err := reader.Read(f)
	if err != nil {
		return errors.Wrap(err, "reading CSV")
	}
	_, _ = fmt.Fprintf(cli.out, "\nParsed %d records (skipped %d)\n", len(res.Enrollments), res.Skipped)

	summary, err := cli.reportSvc.Import(ctx, res.Enrollments)
	if err != nil {
		return errors.Wrap(err, "importing enrollments")
	}
	summary.Skipped = res.Skipped
	_, _ = fmt.Fprintf(cli.out, "Imported %d records: %d students, %d course sections, %d flagged for consecutive absences\n",
		summary.Records, summary.Students, summary.Courses, summary.Flagged)
	return nil
}

func (cli *commandLine) recalculate(ctx context.Context) error {
	summary, err := cli.reportSvc.Recalculate(ctx)
	if err != nil {
		return errors.Wrap(err, "recalculating enrollments")
	}
	_, _ = fmt.Fprintf(cli.out, "Recalculated %d records: %d flagged for consecutive absences\n", summary.Records, summary.Flagged)
	return nil
}

func (cli *commandLine) notify(ctx context.Context, minConsecutive int) error {
	summary, err := cli.reportSvc.NotifyAdvisors(ctx, minConsecutive)
	if err != nil {
		return errors.Wrap(err, "notifying advisors")
	}
	_, _ = fmt.Fprintf(cli.out, "Sent %d digests to %d advisors (%d without email) about %d students\n",
		summary.Sent, summary.Advisors, summary.Skipped, summary.Students)
	return nil
}
