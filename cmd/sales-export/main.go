// Command sales-export reads a terminal database file directly and
// writes the filtered sales as CSV, optionally gzip-compressed. It is
// an offline companion to the reporting view: safe to run next to a
// live terminal because the database is opened read-only.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"go.uber.org/zap"

	"github.com/tlatasch/pos-terminal/internal/domain/report"
	"github.com/tlatasch/pos-terminal/internal/storage/bolt"
)

const anchorLayout = "2006-01-02"

func main() {
	var (
		dbPath   string
		rangeStr string
		anchor   string
		payment  string
		out      string
		compress bool
	)

	flag.StringVar(&dbPath, "db", "pos.db", "path to the terminal database file")
	flag.StringVar(&rangeStr, "range", "day", "report range: day, week, or month")
	flag.StringVar(&anchor, "anchor", "", "anchor date (YYYY-MM-DD, default today)")
	flag.StringVar(&payment, "payment", "ALL", "payment filter: ALL, CASH, or CARD")
	flag.StringVar(&out, "o", "sales_export.csv", "output file, or - for stdout")
	flag.BoolVar(&compress, "gzip", false, "gzip-compress the output")
	flag.Parse()

	lg := zap.Must(zap.NewProduction())
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, dbPath, rangeStr, anchor, payment, out, compress); err != nil {
		lg.Error("export failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, lg *zap.Logger, dbPath, rangeStr, anchor, payment, out string, compress bool) error {
	rng, err := report.ParseRange(rangeStr)
	if err != nil {
		return err
	}

	filter, err := report.ParsePaymentFilter(payment)
	if err != nil {
		return err
	}

	anchorTime := time.Now()
	if anchor != "" {
		anchorTime, err = time.ParseInLocation(anchorLayout, anchor, time.Local)
		if err != nil {
			return errors.Wrap(err, "parse anchor")
		}
	}

	store, err := bolt.OpenReadOnly(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	all, err := store.Ledger(lg.Named("ledger")).All(ctx)
	if err != nil {
		return errors.Wrap(err, "read ledger")
	}

	from, to := report.Resolve(rng, anchorTime, time.Local)
	filtered := report.Query(all, from, to, filter)
	kpi := report.Summarize(filtered)

	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return errors.Wrapf(err, "create %s", out)
		}
		defer f.Close()
		w = f
	}

	if compress {
		gz := pgzip.NewWriter(w)
		defer gz.Close()
		w = gz
	}

	if err := report.WriteCSV(w, filtered); err != nil {
		return err
	}

	lg.Info("export complete",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("sales", kpi.Count),
		zap.Int("items", kpi.Items),
		zap.String("revenue", kpi.Revenue.StringFixed(2)),
	)
	return nil
}
