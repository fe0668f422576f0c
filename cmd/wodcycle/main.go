// wodcycle prints the training calendar for the coming days, as the
// daily generator would see it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/2beens/wodcycle/internal/overrides"
	"github.com/2beens/wodcycle/internal/periodization"
	"github.com/2beens/wodcycle/internal/schedule"
	"github.com/2beens/wodcycle/internal/telemetry/metrics"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type options struct {
	from       string
	days       int
	timezone   string
	sqlitePath string
	asJSON     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.from, "from", "", "first date to print, YYYY-MM-DD (default: today in the reference timezone)")
	flag.IntVar(&opts.days, "days", 7, "number of days to print [1, 84]")
	flag.StringVar(&opts.timezone, "tz", "UTC", "reference timezone, e.g. Europe/Belgrade")
	flag.StringVar(&opts.sqlitePath, "sqlite", "", "sqlite overrides db; empty prints the plain calendar")
	flag.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	flag.Parse()

	log.SetLevel(log.WarnLevel)

	if err := run(context.Background(), opts, time.Now(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "wodcycle: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, now time.Time, out io.Writer) error {
	if opts.days < 1 || opts.days > schedule.MaxProjectionDays {
		return fmt.Errorf("days must be in [1, %d], got %d", schedule.MaxProjectionDays, opts.days)
	}

	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	from := periodization.CivilDateIn(now, loc)
	if opts.from != "" {
		if from, err = civil.ParseDate(opts.from); err != nil {
			return fmt.Errorf("parse from date: %w", err)
		}
	}

	var store overrides.Store = overrides.NewMemoryStore()
	if opts.sqlitePath != "" {
		sqliteStore, err := overrides.NewSqliteStore(opts.sqlitePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := sqliteStore.Close(); err != nil {
				log.Errorf("close sqlite store: %s", err)
			}
		}()
		store = sqliteStore
	}

	projector := schedule.NewProjector(store, metrics.NewManager("wodcycle", "cli", prometheus.NewRegistry()))
	days, err := projector.Project(ctx, from, opts.days)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(days)
	}
	return printTable(out, days)
}

func printTable(out io.Writer, days []schedule.ProjectedDay) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAY\tCYCLE\tDAY/84\tCATEGORY\tDIFFICULTY\tFORMATS\tOVERRIDE")
	for _, d := range days {
		formats := make([]string, 0, len(d.EffectiveFormatChoices))
		for _, f := range d.EffectiveFormatChoices {
			formats = append(formats, f.String())
		}
		difficulty := d.EffectiveDifficultyLabel
		if difficulty == "" {
			difficulty = "-"
		}
		overridden := ""
		if d.Override != nil {
			overridden = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			d.Date,
			d.Resolved.DayInCycle,
			d.Resolved.CycleNumber,
			d.Resolved.GlobalDayIn84,
			d.EffectiveCategory,
			difficulty,
			strings.Join(formats, ","),
			overridden,
		)
	}
	return tw.Flush()
}
