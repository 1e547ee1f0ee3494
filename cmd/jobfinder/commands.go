package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"jobfinder-engine/internal/app"
	"jobfinder-engine/internal/classify"
	"jobfinder-engine/internal/digest"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/export"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/mcptool"
	"jobfinder-engine/internal/search"
	"jobfinder-engine/internal/stats"
	"jobfinder-engine/internal/store"
)

func searchCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	keyword := fs.String("keyword", "", "job keyword")
	location := fs.String("location", "", "city, state or country")
	types := fs.String("types", "", "comma-separated job types (default: first configured)")
	mode := fs.String("mode", "", "On-site Only, Remote Only or Include Remote")
	sortBy := fs.String("sort", "", "Relevance, Date Posted or Company")
	maxResults := fs.Int("max", 0, "10, 25, 50 or 100")
	datePosted := fs.String("date", "", "all, today, 3days, week or month")
	tag := fs.String("tag", "", "only print records with this tag")
	csvPath := fs.String("csv", "", "write results to this CSV file (- for stdout)")
	emailTo := fs.String("email", "", "mail the results as a digest to this address")
	e, err := setup(fs, args, os.Stderr)
	if err != nil {
		return err
	}

	engine, err := app.NewEngine(e.cfg, nil, e.log)
	if err != nil {
		return err
	}
	req := search.Request{
		Keyword:      *keyword,
		Location:     *location,
		Buckets:      splitList(*types),
		LocationMode: filter.LocationMode(*mode),
		SortBy:       filter.SortOrder(*sortBy),
		MaxResults:   *maxResults,
		DatePosted:   *datePosted,
	}
	if len(req.Buckets) == 0 {
		req.Buckets = []string{engine.Buckets()[0].Name}
	}
	res, err := engine.Search(ctx, e.cfg.WithDefaults(req))
	if err != nil {
		return describe(err)
	}

	recs := classify.FilterByTag(res.Records, *tag)
	fmt.Fprintln(os.Stderr, res.Summary)

	switch *csvPath {
	case "":
		printRecords(os.Stdout, recs)
	case "-":
		if err := export.WriteCSV(os.Stdout, recs); err != nil {
			return err
		}
	default:
		f, err := os.Create(*csvPath)
		if err != nil {
			return err
		}
		if err := export.WriteCSV(f, recs); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d rows to %s\n", len(recs), *csvPath)
	}

	if *emailTo != "" {
		mailer := app.NewMailer(e.cfg, nil, e.log)
		_, msg := mailer.SendDigest(ctx, *emailTo, recs, digest.Preferences{
			Keyword:      res.Request.Keyword,
			Location:     res.Request.Location,
			JobTypes:     res.Request.Buckets,
			LocationMode: string(res.Request.LocationMode),
		})
		fmt.Fprintln(os.Stderr, msg)
	}
	return nil
}

func syncCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	sinkFlag := fs.String("sink", "", "override sheet.sink (airtable or sqlite)")
	e, err := setup(fs, args, os.Stderr)
	if err != nil {
		return err
	}
	cfg := e.cfg
	if *sinkFlag != "" {
		cfg.Sheet.Sink = strings.ToLower(*sinkFlag)
	}

	var pool *sql.DB
	if cfg.Sheet.Sink == "sqlite" {
		db, err := store.Open(app.DBPath(cfg))
		if err != nil {
			return err
		}
		defer db.Close()
		pool = db.Pool
	}
	sink, err := app.Sink(cfg, pool, nil, e.log)
	if err != nil {
		return describe(err)
	}
	engine, err := app.NewEngine(cfg, nil, e.log)
	if err != nil {
		return err
	}

	rep, err := app.Sync(ctx, cfg, engine, sink, e.log, time.Now())
	if err != nil {
		return describe(err)
	}
	fmt.Printf("sink=%s considered=%d uploaded=%d skipped=%d filtered=%d failed=%d\n",
		rep.Sink, rep.Considered, rep.Uploaded, rep.Skipped, rep.Filtered, len(rep.Failures))
	for _, f := range rep.Failures {
		fmt.Fprintf(os.Stderr, "  %v\n", f)
	}
	if len(rep.Failures) > 0 {
		return fmt.Errorf("%d rows failed", len(rep.Failures))
	}
	return nil
}

func digestCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	to := fs.String("to", "", "recipient (default digest.to)")
	test := fs.Bool("test", false, "send the SMTP test message instead")
	e, err := setup(fs, args, os.Stderr)
	if err != nil {
		return err
	}
	recipient := *to
	if recipient == "" {
		recipient = e.cfg.Digest.To
	}
	if recipient == "" {
		return errors.New("no recipient: pass -to or set digest.to")
	}
	mailer := app.NewMailer(e.cfg, nil, e.log)

	if *test {
		ok, msg := mailer.SendTest(ctx, recipient)
		fmt.Println(msg)
		if !ok {
			return errors.New("test email not sent")
		}
		return nil
	}

	engine, err := app.NewEngine(e.cfg, nil, e.log)
	if err != nil {
		return err
	}
	sub := digest.Subscription{
		To:        recipient,
		Request:   e.cfg.Digest.Search.Request(),
		Frequency: e.cfg.Digest.Frequency,
	}
	if err := mailer.Task(engine, sub)(ctx); err != nil {
		return describe(err)
	}
	fmt.Println("Email sent successfully")
	return nil
}

func mcpCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	// stdout carries the protocol
	e, err := setup(fs, args, os.Stderr)
	if err != nil {
		return err
	}
	engine, err := app.NewEngine(e.cfg, nil, e.log)
	if err != nil {
		return err
	}
	return mcptool.ServeStdio(mcptool.NewServer(engine, version, e.log))
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printRecords(w io.Writer, recs []domain.JobRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tCOMPANY\tLOCATION\tPOSTED\tTAGS")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			stats.Truncate(r.Title, 50), stats.Truncate(r.Company, 30), stats.Truncate(r.Location, 30),
			r.PostingDate, strings.Join(r.Tags, ", "))
	}
	_ = tw.Flush()
}

// describe adds the user-facing hint for the error kinds people can act on.
func describe(err error) error {
	var verr *search.ValidationError
	switch {
	case errors.As(err, &verr):
		return errors.New(verr.Message)
	case domain.IsConfiguration(err):
		return fmt.Errorf("%w (set it in .env, the environment, or the OS keychain)", err)
	case domain.IsTransport(err):
		return fmt.Errorf("%w; the job service could not be reached, try again shortly", err)
	}
	return err
}
