// Command folioctl runs one-off maintenance tasks against the portfolio
// database: migrations, seeding, spreadsheet import and export, and sequence
// repair.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/folio/internal/category"
	categoryStore "github.com/MrJamesThe3rd/folio/internal/category/store"
	"github.com/MrJamesThe3rd/folio/internal/chat"
	"github.com/MrJamesThe3rd/folio/internal/chat/sqlagent"
	"github.com/MrJamesThe3rd/folio/internal/config"
	"github.com/MrJamesThe3rd/folio/internal/database"
	"github.com/MrJamesThe3rd/folio/internal/export"
	"github.com/MrJamesThe3rd/folio/internal/importer"
	"github.com/MrJamesThe3rd/folio/internal/maintenance"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
	portfolioStore "github.com/MrJamesThe3rd/folio/internal/portfolio/store"
)

const usage = `usage: folioctl <command> [flags]

commands:
  migrate           apply database migrations (-version N to move to a version)
  seed              add the default investment categories
  import FILE       import a monthly snapshot spreadsheet (CSV)
  export            write history as CSV plus a text summary (-year, -month, -out)
  fix-sequence      reset the portfolio_value id sequence
  verify-sequence   check the portfolio_value id sequence
  ask QUESTION      ask the portfolio assistant a question
`

var errSequenceOutOfSync = errors.New("sequence needs adjustment")

type app struct {
	cfg *config.Config
	db  *sql.DB
	out io.Writer
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString(), database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	a := &app{cfg: cfg, db: db, out: os.Stdout}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "migrate":
		return a.migrate(args)
	case "seed":
		return a.seed(ctx)
	case "import":
		return a.importFile(ctx, args)
	case "export":
		return a.export(ctx, args)
	case "fix-sequence":
		return a.fixSequence(ctx)
	case "verify-sequence":
		return a.verifySequence(ctx)
	case "ask":
		return a.ask(ctx, args)
	}

	return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
}

func (a *app) migrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	version := fs.Uint("version", 0, "migrate up or down to this version (default: latest)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *version == 0 {
		if err := database.Migrate(a.db); err != nil {
			return err
		}

		fmt.Fprintln(a.out, "migrations applied")

		return nil
	}

	if err := database.MigrateTo(a.db, *version); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "schema at version %d\n", *version)

	return nil
}

func (a *app) categories() *category.Service {
	return category.NewService(categoryStore.New(a.db))
}

func (a *app) portfolio() *portfolio.Service {
	return portfolio.NewService(portfolioStore.New(a.db))
}

func (a *app) seed(ctx context.Context) error {
	report := maintenance.SeedCategories(ctx, a.categories(), maintenance.DefaultCategories)

	for _, c := range report.Created {
		fmt.Fprintf(a.out, "[OK] %s\n", c.Name)
	}

	for _, f := range report.Failures {
		fmt.Fprintf(a.out, "[ERROR] %s: %v\n", f.Name, f.Err)
	}

	fmt.Fprintf(a.out, "\n%d added, %d failed\n", len(report.Created), len(report.Failures))

	return nil
}

func (a *app) importFile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("import needs exactly one file")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := importer.NewService(a.categories(), a.portfolio()).Import(ctx, f)
	if err != nil {
		return err
	}

	for _, row := range report.Rows {
		line := fmt.Sprintf("%d-%02d: %d saved, %d skipped, %d failed", row.Year, row.Month, row.Saved, row.Skipped, row.Failed)
		if row.Error != "" {
			line += " (" + row.Error + ")"
		}

		fmt.Fprintln(a.out, line)
	}

	if len(report.UnknownCategories) > 0 {
		fmt.Fprintf(a.out, "ignored columns without a matching category: %s\n", strings.Join(report.UnknownCategories, ", "))
	}

	saved, failed := report.Totals()
	fmt.Fprintf(a.out, "\n%d values saved, %d failed (%s)\n", saved, failed, report.Charset)

	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	year := fs.Int("year", 0, "only this year")
	month := fs.Int("month", 0, "only this month (1-12)")
	out := fs.String("out", ".", "output directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var filter portfolio.RowFilter
	if *year != 0 {
		filter.Year = year
	}

	if *month != 0 {
		filter.Month = month
	}

	exported, err := export.NewService(a.portfolio()).ExportToDir(ctx, filter, *out)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, exported.CSVPath)
	fmt.Fprintln(a.out, exported.SummaryPath)

	return nil
}

func (a *app) fixSequence(ctx context.Context) error {
	seqs := maintenance.NewSequences(a.db)

	if err := a.printSequence(ctx, seqs); err != nil && !errors.Is(err, errSequenceOutOfSync) {
		return err
	}

	next, err := seqs.Fix(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "sequence reset, next value_id will be %d\n", next)

	return a.printSequence(ctx, seqs)
}

func (a *app) verifySequence(ctx context.Context) error {
	return a.printSequence(ctx, maintenance.NewSequences(a.db))
}

func (a *app) printSequence(ctx context.Context, seqs *maintenance.Sequences) error {
	status, err := seqs.Verify(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "sequence last_value: %d (is_called %t)\nnext value_id:       %d\nmaximum value_id:    %d\n",
		status.LastValue, status.IsCalled, status.NextID(), status.MaxID)

	if !status.OK() {
		return errSequenceOutOfSync
	}

	fmt.Fprintln(a.out, "sequence is correct")

	return nil
}

func (a *app) ask(ctx context.Context, args []string) error {
	question := strings.Join(args, " ")

	var agent chat.Agent
	if a.cfg.Chat.APIKey != "" {
		agent = sqlagent.New(sqlagent.Config{
			APIKey:        a.cfg.Chat.APIKey,
			BaseURL:       a.cfg.Chat.BaseURL,
			Model:         a.cfg.Chat.Model,
			MaxIterations: a.cfg.Chat.MaxIterations,
		}, sqlagent.NewExecutor(a.db, a.cfg.Chat.MaxRows))
	}

	res, err := chat.NewAdapter(agent).Ask(ctx, chat.NewSession(), question)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, res.Output)

	if !res.Success {
		return errors.New(res.Error)
	}

	return nil
}
