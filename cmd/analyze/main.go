// Command analyze runs the acquisition decision pipeline over a batch of
// ISBNs from the command line and prints a verdict table. Useful for
// working through a box of books without the scanner client.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/ncuskey/lothelper-engine/internal/adapters/lothelper"
	"github.com/ncuskey/lothelper-engine/internal/application/scan"
	"github.com/ncuskey/lothelper-engine/internal/domain/book"
	"github.com/ncuskey/lothelper-engine/internal/domain/fees"
	"github.com/ncuskey/lothelper-engine/internal/domain/profit"
	"github.com/ncuskey/lothelper-engine/internal/infrastructure/config"
	"github.com/ncuskey/lothelper-engine/internal/infrastructure/logging"
	"github.com/ncuskey/lothelper-engine/internal/infrastructure/storage"
)

func main() {
	var (
		configFile = flag.String("config", "config.yaml", "Configuration file path")
		cost       = flag.Float64("cost", 0, "Acquisition cost per book")
		condition  = flag.String("condition", "Good", "Book condition")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyze [flags] ISBN [ISBN...]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.LoadOrEnvWithPath(*configFile)
	logger := logging.NewLoggerWithScope(cfg.Observability.Logging, "analyze")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	backend := lothelper.NewClient(cfg.Backend.BaseURL, logger)
	coordinator := scan.NewCoordinator(backend, scan.CoordinatorConfig{
		MaxAttempts: cfg.Backend.FetchAttempts,
		BackoffStep: cfg.Backend.FetchBackoff.Std(),
	}, logger)
	svc := scan.NewService(backend, store, fees.DefaultTable(), scan.CoordinatorConfig{
		MaxAttempts: cfg.Backend.FetchAttempts,
		BackoffStep: cfg.Backend.FetchBackoff.Std(),
	}, logger)

	ctx := context.Background()
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ISBN", "Title", "Score", "Best", "Net", "Buy", "Reason")

	failures := 0
	for _, raw := range flag.Args() {
		isbn := book.NormalizeISBN(raw)
		if isbn == "" {
			logger.Warn("skipping invalid isbn", "input", raw)
			failures++
			continue
		}

		if err := backend.SubmitScan(ctx, isbn, lothelper.ScanAttributes{Condition: *condition}); err != nil {
			logger.Error("submit failed", "isbn", isbn, "error", err)
			failures++
			continue
		}
		rec, err := coordinator.AwaitEvaluation(ctx, isbn)
		if err != nil {
			logger.Error("evaluation failed", "isbn", isbn, "error", err)
			failures++
			continue
		}

		outcome := svc.Evaluate(ctx, rec, *cost, nil)

		bestLabel, netLabel := "-", "-"
		if best, ok := profit.Best(outcome.Profits); ok {
			bestLabel = best.Channel.DisplayName()
			netLabel = fmt.Sprintf("$%.2f", best.NetProfit)
		}
		buyLabel := "NO"
		if outcome.Verdict.ShouldAcquire {
			buyLabel = "YES"
		}
		table.Append(isbn, truncate(rec.Title, 32), fmt.Sprintf("%.0f", rec.Score()),
			bestLabel, netLabel, buyLabel, outcome.Verdict.Reason)
	}

	if err := table.Render(); err != nil {
		logger.Error("render failed", "error", err)
	}
	if failures > 0 {
		logger.Warn("some books could not be analyzed", "count", failures)
		os.Exit(1)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
