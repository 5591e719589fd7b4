// harvest runs one collection pass from the command line against the
// configured artifact store.
//
// Usage: go run ./scripts/harvest -classification Coins [flags]
//
// Configuration comes from config.yaml / .env / environment like the server
// (MUSEUM_API_KEY, DB_TYPE, DB_PATH, ...).
//
// Flags:
//
//	-classification  Classification to fetch (required unless only querying)
//	-limit           Maximum records to fetch (default: museum.default_limit)
//	-preview         Print the normalized tables as YAML
//	-insert          Write the batch to the store
//	-query           Run a canned query by number after the pass
//	-artifact-id     Artifact id for the artifact colors query
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
	_ "github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource/sqlite"
	"github.com/ekaya-inc/artifact-collector/pkg/config"
	"github.com/ekaya-inc/artifact-collector/pkg/database"
	"github.com/ekaya-inc/artifact-collector/pkg/logging"
	"github.com/ekaya-inc/artifact-collector/pkg/models"
	"github.com/ekaya-inc/artifact-collector/pkg/museum"
	"github.com/ekaya-inc/artifact-collector/pkg/repositories"
	"github.com/ekaya-inc/artifact-collector/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

type options struct {
	classification string
	limit          int
	preview        bool
	insert         bool
	query          int
	artifactID     string
}

func main() {
	var opts options
	flag.StringVar(&opts.classification, "classification", "", "Classification to fetch")
	flag.IntVar(&opts.limit, "limit", 0, "Maximum records to fetch (0 uses the configured default)")
	flag.BoolVar(&opts.preview, "preview", false, "Print the normalized tables as YAML")
	flag.BoolVar(&opts.insert, "insert", false, "Write the batch to the store")
	flag.IntVar(&opts.query, "query", 0, "Run a canned query by number")
	flag.StringVar(&opts.artifactID, "artifact-id", "", "Artifact id for the artifact colors query")
	flag.Parse()

	if opts.classification == "" && opts.query == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s -classification <name> [-limit N] [-preview] [-insert] [-query N] [-artifact-id ID]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -query N [-artifact-id ID]\n", os.Args[0])
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", logging.SanitizeError(err))
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(Version)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	repo := repositories.NewArtifactRepository(db, logger)
	queries := services.NewQueryService(datasource.NewSQLExecutor(db.DB, logger), db.Dialect.Type(), logger)

	if opts.classification != "" {
		client := museum.NewClient(cfg.Museum.BaseURL, cfg.Museum.APIKey,
			time.Duration(cfg.Museum.TimeoutSeconds)*time.Second, logger)
		collector := services.NewCollectorService(client, cfg.Museum.PageSize, cfg.Museum.DefaultLimit, logger)
		if err := harvest(ctx, opts, collector, repo, logger); err != nil {
			return err
		}
	}

	if opts.query != 0 {
		return runQuery(ctx, opts, queries)
	}
	return nil
}

func harvest(ctx context.Context, opts options, collector services.CollectorService, repo repositories.ArtifactRepository, logger *zap.Logger) error {
	batch, err := collector.Collect(ctx, opts.classification, opts.limit)
	if err != nil {
		return err
	}
	fmt.Printf("Collected %d artifacts (%d media rows, %d colors) for %q in %d pages",
		len(batch.Metadata), len(batch.Media), len(batch.Colors), batch.Classification, batch.PagesFetched)
	if batch.Skipped > 0 {
		fmt.Printf(", skipped %d records without an id", batch.Skipped)
	}
	fmt.Println()

	if opts.preview {
		out, err := yaml.Marshal(map[string]any{
			"artifact_metadata": batch.Metadata,
			"artifact_media":    batch.Media,
			"artifact_colors":   batch.Colors,
		})
		if err != nil {
			return fmt.Errorf("render preview: %w", err)
		}
		fmt.Print(string(out))
	}

	if !opts.insert {
		return nil
	}
	if err := repo.Upsert(ctx, batch.Metadata, batch.Media, batch.Colors); err != nil {
		return err
	}
	counts, err := repo.Counts(ctx)
	if err != nil {
		logger.Warn("Failed to read table counts", zap.Error(err))
		return nil
	}
	fmt.Printf("Store now holds %d metadata, %d media and %d color rows\n",
		counts.Metadata, counts.Media, counts.Colors)
	return nil
}

func runQuery(ctx context.Context, opts options, queries services.QueryService) error {
	var (
		result *models.QueryResult
		err    error
	)
	if opts.query == services.ArtifactColorsQuery {
		result, err = queries.RunArtifactColors(ctx, opts.artifactID)
	} else {
		result, err = queries.Run(ctx, opts.query)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%d. %s\n", result.Number, result.Question)
	printRows(result)
	return nil
}

func printRows(result *models.QueryResult) {
	names := make([]string, len(result.Columns))
	for i, c := range result.Columns {
		names[i] = c.Name
	}
	if len(names) == 0 && len(result.Rows) > 0 {
		for k := range result.Rows[0] {
			names = append(names, k)
		}
		sort.Strings(names)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(names, "\t"))
	for _, row := range result.Rows {
		cells := make([]string, len(names))
		for i, name := range names {
			if v := row[name]; v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()

	suffix := ""
	if result.Truncated {
		suffix = " (truncated)"
	}
	fmt.Printf("%d rows%s\n", result.RowCount, suffix)
}
