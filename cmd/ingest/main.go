package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v6"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stroymet/catalog-ingest/cmd/ingest/config"
	"github.com/stroymet/catalog-ingest/internal/attributes"
	"github.com/stroymet/catalog-ingest/internal/categories"
	"github.com/stroymet/catalog-ingest/internal/fetcher"
	"github.com/stroymet/catalog-ingest/internal/imagesync"
	"github.com/stroymet/catalog-ingest/internal/platform/objstore"
	"github.com/stroymet/catalog-ingest/internal/platform/storage"
	"github.com/stroymet/catalog-ingest/internal/products"
	"github.com/stroymet/catalog-ingest/internal/uniquifier"
	"github.com/urfave/cli/v2"
)

const (
	// UserAgent is sent with every request to the source site. The site
	// serves a stripped page to obvious bots, so a browser agent is used.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	// AcceptLanguage matches the source site's locale.
	AcceptLanguage = "ru-RU,ru;q=0.9,en-US;q=0.8"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := zerolog.New(os.Stderr).With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-termChan
		logger.Info().Msg("shutdown signal received")
		cancel()
	}()

	app := &cli.App{
		Name:  "ingest",
		Usage: "catalog ingestion pipelines",
		Commands: []*cli.Command{
			{
				Name:  "categories",
				Usage: "rebuild the category tree from the source site",
				Action: func(c *cli.Context) error {
					return runCategories(c.Context, cfg, &logger)
				},
			},
			{
				Name:  "attributes",
				Usage: "ingest filter attributes for pending categories",
				Action: func(c *cli.Context) error {
					return runAttributes(c.Context, cfg, &logger)
				},
			},
			{
				Name:  "products",
				Usage: "ingest products for pending categories",
				Action: func(c *cli.Context) error {
					return runProducts(c.Context, cfg, &logger)
				},
			},
			{
				Name:  "uniquify",
				Usage: "generate unique SEO texts for stored products",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "render a sample to the log without writing",
					},
				},
				Action: func(c *cli.Context) error {
					return runUniquify(c.Context, cfg, c.Bool("dry-run"), &logger)
				},
			},
			{
				Name:  "images",
				Usage: "mirror product images into object storage",
				Action: func(c *cli.Context) error {
					return runImages(c.Context, cfg, &logger)
				},
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Fatal().
			Err(err).
			Msg("run failed")
	}
}

func runCategories(ctx context.Context, cfg config.Config, logger *zerolog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	crawler := categories.NewCrawler(
		newFetcher(cfg),
		storage.NewPostgres(db),
		cfg.SourceBaseURL,
		cfg.FetchDelay,
		logger,
	)

	_, err = crawler.Run(ctx)
	return err
}

func runAttributes(ctx context.Context, cfg config.Config, logger *zerolog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	pipeline := attributes.NewPipeline(
		newFetcher(cfg),
		storage.NewPostgres(db),
		cfg.SourceBaseURL,
		cfg.FetchDelay,
		logger,
	)

	return pipeline.Run(ctx)
}

func runProducts(ctx context.Context, cfg config.Config, logger *zerolog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	pipeline := products.NewPipeline(
		newFetcher(cfg),
		storage.NewPostgres(db),
		cfg.SourceBaseURL,
		cfg.FetchDelay,
		cfg.DetailConcurrency,
		logger,
	)

	return pipeline.Run(ctx)
}

func runUniquify(ctx context.Context, cfg config.Config, dryRun bool, logger *zerolog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	uniq := uniquifier.NewUniquifier(
		storage.NewPostgres(db),
		cfg.BatchSize,
		cfg.UpdateConcurrency,
		dryRun,
		logger,
	)

	return uniq.Run(ctx)
}

func runImages(ctx context.Context, cfg config.Config, logger *zerolog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	store, err := objstore.NewMinioStore(
		ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.Secure,
		cfg.Minio.Bucket,
		cfg.Minio.PublicURL,
	)
	if err != nil {
		return fmt.Errorf("can't open object storage: %w", err)
	}

	status := imagesync.NewStatus()

	statusServer := &http.Server{Addr: cfg.StatusAddr, Handler: status.Handler()}
	go func() {
		if err := statusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("status server failed")
		}
	}()
	defer statusServer.Close()

	syncer := imagesync.NewSyncer(
		newFetcher(cfg),
		storage.NewPostgres(db),
		store,
		status,
		sourceDomain(cfg.SourceBaseURL),
		cfg.Minio.Folder,
		cfg.FetchDelay,
		cfg.UpdateConcurrency,
		logger,
	)

	return syncer.Run(ctx)
}

func newFetcher(cfg config.Config) *fetcher.Fetcher {
	return fetcher.NewFetcher(&http.Client{Timeout: cfg.HTTPTimeout}, UserAgent, AcceptLanguage)
}

func openDB(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("can't open Postgres connection: %w", err)
	}

	return db, nil
}

func closeDB(db *sql.DB, logger *zerolog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error().Err(err).Msg("can't close Postgres connection")
	}
}

func sourceDomain(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	return parsed.Host
}
