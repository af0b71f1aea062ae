package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/veganlens/backend/config"
	"github.com/veganlens/backend/internal/app"
	"github.com/veganlens/backend/internal/domain"
	"github.com/veganlens/backend/internal/infrastructure/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "catalogctl",
		Usage: "Maintain and query the VeganLens product index",
		Commands: []*cli.Command{
			{
				Name:   "reindex",
				Usage:  "Rebuild the search index from the document store",
				Action: reindexCommand,
			},
			{
				Name:      "search",
				Usage:     "Run a free-text query against the index",
				ArgsUsage: "<text>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "locale",
						Aliases: []string{"l"},
						Usage:   "Result locale (de, en)",
						Value:   string(domain.DefaultLocale),
					},
				},
			},
			{
				Name:      "detail",
				Usage:     "Show the detail view of one product",
				ArgsUsage: "<id>",
				Action:    detailCommand,
			},
		},
	}
}

// withCatalog loads configuration, builds the services and runs fn
func withCatalog(c *cli.Context, fn func(ctx context.Context, catalog *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg, err := logger.New(cfg.Server.Environment)
	if err != nil {
		return err
	}
	defer logg.Sync()

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := app.New(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer catalog.Close(ctx)

	return fn(ctx, catalog)
}

func reindexCommand(c *cli.Context) error {
	return withCatalog(c, func(ctx context.Context, catalog *app.App) error {
		count, err := catalog.Reindex.Reindex(ctx)
		if err != nil {
			return err
		}
		return printJSON(c, domain.ReindexReport{Status: "completed", IndexedCount: count})
	})
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return cli.Exit("search requires a query argument", 2)
	}
	locale := domain.ParseLocale(c.String("locale"))

	return withCatalog(c, func(ctx context.Context, catalog *app.App) error {
		result, err := catalog.Search.Search(ctx, query, locale)
		if err != nil {
			return err
		}
		return printJSON(c, result)
	})
}

func detailCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("detail requires exactly one product id", 2)
	}
	id := c.Args().First()

	return withCatalog(c, func(ctx context.Context, catalog *app.App) error {
		view, err := catalog.Detail.Detail(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(c, view)
	})
}

func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
