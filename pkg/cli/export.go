package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/harukit/ideaspark/pkg/repository"
	"github.com/harukit/ideaspark/pkg/usecase/history"
)

func exportCommand() *cli.Command {
	var (
		cfg    config
		bucket string
		limit  int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket to export to",
			Sources:     cli.EnvVars("IDEASPARK_EXPORT_BUCKET"),
			Destination: &bucket,
			Required:    true,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Number of records to export",
			Value:       repository.DefaultRecentLimit,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export recent history as JSON to Cloud Storage",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			ctx = cfg.newLoggerContext(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			storage, err := cfg.newStorage(ctx, bucket)
			if err != nil {
				return err
			}

			ident := cfg.newIdentity(ctx)

			key, err := history.Export(ctx, repo, storage, ident, int(limit))
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Exported to gs://%s/%s\n", bucket, key)
			return nil
		},
	}
}
