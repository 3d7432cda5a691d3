package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/harukit/ideaspark/pkg/model"
	"github.com/harukit/ideaspark/pkg/repository"
	"github.com/harukit/ideaspark/pkg/usecase/history"
)

const previewLength = 80

func historyCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Number of records to show",
			Value:       repository.DefaultRecentLimit,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "history",
		Usage: "Show recent idea generations, newest first",
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

			ident := cfg.newIdentity(ctx)

			records := history.Recent(ctx, repo, ident, int(limit))
			if len(records) == 0 {
				fmt.Fprintf(c.Root().Writer, "No history found\n")
				return nil
			}

			printRecords(c.Root().Writer, records)
			return nil
		},
	}
}

// printRecords renders records as one-line truncated previews
func printRecords(w io.Writer, records []*model.IdeaRecord) {
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Niche,
			preview(r.GeneratedIdeas),
		)
	}
}

func preview(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > previewLength {
		return text[:previewLength] + "..."
	}
	return text
}
