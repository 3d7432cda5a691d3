package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/harukit/ideaspark/pkg/utils/logging"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "ideaspark",
		Usage: "Generate startup ideas for a niche and keep a history of past queries",
		Commands: []*cli.Command{
			generateCommand(),
			historyCommand(),
			exportCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.From(ctx).Error("command failed", logging.ErrAttr(err))
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
