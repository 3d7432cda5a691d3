package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/harukit/ideaspark/pkg/identity"
	"github.com/harukit/ideaspark/pkg/model"
	"github.com/harukit/ideaspark/pkg/repository"
	"github.com/harukit/ideaspark/pkg/usecase/generate"
	"github.com/harukit/ideaspark/pkg/usecase/history"
)

func generateCommand() *cli.Command {
	var (
		cfg   config
		niche string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "niche",
			Aliases:     []string{"n"},
			Usage:       "Business niche to generate ideas for; omit for interactive mode",
			Sources:     cli.EnvVars("IDEASPARK_NICHE"),
			Destination: &niche,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "generate",
		Usage: "Generate startup ideas for a niche",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			ctx = cfg.newLoggerContext(ctx)

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			ident := cfg.newIdentity(ctx)

			session, err := generate.New(generate.NewInput{
				Gemini:       gemini,
				Repo:         repo,
				Identity:     ident,
				MaxAttempts:  int(cfg.maxAttempts),
				InitialDelay: cfg.initialDelay,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to create generation session")
			}

			if niche != "" {
				record, err := runGeneration(ctx, session, niche, c.Root().Writer)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.Root().Writer, "%s\n", record.GeneratedIdeas)
				return nil
			}

			return interactiveLoop(ctx, c, session, repo, ident)
		},
	}
}

// runGeneration executes one generation with a busy indicator. The
// spinner blocks re-submission for the whole call including retries:
// only one invocation is in flight per user action.
func runGeneration(ctx context.Context, session *generate.Session, niche string, w io.Writer) (*model.IdeaRecord, error) {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	sp.Suffix = " generating ideas..."
	sp.Start()
	defer sp.Stop()

	return session.Generate(ctx, niche)
}

func interactiveLoop(ctx context.Context, c *cli.Command, session *generate.Session, repo repository.Repository, ident *identity.Provider) error {
	rl, err := readline.New("niche> ")
	if err != nil {
		return goerr.Wrap(err, "failed to initialize prompt")
	}
	defer rl.Close()

	w := c.Root().Writer
	fmt.Fprintf(w, "Enter a business niche. Type 'exit' to quit.\n")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to read input")
		}

		if line == "exit" {
			break
		}
		if line == "" {
			continue
		}

		record, err := runGeneration(ctx, session, line, w)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}

		fmt.Fprintf(w, "\n%s\n\n", record.GeneratedIdeas)

		if recent := history.Recent(ctx, repo, ident, repository.DefaultRecentLimit); len(recent) > 0 {
			fmt.Fprintf(w, "Recent queries:\n")
			printRecords(w, recent)
			fmt.Fprintln(w)
		}
	}

	return nil
}
