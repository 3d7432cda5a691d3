package generate

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/harukit/ideaspark/pkg/adapter"
	"github.com/harukit/ideaspark/pkg/identity"
	"github.com/harukit/ideaspark/pkg/model"
	"github.com/harukit/ideaspark/pkg/repository"
	"github.com/harukit/ideaspark/pkg/utils/backoff"
	"github.com/harukit/ideaspark/pkg/utils/logging"
)

const systemPrompt = `You are a startup idea generator. Given a business niche, propose 3 to 5 concrete startup ideas. For each idea give a short name, a one-line pitch, and the main customer problem it solves. Use current market context where relevant. Answer as a numbered list in plain text.`

// Session runs idea generation for one CLI session
type Session struct {
	gemini adapter.Gemini
	repo   repository.Repository
	ident  *identity.Provider

	maxAttempts  int
	initialDelay time.Duration
}

// NewInput contains dependencies for a generation session
type NewInput struct {
	Gemini   adapter.Gemini
	Repo     repository.Repository
	Identity *identity.Provider

	// Retry tuning; zero values select the backoff defaults
	MaxAttempts  int
	InitialDelay time.Duration
}

func New(input NewInput) (*Session, error) {
	if input.Gemini == nil {
		return nil, goerr.New("gemini adapter is required")
	}
	if input.Repo == nil {
		return nil, goerr.New("repository is required")
	}
	if input.Identity == nil {
		return nil, goerr.New("identity provider is required")
	}

	return &Session{
		gemini:       input.Gemini,
		repo:         input.Repo,
		ident:        input.Identity,
		maxAttempts:  input.MaxAttempts,
		initialDelay: input.InitialDelay,
	}, nil
}

// Generate validates the niche, calls the generative backend with
// bounded retry, and persists the resulting record. Persistence is
// best-effort: a failed write is logged and the generated text is still
// returned to the caller.
func (s *Session) Generate(ctx context.Context, niche string) (*model.IdeaRecord, error) {
	niche = strings.TrimSpace(niche)
	if niche == "" {
		return nil, model.ErrEmptyNiche
	}

	contents := []*genai.Content{
		genai.NewContentFromText("Generate startup ideas for this niche: "+niche, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	opts := []backoff.Option{}
	if s.maxAttempts > 0 {
		opts = append(opts, backoff.WithMaxAttempts(s.maxAttempts))
	}
	if s.initialDelay > 0 {
		opts = append(opts, backoff.WithInitialDelay(s.initialDelay))
	}

	resp, err := backoff.Do(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return s.gemini.GenerateContent(ctx, contents, config)
	}, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate ideas", goerr.V("niche", niche))
	}

	text, err := adapter.ResponseText(resp)
	if err != nil {
		return nil, goerr.Wrap(err, "unusable generation response")
	}

	record := model.NewIdeaRecord(niche, text)
	s.persist(ctx, record)

	return record, nil
}

// persist writes the record under the session identity. Failures never
// propagate: the user already has the generated text.
func (s *Session) persist(ctx context.Context, record *model.IdeaRecord) {
	logger := logging.From(ctx)

	id, ok := s.ident.Current()
	if !ok {
		logger.Warn("skipping history write", logging.ErrAttr(identity.ErrNotReady))
		return
	}

	if err := s.repo.PutIdea(ctx, id, record); err != nil {
		logger.Warn("failed to save idea record",
			logging.ErrAttr(err),
			"idea_id", record.ID,
		)
		return
	}

	logger.Debug("saved idea record", "idea_id", record.ID, "identity", id)
}
