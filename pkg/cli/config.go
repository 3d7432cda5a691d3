package cli

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/harukit/ideaspark/pkg/adapter"
	"github.com/harukit/ideaspark/pkg/identity"
	"github.com/harukit/ideaspark/pkg/model"
	"github.com/harukit/ideaspark/pkg/repository"
	"github.com/harukit/ideaspark/pkg/utils/logging"
)

// config holds configuration values
type config struct {
	// Generative backend
	geminiProject  string
	geminiLocation string
	geminiAPIKey   string
	geminiModel    string
	apiEndpoint    string

	// Repository
	firestoreProject  string
	firestoreDatabase string
	namespace         string

	// Session
	identity    string
	credentials string

	// Retry
	maxAttempts  int64
	initialDelay time.Duration

	// Misc
	logLevel   string
	configFile string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID for Firestore",
			Sources:     cli.EnvVars("IDEASPARK_FIRESTORE_PROJECT", "GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.firestoreProject,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Sources:     cli.EnvVars("IDEASPARK_FIRESTORE_DATABASE"),
			Destination: &cfg.firestoreDatabase,
		},
		&cli.StringFlag{
			Name:        "namespace",
			Usage:       "Partition namespace for stored records",
			Sources:     cli.EnvVars("IDEASPARK_NAMESPACE"),
			Destination: &cfg.namespace,
		},
		&cli.StringFlag{
			Name:        "identity",
			Usage:       "Session identity; an anonymous one is generated when empty",
			Sources:     cli.EnvVars("IDEASPARK_IDENTITY"),
			Destination: &cfg.identity,
		},
		&cli.StringFlag{
			Name:        "credentials",
			Usage:       "Path to a service account credentials file",
			Sources:     cli.EnvVars("IDEASPARK_CREDENTIALS"),
			Destination: &cfg.credentials,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Sources:     cli.EnvVars("IDEASPARK_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a YAML config file",
			Sources:     cli.EnvVars("IDEASPARK_CONFIG"),
			Destination: &cfg.configFile,
		},
	}
}

// llmFlags returns flags for the generative backend with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini (Vertex AI backend)",
			Sources:     cli.EnvVars("IDEASPARK_GEMINI_PROJECT", "GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Sources:     cli.EnvVars("IDEASPARK_GEMINI_LOCATION", "GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key (Gemini API backend)",
			Sources:     cli.EnvVars("IDEASPARK_GEMINI_API_KEY", "GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Generative model name",
			Sources:     cli.EnvVars("IDEASPARK_GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "api-endpoint",
			Usage:       "Override the generative API endpoint",
			Sources:     cli.EnvVars("IDEASPARK_API_ENDPOINT"),
			Destination: &cfg.apiEndpoint,
		},
		&cli.IntFlag{
			Name:        "max-attempts",
			Usage:       "Retry attempt limit for generative calls",
			Value:       5,
			Sources:     cli.EnvVars("IDEASPARK_MAX_ATTEMPTS"),
			Destination: &cfg.maxAttempts,
		},
		&cli.DurationFlag{
			Name:        "initial-delay",
			Usage:       "Initial retry delay; doubles after each failed attempt",
			Value:       time.Second,
			Sources:     cli.EnvVars("IDEASPARK_INITIAL_DELAY"),
			Destination: &cfg.initialDelay,
		},
	}
}

// fileConfig is the YAML config file shape. File values fill only
// fields that flags and environment left empty.
type fileConfig struct {
	Credential         string `yaml:"credential"`
	PartitionNamespace string `yaml:"partition_namespace"`
	APIEndpoint        string `yaml:"api_endpoint"`
	GeminiProject      string `yaml:"gemini_project"`
	GeminiLocation     string `yaml:"gemini_location"`
	GeminiAPIKey       string `yaml:"gemini_api_key"`
	GeminiModel        string `yaml:"gemini_model"`
	FirestoreProject   string `yaml:"firestore_project"`
	FirestoreDatabase  string `yaml:"firestore_database"`
	Identity           string `yaml:"identity"`
	LogLevel           string `yaml:"log_level"`
}

// load applies the YAML config file overlay and validates the result
func (cfg *config) load() error {
	if cfg.configFile != "" {
		data, err := os.ReadFile(cfg.configFile)
		if err != nil {
			return goerr.Wrap(err, "failed to read config file", goerr.V("path", cfg.configFile))
		}

		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return goerr.Wrap(err, "failed to parse config file", goerr.V("path", cfg.configFile))
		}

		overlay(&cfg.credentials, fc.Credential)
		overlay(&cfg.namespace, fc.PartitionNamespace)
		overlay(&cfg.apiEndpoint, fc.APIEndpoint)
		overlay(&cfg.geminiProject, fc.GeminiProject)
		overlay(&cfg.geminiLocation, fc.GeminiLocation)
		overlay(&cfg.geminiAPIKey, fc.GeminiAPIKey)
		overlay(&cfg.geminiModel, fc.GeminiModel)
		overlay(&cfg.firestoreProject, fc.FirestoreProject)
		overlay(&cfg.firestoreDatabase, fc.FirestoreDatabase)
		overlay(&cfg.identity, fc.Identity)
		overlay(&cfg.logLevel, fc.LogLevel)
	}

	if cfg.namespace == "" {
		cfg.namespace = "ideaspark"
	}
	if cfg.geminiLocation == "" {
		cfg.geminiLocation = "us-central1"
	}
	if cfg.logLevel == "" {
		cfg.logLevel = "info"
	}

	return nil
}

// overlay fills dst from the file value unless a flag or environment
// variable already set it. Precedence: flag/env > file > default.
func overlay(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

func (cfg *config) clientOptions() []option.ClientOption {
	if cfg.credentials == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.credentials)}
}

// newLoggerContext attaches a configured logger to the context
func (cfg *config) newLoggerContext(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newRepository creates a Firestore repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.firestoreProject == "" {
		return nil, goerr.New("firestore-project is required")
	}

	repo, err := repository.NewFirestore(ctx, cfg.firestoreProject, cfg.firestoreDatabase, cfg.namespace, cfg.clientOptions()...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates a Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	opts := []adapter.GeminiOption{}
	if cfg.geminiAPIKey != "" {
		opts = append(opts, adapter.WithAPIKey(cfg.geminiAPIKey))
	} else {
		opts = append(opts, adapter.WithVertex(cfg.geminiProject, cfg.geminiLocation))
	}
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithGenerativeModel(cfg.geminiModel))
	}
	if cfg.apiEndpoint != "" {
		opts = append(opts, adapter.WithBaseURL(cfg.apiEndpoint))
	}

	gemini, err := adapter.NewGemini(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gemini adapter")
	}
	return gemini, nil
}

// newStorage creates a Storage adapter instance
func (cfg *config) newStorage(ctx context.Context, bucketName string) (adapter.Storage, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	storage, err := adapter.NewStorage(ctx, bucketName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// newIdentity creates and resolves the session identity provider
func (cfg *config) newIdentity(ctx context.Context) *identity.Provider {
	ident := identity.New(model.Identity(cfg.identity))
	ident.Resolve(ctx)
	return ident
}
