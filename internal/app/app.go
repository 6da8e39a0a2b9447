// Package app assembles the interview engine from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhisek/skillprobe/internal/catalog"
	"github.com/abhisek/skillprobe/internal/config"
	"github.com/abhisek/skillprobe/internal/evaluation"
	"github.com/abhisek/skillprobe/internal/interview"
	"github.com/abhisek/skillprobe/internal/llm"
	"github.com/abhisek/skillprobe/internal/lock"
	"github.com/abhisek/skillprobe/internal/logger"
	"github.com/abhisek/skillprobe/internal/metrics"
	"github.com/abhisek/skillprobe/internal/selector"
	"github.com/abhisek/skillprobe/internal/store"
)

// Catalog sources reported by App.CatalogSource.
const (
	CatalogFromFile    = "file"
	CatalogFromStore   = "store"
	CatalogFromBuiltin = "builtin"
)

// Options override pieces of the assembly.
type Options struct {
	// Provider replaces the configured LLM provider. It is still wrapped
	// with logging and retry.
	Provider llm.Provider

	// Redis replaces the client built from the redis settings.
	Redis redis.UniversalClient
}

// App holds the wired dependencies for one process.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     *store.Store
	Catalog   catalog.Catalog
	Evaluator *evaluation.Evaluator
	Manager   *interview.Manager

	catalogSource string
	redis         redis.UniversalClient
	ownsRedis     bool
	metrics       *metrics.Server
}

// New opens the store and builds the interview manager. The caller must
// Close the App.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*App, error) {
	log = logger.OrNop(log)
	a := &App{Config: cfg, Logger: log}

	dsn := cfg.Store.DSN
	if dsn == "" && cfg.Store.Driver == store.DriverSQLite {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dsn = p
	}
	s, err := store.Open(cfg.Store.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.Store = s

	if err := a.build(ctx, opts); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, opts Options) error {
	cfg := a.Config

	cat, source, err := loadCatalog(ctx, cfg.Interview.CatalogFile, a.Store)
	if err != nil {
		return err
	}
	a.Catalog = cat
	a.catalogSource = source
	a.Logger.Info("catalog loaded", zap.String("source", source))

	judge, err := a.buildJudge(ctx, opts.Provider)
	if err != nil {
		return err
	}
	a.Evaluator = evaluation.New(judge, cfg.EvaluationConfig(), a.Logger)

	registry, err := a.buildRegistry(ctx, opts.Redis)
	if err != nil {
		return err
	}

	a.Manager = interview.NewManager(cfg.ManagerConfig(), interview.Deps{
		Selector:  selector.New(cat, selector.WithLogger(a.Logger)),
		Evaluator: a.Evaluator,
		Registry:  registry,
		Store:     a.Store.SessionRepo(),
		Logger:    a.Logger,
		NewID:     uuid.NewString,
	})

	if cfg.Metrics.Addr != "" {
		a.metrics = metrics.NewServer(cfg.Metrics.Addr, a.Logger)
		a.metrics.Start()
	}
	return nil
}

// buildJudge returns nil when no provider is configured, which leaves the
// evaluator in rule-only mode.
func (a *App) buildJudge(ctx context.Context, override llm.Provider) (evaluation.Judge, error) {
	events := a.Store.EventRepo()

	var provider llm.Provider
	if override != nil {
		logged := llm.WithLogging(override, override.ModelID(), events, a.Logger)
		provider = llm.WithRetry(logged, judgeRetry(llm.DefaultConfig().Retry), a.Config.Interview.AITimeout, a.Logger)
	} else {
		llmCfg, ok := a.Config.LLMSettings()
		if !ok {
			a.Logger.Warn("no LLM provider configured; answers are scored by rules only")
			return nil, nil
		}
		llmCfg.Retry = judgeRetry(llmCfg.Retry)
		p, err := llm.NewProvider(ctx, llmCfg, events, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("create LLM provider: %w", err)
		}
		provider = p
		a.Logger.Info("LLM judge enabled",
			zap.String("provider", llmCfg.Provider),
			zap.String("model", p.ModelID()),
		)
	}
	return evaluation.NewLLMJudge(provider, evaluation.DefaultLLMJudgeConfig()), nil
}

// judgeRetry limits the judge to one attempt per call. Transient failures
// surface as retryable errors and the interview loop decides whether to
// resubmit.
func judgeRetry(cfg llm.RetryConfig) llm.RetryConfig {
	cfg.MaxAttempts = 1
	return cfg
}

func (a *App) buildRegistry(ctx context.Context, client redis.UniversalClient) (interview.CandidateRegistry, error) {
	rc := a.Config.Redis
	if client == nil && !rc.Enabled {
		return interview.NewMemoryRegistry(), nil
	}
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		a.ownsRedis = true
	}
	a.redis = client

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", rc.Addr, err)
	}
	a.Logger.Info("candidate locks backed by redis", zap.String("addr", rc.Addr))
	return lock.NewRedisRegistry(client, rc.TTL, lock.WithLogger(a.Logger)), nil
}

// loadCatalog prefers an explicit YAML file, then questions imported into
// the store, then the built-in bank.
func loadCatalog(ctx context.Context, path string, s *store.Store) (catalog.Catalog, string, error) {
	if path != "" {
		m, err := catalog.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		return m, CatalogFromFile, nil
	}

	repo := s.QuestionRepo()
	n, err := repo.Count(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("count stored questions: %w", err)
	}
	if n > 0 {
		return repo, CatalogFromStore, nil
	}
	return catalog.Builtin(), CatalogFromBuiltin, nil
}

// CatalogSource reports where questions are read from.
func (a *App) CatalogSource() string {
	return a.catalogSource
}

// Close stops the metrics listener and releases connections.
func (a *App) Close() error {
	var errs []error
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, a.metrics.Shutdown(ctx))
		cancel()
	}
	if a.redis != nil && a.ownsRedis {
		errs = append(errs, a.redis.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
