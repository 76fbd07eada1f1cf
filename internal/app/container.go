package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/poketeam-kakao-bot-go/internal/adapter"
	"github.com/kapu/poketeam-kakao-bot-go/internal/bot"
	"github.com/kapu/poketeam-kakao-bot-go/internal/command"
	"github.com/kapu/poketeam-kakao-bot-go/internal/config"
	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/iris"
	"github.com/kapu/poketeam-kakao-bot-go/internal/pager"
	"github.com/kapu/poketeam-kakao-bot-go/internal/pokedex"
	"github.com/kapu/poketeam-kakao-bot-go/internal/service"
	"github.com/kapu/poketeam-kakao-bot-go/internal/service/cache"
	"github.com/kapu/poketeam-kakao-bot-go/internal/service/database"
	"github.com/kapu/poketeam-kakao-bot-go/internal/service/paste"
	"github.com/kapu/poketeam-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components like Bot.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	botDeps *bot.Dependencies
	closers []func()
}

// NewBot instantiates a bot using the pre-built dependency graph.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.botDeps == nil {
		return nil, fmt.Errorf("bot dependencies not initialized")
	}
	return bot.NewBot(c.botDeps)
}

// Close tears down infrastructure connections in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services and returns a container capable
// of creating fully-wired bots. All heavy-weight initialization (DB, cache,
// pokedex load) happens here so that bot.NewBot stays focused on the event
// loop.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Gateway primitives
	irisClient := iris.NewClient(cfg.Iris.BaseURL, logger)
	irisWS := iris.NewWebSocket(cfg.Iris.WSURL, 5, 5*time.Second, logger)
	messageAdapter := adapter.NewMessageAdapter(cfg.Bot.Prefix)
	formatter := adapter.NewResponseFormatter(cfg.Bot.Prefix)

	// Cache and database
	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	if err := postgresSvc.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	// Pokedex dictionary: loaded once, read-only from here on.
	dex, err := pokedex.LoadFile(cfg.Pokedex.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load pokedex: %w", err)
	}
	logger.Info("Pokedex loaded",
		zap.String("file", cfg.Pokedex.File),
		zap.Int("names", dex.Len()),
	)

	// Roster resolution pipeline
	breaker := util.NewCircuitBreaker(cfg.Paste.BreakerThreshold, cfg.Paste.BreakerReset, logger)
	fetcher := paste.NewFetcher(breaker, logger)
	rosterSvc := service.NewRosterService(fetcher, cacheSvc, dex, logger)

	// Team store and query engine
	teamRepo := service.NewTeamRepository(postgresSvc, logger)
	teamSvc := service.NewTeamService(teamRepo, rosterSvc, logger)

	// Optional language providers for the ask command
	nluEngine := buildNLU(ctx, cfg, logger)

	sessions := pager.NewManager(logger)
	registry := command.NewRegistry()

	sendMessage := func(room, message string) error {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return irisClient.SendMessage(sendCtx, room, message)
	}

	deps := &command.Dependencies{
		Teams:       teamSvc,
		Rosters:     rosterSvc,
		NLU:         nluEngine,
		Sessions:    sessions,
		Formatter:   formatter,
		SendMessage: sendMessage,
		SendError: func(room, message string) error {
			return sendMessage(room, formatter.FormatError(message))
		},
		ExecuteCommand: func(ctx context.Context, cmdCtx *domain.CommandContext, cmdType domain.CommandType, params map[string]any) error {
			return registry.Execute(ctx, cmdCtx, cmdType.String(), params)
		},
		PasteHostPrefix:  cfg.Paste.HostPrefix,
		AddTeamAdminOnly: cfg.Bot.AddTeamAdminOnly,
		PagerTimeout:     cfg.Pager.Timeout,
		PageSize:         cfg.Pager.PageSize,
		Logger:           logger,
	}

	registry.Register(command.NewAddTeamCommand(deps))
	registry.Register(command.NewStyleCommand(deps))
	registry.Register(command.NewDeleteTeamCommand(deps))
	registry.Register(command.NewDeleteBannedCommand(deps))
	registry.Register(command.NewTeamCommand(deps))
	registry.Register(command.NewAskCommand(deps))
	registry.Register(command.NewHelpCommand(deps))

	logger.Info("Commands registered", zap.Int("count", registry.Count()))

	return &Container{
		Config: cfg,
		Logger: logger,
		botDeps: &bot.Dependencies{
			Logger:     logger,
			WS:         irisWS,
			Adapter:    messageAdapter,
			Dispatcher: command.NewAsyncDispatcher(registry, logger),
			Sessions:   sessions,
			Rooms:      cfg.Kakao.Rooms,
			AdminUsers: cfg.Bot.AdminUsers,
		},
		closers: closers,
	}, nil
}

// buildNLU assembles the provider chain for the ask command. Missing API keys
// are not an error; the command reports itself unconfigured instead.
func buildNLU(ctx context.Context, cfg *config.Config, logger *zap.Logger) *service.NLUEngine {
	providers := make([]service.JSONProvider, 0, 2)

	if cfg.NLU.GeminiAPIKey != "" {
		gemini, err := service.NewGeminiProvider(ctx, cfg.NLU.GeminiAPIKey, cfg.NLU.GeminiModel, logger)
		if err != nil {
			logger.Warn("Gemini provider unavailable", zap.Error(err))
		} else {
			providers = append(providers, gemini)
		}
	}

	if openaiProvider := service.NewOpenAIProvider(cfg.NLU.OpenAIAPIKey, logger); openaiProvider != nil {
		providers = append(providers, openaiProvider)
	}

	if len(providers) == 0 {
		logger.Info("No language providers configured, ask command disabled")
		return nil
	}

	return service.NewNLUEngine(providers, logger)
}
