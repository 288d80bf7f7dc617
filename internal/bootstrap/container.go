package bootstrap

import (
	"context"
	"log"

	"ai-research-safety-be/internal/config"
	"ai-research-safety-be/internal/controller"
	"ai-research-safety-be/internal/pkg/logger"
	"ai-research-safety-be/internal/service"
	"ai-research-safety-be/pkg/guard"
	"ai-research-safety-be/pkg/llm"
	"ai-research-safety-be/pkg/llm/factory"
	"ai-research-safety-be/pkg/llm/openai"
	"ai-research-safety-be/pkg/moderation"
	"ai-research-safety-be/pkg/redact"
	"ai-research-safety-be/pkg/research"
	"ai-research-safety-be/pkg/risk"
	"ai-research-safety-be/pkg/store"

	pktNats "ai-research-safety-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ResearchController   controller.IResearchController
	ModerationController controller.IModerationController
	AdminController      controller.IAdminController

	// Background Services (Exposed for main.go to run)
	AuditService service.IAuditService
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Model Providers
	// The chat provider is swappable (openai/ollama); search, vision, and the
	// hosted moderation pass are OpenAI capabilities and stay nil elsewhere.
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var visionProvider llm.VisionProvider
	var searchProvider llm.SearchProvider
	var moderationProvider llm.ModerationProvider
	if cfg.Ai.OpenAIAPIKey != "" {
		openaiProvider := openai.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.LLMModel)
		openaiProvider.BaseURL = cfg.Ai.OpenAIBaseURL
		openaiProvider.SearchModel = cfg.Ai.SearchModel
		openaiProvider.ModerationModel = cfg.Ai.ModerationModel
		visionProvider = openaiProvider
		searchProvider = openaiProvider
		moderationProvider = openaiProvider
	} else {
		log.Printf("[WARN] No OpenAI API key; web search, vision, and API moderation disabled")
	}

	// 2.5 Infrastructure
	// NATS (optional audit fan-out)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Verdict cache: Redis when configured, in-process otherwise
	var verdictCache store.VerdictCache
	if cfg.Cache.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.Cache.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		verdictCache = store.NewRedisCache(rdb, cfg.Cache.VerdictTTL)
	} else {
		verdictCache = store.NewMemoryCache(cfg.Cache.VerdictTTL)
	}

	// 4. Domain Pipelines
	inputGuard := guard.NewGuard(llmProvider)
	redactor := redact.NewRedactor()
	classifier := risk.NewClassifier()

	researchPipeline := research.NewPipeline(
		inputGuard,
		llmProvider,
		searchProvider,
		moderationProvider,
		log.Default(),
	)
	moderationPipeline := moderation.NewPipeline(
		llmProvider,
		visionProvider,
		moderationProvider,
		redactor,
		classifier,
		log.Default(),
	)
	coordinator := moderation.NewCoordinator(moderationPipeline, log.Default())

	// 5. Services
	publisherService := service.NewPublisherService(service.AuditTopic, pubSub)
	auditService := service.NewAuditService(pubSub, service.AuditTopic, auditLogger, natsPub)

	researchService := service.NewResearchService(researchPipeline, publisherService, sysLogger)
	moderationService := service.NewModerationService(
		moderationPipeline,
		coordinator,
		verdictCache,
		publisherService,
		sysLogger,
	)
	adminService := service.NewAdminService(sysLogger)

	// 6. Controllers
	return &Container{
		ResearchController:   controller.NewResearchController(researchService),
		ModerationController: controller.NewModerationController(moderationService),
		AdminController:      controller.NewAdminController(adminService),

		AuditService: auditService,
	}
}
