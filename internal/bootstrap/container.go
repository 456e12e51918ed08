package bootstrap

import (
	"context"
	"log"

	"doc-checker-be/internal/cache"
	"doc-checker-be/internal/config"
	"doc-checker-be/internal/controller"
	"doc-checker-be/internal/handler"
	"doc-checker-be/internal/pkg/logger"
	"doc-checker-be/internal/pkg/mailer"
	"doc-checker-be/internal/repository/memory"
	"doc-checker-be/internal/repository/unitofwork"
	"doc-checker-be/internal/service"
	"doc-checker-be/internal/websocket"
	"doc-checker-be/pkg/analyzer"
	"doc-checker-be/pkg/embedding"
	"doc-checker-be/pkg/llm/factory"

	pktNats "doc-checker-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	DocumentController controller.IDocumentController
	ConflictController controller.IConflictController
	TeamController     controller.ITeamController

	// Background Services (Exposed for main.go to run)
	AnalysisService service.IAnalysisService
	RealtimeService service.IRealtimeService

	// WebSockets
	RealtimeHandler *handler.RealtimeHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	// The heuristic analyzer keeps the pipeline moving when the LLM is
	// unreachable or returns garbage.
	fallbackAnalyzer := analyzer.NewHeuristicAnalyzer()
	var docAnalyzer analyzer.Analyzer = fallbackAnalyzer

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM Provider: %v. Falling back to heuristic analysis", err)
	} else {
		docAnalyzer = analyzer.NewLLMAnalyzer(llmProvider, fallbackAnalyzer, log.Default())
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	stateCache := cache.NewStateCache(rdb)
	analysisGuard := memory.NewAnalysisGuard()

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.AnalysisTopic, pubSub)
	analysisService := service.NewAnalysisService(
		pubSub,
		cfg.Keys.AnalysisTopic,
		uowFactory,
		embeddingProvider,
		docAnalyzer,
		analysisGuard,
		natsPub,
		emailService,
		stateCache,
	)

	authService := service.NewAuthService(uowFactory, natsPub)
	documentService := service.NewDocumentService(uowFactory, publisherService, natsPub, stateCache, sysLogger)
	conflictService := service.NewConflictService(uowFactory, natsPub, stateCache)
	teamService := service.NewTeamService(uowFactory)

	realtimeService := service.NewRealtimeService(natsSub, wsHub, wsLogger)
	realtimeHandler := handler.NewRealtimeHandler(wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		DocumentController: controller.NewDocumentController(documentService),
		ConflictController: controller.NewConflictController(conflictService),
		TeamController:     controller.NewTeamController(teamService),

		AnalysisService: analysisService,
		RealtimeService: realtimeService,

		RealtimeHandler: realtimeHandler,
		WebSocketHub:    wsHub,
	}
}
