package bootstrap

import (
	"context"
	"log"
	"os"

	"alvely-be/internal/config"
	"alvely-be/internal/controller"
	"alvely-be/internal/handler"
	"alvely-be/internal/pkg/logger"
	"alvely-be/internal/service"
	"alvely-be/internal/websocket"
	"alvely-be/pkg/llm/factory"
	"alvely-be/pkg/retrieval/pipeline"
	"alvely-be/pkg/search/bing"
	"alvely-be/pkg/session"

	pktNats "alvely-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController

	// WebSockets & Streaming
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub

	// Background Services (Exposed for main.go to run)
	EventBridge *service.EventBridge
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Retrieval Pipeline
	searchGateway := bing.NewClient(cfg.Keys.Bing, cfg.Ai.BingBaseURL)
	backendResolver := factory.NewResolver(factory.Keys{
		OpenAI:           cfg.Keys.OpenAI,
		OpenAIBaseURL:    cfg.Ai.OpenAIBaseURL,
		Anthropic:        cfg.Keys.Anthropic,
		AnthropicBaseURL: cfg.Ai.AnthropicBaseURL,
	})
	pipelineLogger := log.New(os.Stdout, "", log.LstdFlags)
	retrievalPipeline := pipeline.New(searchGateway, backendResolver, pipelineLogger)

	// Session storage is in-memory with TTL eviction
	sessionRepo := session.NewRepository()

	// 4. Services
	assistantService := service.NewAssistantService(
		sessionRepo,
		retrievalPipeline,
		pubSub,
		cfg.Ai.DefaultModel,
		sysLogger,
	)

	// Event bridge fans pipeline emissions out to the hub and NATS
	eventBridge := service.NewEventBridge(pubSub, wsHub, natsPub, sysLogger)

	// Handler
	streamHandler := handler.NewStreamHandler(assistantService, wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		StreamHandler:       streamHandler,
		WebSocketHub:        wsHub,
		EventBridge:         eventBridge,
	}
}
