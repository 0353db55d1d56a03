package main

import (
	"context"
	"log"

	"alvely-be/internal/bootstrap"
	"alvely-be/internal/config"
	"alvely-be/internal/server"
	"alvely-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	// Note: In a larger app, we might use an errgroup or supervisor here
	if err := container.EventBridge.Start(context.Background()); err != nil {
		log.Panicf("Unable to start event bridge: %v", err)
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
