package main

import (
	"context"
	"log"

	"ai-research-safety-be/internal/bootstrap"
	"ai-research-safety-be/internal/config"
	"ai-research-safety-be/internal/server"
	"ai-research-safety-be/internal/tracer"
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
	go func() {
		log.Println("Background: Starting Audit Service...")
		if err := container.AuditService.Consume(context.Background()); err != nil {
			log.Printf("Background Audit Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
