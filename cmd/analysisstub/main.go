package main

// Run the rule-based analysis service locally:
//   go run ./cmd/analysisstub

import (
	"log"

	"idea-analyzer/internal/shared/config"
	"idea-analyzer/internal/shared/server"
	"idea-analyzer/internal/stubanalysis"
)

func main() {
	cfg := config.Load()
	r := stubanalysis.NewEngine(&stubanalysis.Server{}, cfg.CORSAllowOrigin)

	addr := server.Addr(cfg.StubPort)
	log.Printf("Starting analysis stub on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
