package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"spriteforge/ai"
	"spriteforge/config"
	"spriteforge/generator"
	"spriteforge/handlers"
	"spriteforge/middleware"
	"spriteforge/repo"
	"spriteforge/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	var logger *zap.Logger
	var err error
	if config.GetLogMode() == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	st, err := store.Open(config.GetDatabasePath(), config.GetStorageQuotaBytes())
	if err != nil {
		logger.Fatal("failed to open asset database", zap.Error(err))
	}
	defer st.Close()

	repository, warnings := repo.Load(ctx, st, logger)
	for _, w := range warnings {
		logger.Warn("collection load problem", zap.Error(w))
	}

	client, err := ai.New(ctx, logger)
	if err != nil {
		logger.Fatal("failed to create Gemini client", zap.Error(err))
	}

	orch := generator.New(client, client, logger)

	server := handlers.NewServer(repository, orch, logger)
	mux := http.NewServeMux()
	server.Register(mux)

	addr := config.GetListenAddr()
	logger.Info("server running", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, middleware.EnableCORS(mux)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
