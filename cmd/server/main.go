package main

import (
    "context"
    "log"
    "net/http"

    "go.uber.org/zap"

    "github.com/example/agentic-workflow/internal/agents"
    "github.com/example/agentic-workflow/internal/api"
    "github.com/example/agentic-workflow/internal/config"
    "github.com/example/agentic-workflow/internal/orchestrator"
    "github.com/example/agentic-workflow/internal/providers/llm"
    "github.com/example/agentic-workflow/internal/tools"
)

func main() {
    cfg := config.Load()

    logger, err := zap.NewProduction()
    if err != nil {
        log.Fatalf("logger: %v", err)
    }
    defer logger.Sync()

    client := llm.NewFromConfig(context.Background(), cfg, logger)

    registry := tools.NewRegistry()
    registry.Register(tools.NewWebSearchTool(cfg.TavilyAPIKey))
    registry.Register(&tools.CalculatorTool{})
    registry.Register(tools.NewWeatherTool())
    registry.Register(tools.NewWebPageTool())
    registry.Register(tools.NewReadPDFTool())

    workflow := orchestrator.NewWorkflow(
        &agents.LLMPlanner{Client: client, Logger: logger},
        &agents.ToolExecutor{Registry: registry, Client: client, Logger: logger},
        &agents.LLMReflector{Client: client, ToolNames: registry.Names(), Logger: logger},
        &agents.LLMSynthesizer{Client: client, Logger: logger},
        registry,
        logger,
    )
    svc := orchestrator.NewService(workflow, logger)

    mux := http.NewServeMux()
    api.NewServer(svc, registry, logger).RegisterRoutes(mux)

    addr := ":" + cfg.Port
    logger.Info("server listening", zap.String("addr", addr), zap.Strings("tools", registry.Names()))
    if err := http.ListenAndServe(addr, cors(mux)); err != nil {
        logger.Fatal("server stopped", zap.Error(err))
    }
}

// simple CORS middleware for local dev
func cors(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}
