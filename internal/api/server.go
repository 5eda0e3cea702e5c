package api

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/example/agentic-workflow/internal/orchestrator"
    "github.com/example/agentic-workflow/internal/tools"
)

// Server exposes workflow runs over a JSON API plus an SSE event stream.
type Server struct {
    svc      *orchestrator.Service
    registry *tools.Registry
    logger   *zap.Logger
}

func NewServer(svc *orchestrator.Service, registry *tools.Registry, logger *zap.Logger) *Server {
    return &Server{svc: svc, registry: registry, logger: logger}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
    mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        w.Write([]byte("ok"))
    })

    mux.HandleFunc("/tools", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            w.WriteHeader(http.StatusMethodNotAllowed)
            return
        }
        respondJSON(w, s.registry.Descriptions())
    })

    mux.HandleFunc("/runs", func(w http.ResponseWriter, r *http.Request) {
        switch r.Method {
        case http.MethodGet:
            respondJSON(w, s.svc.ListRuns())
        case http.MethodPost:
            var req struct {
                Query string `json:"query"`
            }
            if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
                http.Error(w, err.Error(), http.StatusBadRequest)
                return
            }
            if strings.TrimSpace(req.Query) == "" {
                http.Error(w, "query must not be empty", http.StatusBadRequest)
                return
            }
            view := s.svc.CreateRun(uuid.NewString(), req.Query)
            respondJSON(w, view)
        default:
            w.WriteHeader(http.StatusMethodNotAllowed)
        }
    })

    mux.HandleFunc("/runs/start/", func(w http.ResponseWriter, r *http.Request) {
        // path: /runs/start/{id}
        if r.Method != http.MethodPost {
            w.WriteHeader(http.StatusMethodNotAllowed)
            return
        }
        id := strings.TrimPrefix(r.URL.Path, "/runs/start/")
        if _, ok := s.svc.GetRun(id); !ok {
            http.NotFound(w, r)
            return
        }
        go func() {
            if err := s.svc.StartRun(context.Background(), id); err != nil {
                s.logger.Warn("run did not start", zap.String("run_id", id), zap.Error(err))
            }
        }()
        w.WriteHeader(http.StatusAccepted)
    })

    mux.HandleFunc("/runs/events/", func(w http.ResponseWriter, r *http.Request) {
        // path: /runs/events/{id}, SSE stream
        id := strings.TrimPrefix(r.URL.Path, "/runs/events/")
        flusher, ok := w.(http.Flusher)
        if !ok {
            http.Error(w, "streaming unsupported", http.StatusInternalServerError)
            return
        }
        if _, ok := s.svc.GetRun(id); !ok {
            http.NotFound(w, r)
            return
        }

        w.Header().Set("Content-Type", "text/event-stream")
        w.Header().Set("Cache-Control", "no-cache")
        w.Header().Set("Connection", "keep-alive")

        ch, unsubscribe := s.svc.Subscribe(id)
        defer unsubscribe()
        for {
            select {
            case <-r.Context().Done():
                return
            case b, ok := <-ch:
                if !ok {
                    return
                }
                fmt.Fprintf(w, "data: %s\n\n", b)
                flusher.Flush()
            }
        }
    })

    mux.HandleFunc("/runs/", func(w http.ResponseWriter, r *http.Request) {
        // path: /runs/{id}
        if r.Method != http.MethodGet {
            w.WriteHeader(http.StatusMethodNotAllowed)
            return
        }
        id := strings.TrimPrefix(r.URL.Path, "/runs/")
        view, ok := s.svc.GetRun(id)
        if !ok {
            http.NotFound(w, r)
            return
        }
        respondJSON(w, view)
    })
}

func respondJSON(w http.ResponseWriter, v any) {
    w.Header().Set("Content-Type", "application/json")
    enc := json.NewEncoder(w)
    enc.SetIndent("", "  ")
    enc.Encode(v)
}
