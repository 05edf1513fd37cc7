package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/hadamard-2/exit-exam-prep/internal/api/http"
	"github.com/hadamard-2/exit-exam-prep/internal/auth"
	"github.com/hadamard-2/exit-exam-prep/internal/chat"
	"github.com/hadamard-2/exit-exam-prep/internal/config"
	"github.com/hadamard-2/exit-exam-prep/internal/db"
	"github.com/hadamard-2/exit-exam-prep/internal/eventlog"
	"github.com/hadamard-2/exit-exam-prep/internal/kv"
	"github.com/hadamard-2/exit-exam-prep/internal/quiz"
	"github.com/hadamard-2/exit-exam-prep/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	sessions := quiz.NewManager(kv.NewSQL(dbh))
	events := eventlog.NewRepo(dbh)
	authSvc := auth.NewService(cfg.SessionSecret)

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	completer := chat.NewClient(chat.ClientConfig{
		APIURL:  cfg.ChatAPIURL,
		APIKey:  cfg.ChatAPIKey,
		Model:   cfg.ChatModel,
		Timeout: time.Duration(cfg.ChatTimeoutSec) * time.Second,
	})
	if cfg.ChatAPIKey == "" {
		log.Printf("CHAT_API_KEY not set; review chat replies will fail over to the canned message")
	}

	srv := api.NewServer(sessions, authSvc, blobs, events, completer, cfg.AdminPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Admin-Password"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	srv.Mount(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
