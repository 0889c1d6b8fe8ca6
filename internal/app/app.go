package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ArtemMoroz51/QuizEditor/internal/handler"
	"github.com/ArtemMoroz51/QuizEditor/internal/logger"
	"github.com/ArtemMoroz51/QuizEditor/internal/service"
	"github.com/ArtemMoroz51/QuizEditor/internal/storage"
	"github.com/ArtemMoroz51/QuizEditor/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	cfg Config
	log *zap.Logger
	srv *http.Server
}

func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l, err := logger.New(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg: cfg,
		log: l,
		srv: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           NewRouter(cfg, l),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// NewRouter wires the editor: Knowledge Store client, sessions, push hub and API.
func NewRouter(cfg Config, l *zap.Logger) http.Handler {
	store := storage.NewHTTPKnowledgeStore(storage.HTTPConfig{
		BaseURL:       cfg.Store.BaseURL,
		CSRFToken:     cfg.Store.CSRFToken,
		SessionCookie: cfg.Store.SessionCookie,
		Timeout:       cfg.Store.Timeout,
	}, nil, l.Named("store"))

	hub := ws.NewHub(l.Named("ws"))
	svc := service.NewEditorService(service.NewSessionManager(store, l.Named("session")), hub, l)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	handler.RegisterEditorHandlers(r, svc, hub, cfg.EditorToken, l.Named("api"))
	return r
}

func (a *App) Run() error {
	a.log.Info("editor started",
		zap.String("addr", a.cfg.HTTPAddr),
		zap.String("store_url", a.cfg.Store.BaseURL),
		zap.String("log_level", a.cfg.Log.Level),
	)
	if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("editor stopping")
	return a.srv.Shutdown(ctx)
}

func (a *App) Close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}
