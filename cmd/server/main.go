package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memomate-server/internal/config"
	"memomate-server/internal/handler"
	"memomate-server/internal/middleware"
	"memomate-server/internal/push"
	"memomate-server/internal/repository"
	"memomate-server/internal/service"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.Open(ctx, cfg.Database.DSN)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	sender := push.NewWebPushSender(
		cfg.Push.VAPIDPublicKey,
		cfg.Push.VAPIDPrivateKey,
		cfg.Push.Subscriber,
		cfg.Push.TTL,
	)
	if !sender.Configured() {
		log.Println("VAPID keys not set, reminder notifications disabled")
	}

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration)
	noteService := service.NewNoteService(noteRepo)
	subService := service.NewSubscriptionService(subRepo)
	reminderService := service.NewReminderService(noteRepo, subRepo, sender)
	askService := service.NewAskService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)

	authHandler := handler.NewAuthHandler(authService)
	noteHandler := handler.NewNoteHandler(noteService)
	subHandler := handler.NewSubscriptionHandler(subService)
	reminderHandler := handler.NewReminderHandler(reminderService)
	askHandler := handler.NewAskHandler(askService)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	protected.HandleFunc("/notes", noteHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes", noteHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Delete).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/notes/{id}/pin", noteHandler.TogglePinned).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}/favorite", noteHandler.ToggleFavorite).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}/reminder-done", noteHandler.MarkReminderDone).Methods("POST", "OPTIONS")

	protected.HandleFunc("/subscribe", subHandler.Subscribe).Methods("POST", "OPTIONS")
	protected.HandleFunc("/subscribe", subHandler.Unsubscribe).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/ask", askHandler.Ask).Methods("POST", "OPTIONS")

	// The sweep endpoint is hit by the external cron, not by browsers.
	scheduler := api.PathPrefix("").Subrouter()
	scheduler.Use(middleware.SchedulerMiddleware(cfg.Scheduler.Token))
	scheduler.HandleFunc("/send-reminders", reminderHandler.SendDue).Methods("POST", "OPTIONS")

	r.HandleFunc("/health", healthHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting Memomate Server on %s (env: %s)", addr, cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"memomate-server"}`))
}
