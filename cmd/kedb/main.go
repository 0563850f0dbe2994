package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/mkosyakov/kedb-service/internal/auth"
	"github.com/mkosyakov/kedb-service/internal/config"
	"github.com/mkosyakov/kedb-service/internal/notification"
	"github.com/mkosyakov/kedb-service/internal/repository/postgres"
	"github.com/mkosyakov/kedb-service/internal/service"
	myhttp "github.com/mkosyakov/kedb-service/internal/transport/http"
	"github.com/mkosyakov/kedb-service/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting kedb-service", slog.String("env", cfg.Env))

	errChan := make(chan error, 1)

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		err = db.DB().Close()
		if err != nil {
			errChan <- fmt.Errorf("db close failed: %v", err)
		}
	}()

	recordRepo := postgres.NewRecordRepository(db.DB(), log)
	userRepo := postgres.NewUserRepository(db.DB(), log)
	assignmentRepo := postgres.NewAssignmentRepository(db.DB(), log)
	draftRepo := postgres.NewDraftRepository(db.DB(), log)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	notifier := notification.NewSMTPNotifier(cfg.SMTP, log)

	authService := service.NewAuthService(log, userRepo, tokens)
	recordService := service.NewRecordService(db.DB(), log, recordRepo, userRepo, assignmentRepo)
	assignmentService := service.NewAssignmentService(
		db.DB(), log, recordRepo, userRepo, assignmentRepo, assignmentRepo, notifier,
	)
	draftService := service.NewDraftService(db.DB(), log, draftRepo, recordRepo, assignmentRepo, userRepo)

	srv := myhttp.NewServer(log, authService, recordService, assignmentService, draftService, tokens)
	httpServer := &http.Server{
		Addr:        net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:     srv.Routes(),
		ReadTimeout: cfg.Server.Timeout,
	}

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %v", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shuting down http server: %v", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
