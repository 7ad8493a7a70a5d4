package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dtroode/imagerelay/internal/api/http/router"
	httpServer "github.com/dtroode/imagerelay/internal/api/http/server"
	"github.com/dtroode/imagerelay/internal/config"
	"github.com/dtroode/imagerelay/internal/logger"
	"github.com/dtroode/imagerelay/internal/metrics"
	"github.com/dtroode/imagerelay/internal/model"
	"github.com/dtroode/imagerelay/internal/server"
	"github.com/dtroode/imagerelay/internal/service"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	if cfg.Bucket() == "" {
		logger.Warn("bucket name is not configured, uploads will fail", "backend", cfg.Storage.Backend)
	}

	storage, err := newStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "backend", cfg.Storage.Backend, "error", err)
	}

	uploadService, err := service.NewUpload(storage, model.KeyStrategy(cfg.Upload.KeyStrategy), logger)
	if err != nil {
		logger.Fatal("failed to initialize upload service", "error", err)
	}

	recorder := metrics.NewRecorder()
	r := router.New(uploadService, recorder, cfg.Upload.TempDir, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
