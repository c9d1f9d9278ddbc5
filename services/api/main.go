package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/02loveslollipop/fire-data-brazil/services/api/config"
	"github.com/02loveslollipop/fire-data-brazil/services/api/fires"
	"github.com/02loveslollipop/fire-data-brazil/services/api/firms"
	httpserver "github.com/02loveslollipop/fire-data-brazil/services/api/http"
	"github.com/02loveslollipop/fire-data-brazil/services/api/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}
	if lvl, err := logger.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warnf("ignoring LOG_LEVEL: %v", err)
	}
	logger.Infof("log level %s", logger.GetLevel())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	clock := firms.Clock(time.Now)
	if cfg.PinStartDate {
		clock = firms.PinnedClock(time.Now())
		logger.Infof("query window pinned to start date %s", time.Now().Format("2006-01-02"))
	}

	client := firms.NewClient(cfg.FIRMSBaseURL, cfg.MapKey,
		firms.WithTimeout(cfg.FIRMSTimeout),
		firms.WithClock(clock),
	)
	srv := httpserver.New(cfg, fires.NewService(client))
	logger.Infof("%s %s listening on %s", httpserver.ServiceName, httpserver.Version, cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
