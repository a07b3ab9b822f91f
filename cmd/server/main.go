// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/unclebandit/leadreach-backend/internal/client"
	"github.com/unclebandit/leadreach-backend/internal/config"
	"github.com/unclebandit/leadreach-backend/internal/controller"
	"github.com/unclebandit/leadreach-backend/internal/db"
	"github.com/unclebandit/leadreach-backend/internal/handler"
	"github.com/unclebandit/leadreach-backend/internal/insights"
	"github.com/unclebandit/leadreach-backend/internal/queue"
	"github.com/unclebandit/leadreach-backend/internal/repository"
	"github.com/unclebandit/leadreach-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatal(err)
	}
	defer zap.L().Sync() //nolint:errcheck

	if err := run(cfg); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	conn, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		return err
	}

	campaignRepo := &repository.CampaignRepository{DB: conn}
	leadRepo := &repository.LeadRepository{DB: conn}
	sendRepo := &repository.SendCampaignRepository{DB: conn}
	scheduleRepo := &repository.ScheduledMessageRepository{DB: conn}

	scraper := client.NewScraperClient(cfg.Scraper.URL, cfg.Scraper.Key,
		client.WithTimeout(time.Duration(cfg.Scraper.TimeoutSecs)*time.Second))

	sender, closeSender, err := newSender(cfg.Sender)
	if err != nil {
		return err
	}
	defer closeSender()

	loc, err := cfg.Schedule.Location()
	if err != nil {
		return err
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		LeadRepo:     leadRepo,
		Scraper:      scraper,
	}
	dispatchService := &service.DispatchService{
		CampaignRepo: campaignRepo,
		LeadRepo:     leadRepo,
		SendRepo:     sendRepo,
		Sender:       sender,
	}
	scheduleService := &service.ScheduleService{
		ScheduleRepo: scheduleRepo,
		LeadRepo:     leadRepo,
		Location:     loc,
	}

	insightsService, closeCache := newInsights(cfg)
	defer closeCache()

	router := controller.NewRouter(controller.Router{
		Campaigns: &controller.CampaignController{
			CampaignService: campaignService,
			DispatchService: dispatchService,
		},
		Schedules: &controller.ScheduleController{ScheduleService: scheduleService},
		Insights:  handler.NewInsightsHandler(insightsService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr), zap.String("sender", cfg.Sender.Transport))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return eris.Wrap(err, "server: listen")
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSender picks the bulk send transport. The returned func releases it.
func newSender(cfg config.SenderConfig) (client.Sender, func(), error) {
	switch cfg.Transport {
	case "amqp":
		q, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := q.Close(); err != nil {
				zap.L().Warn("close amqp", zap.Error(err))
			}
		}
		return &queue.Sender{Queue: q, Topic: cfg.Queue}, closeFn, nil
	case "memory":
		return queue.NewLogSender(cfg.Queue), func() {}, nil
	default:
		return client.NewSenderClient(cfg.URL, cfg.Key), func() {}, nil
	}
}

// newInsights builds the insights service, with a redis cache when configured.
func newInsights(cfg *config.Config) (*insights.Service, func()) {
	svc := &insights.Service{
		Model: insights.NewAnthropicModel(cfg.Insights.Key, cfg.Insights.BaseURL, cfg.Insights.Model, cfg.Insights.MaxTokens),
	}
	if cfg.Redis.Addr == "" {
		return svc, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	svc.Cache = insights.NewRedisCache(rdb, cfg.Redis.TTL())
	return svc, func() {
		if err := rdb.Close(); err != nil {
			zap.L().Warn("close redis", zap.Error(err))
		}
	}
}
