package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"taskflow/internal/config"
	"taskflow/internal/httpapi"
	"taskflow/internal/notify"
	"taskflow/internal/service"
	"taskflow/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "taskflow",
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "err", err)
	}

	var (
		taskStore     store.TaskStore
		categoryStore store.CategoryStore
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		mem := store.NewMemoryStore()
		if cfg.SeedDemoData {
			if err := mem.SeedDemoData(); err != nil {
				logger.Fatal("seed demo data", "err", err)
			}
			logger.Info("demo data loaded")
		}
		taskStore, categoryStore = mem.Tasks(), mem.Categories()
	default:
		db, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db", "err", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		taskStore = store.NewGormTaskStore(db)
		categoryStore = store.NewGormCategoryStore(db)
	}

	taskSvc := service.NewTaskService(taskStore)
	categorySvc := service.NewCategoryService(categoryStore)
	recurringSvc := service.NewRecurringService(taskStore)

	if cfg.DigestTime != "" {
		notifier, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Fatal("telegram", "err", err)
		}
		reminderSvc := service.NewReminderService(taskStore, categoryStore)

		scheduler := service.NewScheduler(time.Local)
		if _, err := scheduler.ScheduleDaily(cfg.DigestTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			digest, err := reminderSvc.DailyDigest(jobCtx, time.Now())
			if err != nil {
				logger.Error("build digest", "err", err)
				return
			}
			if digest == "" {
				return
			}
			if err := notifier.Send(digest); err != nil {
				logger.Error("send digest", "err", err)
			}
		}); err != nil {
			logger.Fatal("schedule digest", "err", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("daily digest scheduled", "at", cfg.DigestTime)
	}

	api := httpapi.NewServer(taskSvc, categorySvc, recurringSvc, logger)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", "err", err)
	}
	logger.Info("shutdown complete")
}
