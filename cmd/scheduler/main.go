package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/Freeeeeet/tutor_scheduler/internal/app"
	"github.com/Freeeeeet/tutor_scheduler/internal/config"
	"github.com/Freeeeeet/tutor_scheduler/internal/controller"
	"github.com/Freeeeeet/tutor_scheduler/internal/controller/httpapi"
	"github.com/Freeeeeet/tutor_scheduler/internal/formatting"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/tutor_scheduler/internal/schedule"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/Freeeeeet/tutor_scheduler/migrations"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// stores - хранилища, выбранные через STORAGE
type stores struct {
	users    service.UserStore
	subjects service.SubjectStore
	groups   service.GroupStore
	lessons  service.LessonStore
	requests service.RescheduleRequestStore
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting tutor scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage),
		zap.Duration("overlap_lookback", cfg.OverlapLookback),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer st.close()

	checker := schedule.NewChecker(st.lessons, schedule.WithLookback(cfg.OverlapLookback))
	messages := formatting.NewConflictFormatter(cfg.DefaultTimezone)

	userService := service.NewUserService(st.users, logger)
	lessonService := service.NewLessonService(st.lessons, st.users, st.subjects, st.groups, checker, messages, logger)
	rescheduleService := service.NewRescheduleService(st.lessons, st.requests, st.users, checker, messages, logger)

	server, err := httpapi.NewServer(lessonService, rescheduleService, httpapi.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create HTTP server", zap.Error(err))
	}

	scheduler := app.NewScheduler(rescheduleService, cfg.RequestExpiryInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			logger.Fatal("Failed to create bot", zap.Error(err))
		}

		botController := controller.NewBotController(b, userService, lessonService, rescheduleService, messages, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu was not set", zap.Error(err))
		}
		go botController.Start(ctx)
	} else {
		logger.Info("TELEGRAM_TOKEN is not set, bot is disabled")
	}

	if err := server.Run(ctx, cfg.HTTPAddr); err != nil {
		logger.Error("HTTP server failed", zap.Error(err))
		stop()
	}

	logger.Info("Tutor scheduler stopped")
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		db := memory.Open()
		return &stores{
			users:    memory.NewUserRepository(db),
			subjects: memory.NewSubjectRepository(db),
			groups:   memory.NewGroupRepository(db),
			lessons:  memory.NewLessonRepository(db),
			requests: memory.NewRescheduleRequestRepository(db),
			close:    func() {},
		}, nil
	}

	pool, err := app.ConnectDB(ctx, cfg.DBDSN, cfg.DBConnectTimeout, logger)
	if err != nil {
		return nil, err
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &stores{
		users:    repository.NewUserRepository(pool),
		subjects: repository.NewSubjectRepository(pool),
		groups:   repository.NewGroupRepository(pool),
		lessons:  repository.NewLessonRepository(pool),
		requests: repository.NewRescheduleRequestRepository(pool, logger),
		close:    pool.Close,
	}, nil
}
