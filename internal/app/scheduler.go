package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RequestExpirer закрывает заявки на перенос, время которых уже наступило
type RequestExpirer interface {
	ExpireStaleRequests(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	expirer  RequestExpirer
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
	now      func() time.Time
}

// NewScheduler создаёт новый планировщик
func NewScheduler(expirer RequestExpirer, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		expirer:  expirer,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runExpiryTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

// runExpiryTask периодически закрывает просроченные заявки на перенос
func (s *Scheduler) runExpiryTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.expireRequests(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireRequests(ctx)
		case <-s.stopChan:
			s.logger.Info("Request expiry task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Request expiry task cancelled")
			return
		}
	}
}

func (s *Scheduler) expireRequests(ctx context.Context) {
	count, err := s.expirer.ExpireStaleRequests(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to expire reschedule requests", zap.Error(err))
		return
	}

	if count > 0 {
		s.logger.Info("Expired reschedule requests", zap.Int64("count", count))
	}
}
