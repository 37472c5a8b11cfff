package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DraftCleaner удаляет брошенные черновики
type DraftCleaner interface {
	DeleteStaleDrafts(ctx context.Context, ttl time.Duration) (int64, error)
}

// Janitor периодически удаляет черновики, которые не менялись дольше ttl.
// Кнопки удалённого черновика после этого считаются устаревшими.
type Janitor struct {
	cleaner  DraftCleaner
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewJanitor создаёт новый janitor
func NewJanitor(cleaner DraftCleaner, ttl, interval time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{
		cleaner:  cleaner,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновую очистку
func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("Starting draft janitor",
		zap.Duration("ttl", j.ttl),
		zap.Duration("interval", j.interval))

	go j.run(ctx)
}

// Stop останавливает очистку и ждёт завершения текущего прохода
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		j.logger.Info("Stopping draft janitor")
		close(j.stopChan)
	})
	<-j.done
}

func (j *Janitor) run(ctx context.Context) {
	defer close(j.done)

	// Первый запуск сразу при старте
	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep(ctx)
		case <-j.stopChan:
			j.logger.Info("Draft janitor stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Draft janitor cancelled")
			return
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	deleted, err := j.cleaner.DeleteStaleDrafts(ctx, j.ttl)
	if err != nil {
		j.logger.Error("Failed to delete stale drafts", zap.Error(err))
		return
	}

	j.logger.Debug("Draft sweep completed", zap.Int64("deleted", deleted))
}
