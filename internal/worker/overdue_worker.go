package worker

import (
	"context"
	"fmt"
	"time"

	"todoList/internal/logger"
	"todoList/internal/view"

	"go.uber.org/zap"
)

const (
	defaultInterval = 5 * time.Minute
	defaultBatch    = 100
)

type Viewer interface {
	GetView(ctx context.Context, now time.Time) (view.View, error)
}

// OverdueWorker периодически пишет в лог просроченные задачи.
// Статусы задач он не меняет: просрочка считается в момент проверки.
type OverdueWorker struct {
	svc       Viewer
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

func NewOverdueWorker(svc Viewer, interval *time.Duration, batchSize *int) *OverdueWorker {
	intervalToSet := defaultInterval
	if interval != nil {
		intervalToSet = *interval
	}

	batchToSet := defaultBatch
	if batchSize != nil {
		batchToSet = *batchSize
	}

	return &OverdueWorker{
		svc:       svc,
		interval:  intervalToSet,
		batchSize: batchToSet,
		now:       time.Now,
	}
}

func (w *OverdueWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: проверка просроченных задач", zap.Time("started_at", w.now()))
			if _, err := w.Check(ctx); err != nil {
				logger.Warn("Worker: ошибка проверки", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Worker: фоновая проверка останавливается")
			return
		}
	}
}

// Check возвращает id просроченных задач, не больше batchSize
func (w *OverdueWorker) Check(ctx context.Context) ([]int, error) {
	start := time.Now()

	v, err := w.svc.GetView(ctx, w.now())
	if err != nil {
		return nil, fmt.Errorf("получение списка задач: %w", err)
	}

	overdue := make([]int, 0, v.Summary.Overdue)
	for _, row := range v.Rows {
		if !row.Tags.Has(view.TagOverdue) {
			continue
		}
		if len(overdue) >= w.batchSize {
			break
		}
		overdue = append(overdue, row.ID)
		logger.Info("Worker: задача просрочена",
			zap.Int("id", row.ID),
			zap.String("description", row.Description),
			zap.String("deadline", row.Deadline))
	}

	logger.Info("Worker: завершение проверки",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", v.Summary.Total),
		zap.Int("overdue", v.Summary.Overdue))
	return overdue, nil
}
