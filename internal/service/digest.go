package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Digest по расписанию отправляет статистику всем проверяющим
type Digest struct {
	cron      *cron.Cron
	stats     *Statistics
	access    *Access
	messenger Messenger
	log       *zap.Logger
}

// NewDigest проверяет расписание (стандартный cron из пяти полей или @daily и т.п.)
func NewDigest(schedule string, stats *Statistics, access *Access, messenger Messenger, log *zap.Logger) (*Digest, error) {
	d := &Digest{
		cron:      cron.New(),
		stats:     stats,
		access:    access,
		messenger: messenger,
		log:       log,
	}
	if _, err := d.cron.AddFunc(schedule, func() { d.Send(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}
	return d, nil
}

func (d *Digest) Start() {
	d.cron.Start()
}

// Stop ждёт завершения уже запущенной отправки
func (d *Digest) Stop() {
	<-d.cron.Stop().Done()
}

func (d *Digest) Send(ctx context.Context) {
	text := FormatStatistics(d.stats.Snapshot())
	for _, reviewerID := range d.access.Reviewers() {
		if err := d.messenger.SendText(ctx, reviewerID, text); err != nil {
			d.log.Error("failed to send statistics digest", zap.Int64("reviewer_id", reviewerID), zap.Error(err))
		}
	}
}
