package auctioncron

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Ticker абстрагирует получателя тиков (реестр магазинов).
type Ticker interface {
	TickAuctions(delta time.Duration)
}

// Cron — внешние «часы» аукционов: с грубым интервалом продвигает
// оставшееся время всех аукционов и тем самым завершает истёкшие.
type Cron struct {
	target   Ticker
	interval time.Duration
	logger   *log.Entry
}

// New создаёт планировщик. Неположительный интервал заменяется минутой.
func New(target Ticker, interval time.Duration, logger *log.Entry) *Cron {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = log.New().WithField("component", "auction-cron")
	}
	return &Cron{
		target:   target,
		interval: interval,
		logger:   logger,
	}
}

// Run тикает до отмены контекста. Блокирует вызывающего.
func (c *Cron) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.WithField("interval", c.interval.String()).Info("auction cron started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("auction cron stopped")
			return
		case <-ticker.C:
			c.target.TickAuctions(c.interval)
		}
	}
}
