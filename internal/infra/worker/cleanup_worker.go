package worker

import (
	"context"
	"log"
	"time"
)

type Cleaner interface {
	Cleanup()
}

// CleanupWorker limpa periodicamente os visitantes inativos do rate limiter do relay.
type CleanupWorker struct {
	target       Cleaner
	tickInterval time.Duration
}

func NewCleanupWorker(target Cleaner, interval time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CleanupWorker{
		target:       target,
		tickInterval: interval,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	log.Printf("🕒 Cleanup Worker iniciado (a cada %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Cleanup Worker encerrado")
			return
		case <-ticker.C:
			w.target.Cleanup()
		}
	}
}
