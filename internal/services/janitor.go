package services

import (
	"time"

	"go.uber.org/zap"

	"gazequest/internal/config"
	"gazequest/internal/repository"
)

// Janitor periodically closes runs whose participant walked away, so
// abandoned sessions cannot be resumed days later.
type Janitor struct {
	log *zap.Logger
}

func NewJanitor(log *zap.Logger) *Janitor {
	return &Janitor{log: log}
}

// Start runs the janitor in a goroutine.
func (j *Janitor) Start() {
	j.log.Info("Starting stale run janitor...")
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			<-ticker.C
			j.sweep()
		}
	}()
}

func (j *Janitor) sweep() {
	idleFor := time.Duration(config.Conf.Server.RunExpiryMinutes) * time.Minute
	closed, err := repository.AbandonStaleRuns(idleFor)
	if err != nil {
		j.log.Error("Failed to abandon stale runs", zap.Error(err))
		return
	}
	if closed > 0 {
		j.log.Info("Closed stale runs", zap.Int64("count", closed))
	}
}
