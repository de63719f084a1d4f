package queue

import (
	"encoding/json"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/shared"
	"marketplace-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.CategoryConfig
}

func NewScheduler(redisAddress string, cfg config.CategoryConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		cfg:       cfg,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerIntegrityAuditJob()
}

// ================================================
// Category hierarchy integrity audit
// ================================================
func (s *Scheduler) registerIntegrityAuditJob() error {
	task, err := NewIntegrityAuditTask(s.cfg.MaxDepth)
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.cfg.AuditCron,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register CategoryIntegrityAudit job", err)
		return err
	}

	logger.Info("Registered CategoryIntegrityAudit", map[string]interface{}{"cron": s.cfg.AuditCron})
	return nil
}

func NewIntegrityAuditTask(maxDepth int) (*asynq.Task, error) {
	payload, err := json.Marshal(shared.IntegrityAuditPayload{MaxDepth: maxDepth})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(shared.TypeCategoryIntegrityAudit, payload), nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
