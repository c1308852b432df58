// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"readiness-workers/internal/common/config"
	"readiness-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every readiness worker handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Registration binds a task type to its handler and worker settings.
type Registration struct {
	TaskType string
	Config   config.WorkerConfig
	Handler  JobHandler
}

// StartWorkers opens a job worker for every enabled registration.
func StartWorkers(client zbc.Client, registrations []Registration, log logger.Logger) []worker.JobWorker {
	workers := make([]worker.JobWorker, 0, len(registrations))
	for _, reg := range registrations {
		if !reg.Config.Enabled {
			log.Info("worker disabled", map[string]interface{}{"taskType": reg.TaskType})
			continue
		}

		w := client.NewJobWorker().
			JobType(reg.TaskType).
			Handler(reg.Handler.Handle).
			MaxJobsActive(reg.Config.MaxJobsActive).
			Timeout(config.GetDuration(reg.Config.Timeout)).
			PollInterval(100 * time.Millisecond).
			Open()
		workers = append(workers, w)

		log.Info("worker started", map[string]interface{}{
			"taskType":      reg.TaskType,
			"maxJobsActive": reg.Config.MaxJobsActive,
			"timeout_ms":    reg.Config.Timeout,
		})
	}
	return workers
}

// StopWorkers closes the workers and waits for in-flight jobs to finish.
func StopWorkers(workers []worker.JobWorker) {
	for _, w := range workers {
		w.Close()
	}
	for _, w := range workers {
		w.AwaitClose()
	}
}
