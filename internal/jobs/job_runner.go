package jobs

import (
	"fmt"
	"sort"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/config"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	users    repository.UserRepository
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email       service.EmailService
	Maintenance service.MaintenanceService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(users repository.UserRepository, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		users:    users,
		services: services,
		config:   cfg,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// Jobs maps job names to their entry points
func (jr *JobRunner) Jobs() map[string]func() {
	return map[string]func(){
		"maintenance-digest": jr.SendMaintenanceDigest,
	}
}

// JobNames lists the registered job names in order
func (jr *JobRunner) JobNames() []string {
	names := make([]string, 0, len(jr.Jobs()))
	for name := range jr.Jobs() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunJob runs one job by name (for manual execution)
func (jr *JobRunner) RunJob(name string) error {
	job, ok := jr.Jobs()[name]
	if !ok {
		return fmt.Errorf("unknown job %q (available: %v)", name, jr.JobNames())
	}
	job()
	return nil
}
