package bookings

import (
	"context"
	"log"
	"time"
)

// JobProcessor runs background maintenance for bookings
type JobProcessor struct {
	service Service
	config  *JobConfig
	done    chan struct{}
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	ExpirySweepInterval time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		ExpirySweepInterval: 1 * time.Minute,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}
	return &JobProcessor{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start starts all background jobs
func (jp *JobProcessor) Start(ctx context.Context) {
	log.Println("Starting booking background jobs...")
	go jp.startExpirySweep(ctx)
}

// Stop stops all background jobs
func (jp *JobProcessor) Stop() {
	log.Println("Stopping booking background jobs...")
	close(jp.done)
}

// startExpirySweep cancels pending bookings whose payment window lapsed.
func (jp *JobProcessor) startExpirySweep(ctx context.Context) {
	ticker := time.NewTicker(jp.config.ExpirySweepInterval)
	defer ticker.Stop()

	log.Printf("Started pending-booking expiry sweep with %v interval", jp.config.ExpirySweepInterval)

	for {
		select {
		case <-ticker.C:
			jp.sweepExpired(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) sweepExpired(ctx context.Context) {
	expired, err := jp.service.ExpireStalePending(ctx)
	if err != nil {
		log.Printf("Error expiring stale pending bookings: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Expired %d stale pending bookings", expired)
	}
}
