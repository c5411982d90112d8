package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/mentorlink/sphere-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher routes course updates to a fixed set of workers using consistent
// hashing on the course id, guaranteeing per-course publish ordering.
type Dispatcher struct {
	workers []chan ports.CourseUpdateInput
	service ports.UpdateService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.UpdateService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.CourseUpdateInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CourseUpdateInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an update to the worker responsible for its course.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(input ports.CourseUpdateInput) {
	d.workers[d.shardIndex(input.CourseID)] <- input
}

// shardIndex maps a course id deterministically to a worker index.
func (d *Dispatcher) shardIndex(courseID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(courseID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CourseUpdateInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case input, ok := <-ch:
			if !ok {
				return
			}
			if _, err := d.service.Publish(ctx, input); err != nil {
				d.log.Error().Err(err).
					Str("course_id", input.CourseID).
					Int("worker_id", id).
					Msg("update publish failed")
			}
		}
	}
}
