package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueFacturas = "jobs:facturas"

	JobFacturaPDF         = "factura_pdf"
	JobFacturaPDFEliminar = "factura_pdf_eliminar"

	maxJobAttempts = 3
)

// Job is the generic envelope for all async tasks.
// Redrives counts how many times the retry cron pulled it back from the DLQ.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Redrives int             `json:"redrives,omitempty"`
}

// FacturaJobPayload identifies the invoice a document job works on.
type FacturaJobPayload struct {
	FacturaID string `json:"factura_id"`
}

// JobHandler runs one job. A returned error triggers a retry and, once
// attempts are exhausted, a move to the DLQ.
type JobHandler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// FacturaGuardada enqueues a PDF render for a committed invoice. Enqueue
// failures are logged only: the invoice is already stored.
func (d *Dispatcher) FacturaGuardada(ctx context.Context, facturaID uuid.UUID) {
	if err := d.enqueue(ctx, QueueFacturas, JobFacturaPDF, FacturaJobPayload{FacturaID: facturaID.String()}); err != nil {
		log.Warn().Err(err).Str("factura_id", facturaID.String()).Msg("dispatcher: failed to enqueue pdf job")
	}
}

// FacturaEliminada enqueues removal of the stored PDF of a deleted invoice.
func (d *Dispatcher) FacturaEliminada(ctx context.Context, facturaID uuid.UUID) {
	if err := d.enqueue(ctx, QueueFacturas, JobFacturaPDFEliminar, FacturaJobPayload{FacturaID: facturaID.String()}); err != nil {
		log.Warn().Err(err).Str("factura_id", facturaID.String()).Msg("dispatcher: failed to enqueue pdf removal job")
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return pushJob(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func pushJob(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes QueueFacturas with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]JobHandler
}

func NewPool(rdb *redis.Client, handlers map[string]JobHandler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers}
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle workers
// cost nothing.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, QueueFacturas).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	handler, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job, "no handler registered", 0)
		return
	}

	err := withRetry(ctx, maxJobAttempts, func(attempt int) error {
		if err := handler(ctx, job.Payload); err != nil {
			log.Warn().
				Err(err).
				Str("type", job.Type).
				Int("attempt", attempt+1).
				Msg("job attempt failed")
			return err
		}
		return nil
	})
	if err != nil {
		SendToDLQ(ctx, p.rdb, queue, job, fmt.Sprintf("failed after %d attempts: %v", maxJobAttempts, err), maxJobAttempts)
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
