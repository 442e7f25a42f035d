package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues recibos stuck in
// estado='pendiente' with next_retry_at in the past. Recibos that exhaust
// MaxReciboRetries go to the DLQ for manual inspection.

import (
	"context"
	"fmt"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/metrics"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxReciboRetries is the total attempts before a recibo is parked in
	// estado='error' and its job moved to the DLQ.
	MaxReciboRetries = 5
)

// computeRetryBackoff returns the delay before the next attempt:
// 1m, 2m, 4m, 8m... capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	backoff := time.Minute * time.Duration(1<<uint(retryCount-1))
	if backoff > 30*time.Minute {
		backoff = 30 * time.Minute
	}
	return backoff
}

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	ReciboRepo repository.ReciboRepository
	Dispatcher *Dispatcher
	RDB        *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// re-enqueues due recibos. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	now := time.Now()
	recibos, err := cfg.ReciboRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(recibos) == 0 {
		return
	}

	log.Info().Int("count", len(recibos)).Msg("retry_cron: processing pending recibos")

	for i := range recibos {
		recibo := &recibos[i]

		if recibo.RetryCount >= MaxReciboRetries {
			recibo.Estado = "error"
			recibo.NextRetryAt = nil
			_ = cfg.ReciboRepo.Update(ctx, recibo)
			metrics.TicketsFallidos.Inc()

			reason := "max retries exceeded"
			if recibo.LastError != nil {
				reason = fmt.Sprintf("max retries exceeded: %s", *recibo.LastError)
			}
			payload := fmt.Sprintf(`{"venta_id":%q,"recibo_id":%q}`, recibo.VentaID, recibo.ID)
			SendToDLQ(ctx, cfg.RDB, QueueTickets, "ticket", []byte(payload), reason, recibo.RetryCount)

			log.Error().
				Str("recibo_id", recibo.ID.String()).
				Str("venta_id", recibo.VentaID.String()).
				Int("retries", recibo.RetryCount).
				Msg("retry_cron: max retries exceeded, moved to error/DLQ")
			continue
		}

		// Clear the schedule before re-enqueueing; the worker reschedules on
		// failure with the bumped count.
		recibo.NextRetryAt = nil
		if err := cfg.ReciboRepo.Update(ctx, recibo); err != nil {
			log.Error().Err(err).Str("recibo_id", recibo.ID.String()).Msg("retry_cron: failed to update recibo")
			continue
		}

		if err := cfg.Dispatcher.EncolarTicket(ctx, recibo.VentaID); err != nil {
			log.Error().Err(err).Str("venta_id", recibo.VentaID.String()).Msg("retry_cron: failed to re-enqueue ticket")
			continue
		}
		log.Info().
			Str("venta_id", recibo.VentaID.String()).
			Int("retry_count", recibo.RetryCount).
			Msg("retry_cron: ticket re-enqueued")
	}
}
