package worker

// email_worker.go
// Processes email jobs from QueueEmail: sends the PDF receipt to the customer
// through the circuit-breaker-guarded SMTP mailer.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/infra"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	VentaID string `json:"venta_id"`
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

type EmailWorker struct {
	mailer     *infra.Mailer
	cb         *infra.CircuitBreaker
	reciboRepo repository.ReciboRepository
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, reciboRepo repository.ReciboRepository) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb, reciboRepo: reciboRepo}
}

// Process sends an email with the PDF receipt attached. Failures leave the
// recibo in "generado" with retry metadata so the cron re-enqueues it.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendRecibo(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})

	recibo := w.findRecibo(ctx, payload.VentaID)

	if sendErr != nil {
		log.Error().Err(sendErr).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		if recibo != nil {
			recibo.RetryCount++
			errMsg := sendErr.Error()
			recibo.LastError = &errMsg
			nextRetry := time.Now().Add(computeRetryBackoff(recibo.RetryCount))
			recibo.NextRetryAt = &nextRetry
			// Back to pendiente so the cron re-enqueues the whole ticket job.
			recibo.Estado = "pendiente"
			_ = w.reciboRepo.Update(ctx, recibo)
		}
		return
	}

	if recibo != nil {
		recibo.Estado = "enviado"
		recibo.NextRetryAt = nil
		recibo.LastError = nil
		_ = w.reciboRepo.Update(ctx, recibo)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: recibo sent successfully")
}

func (w *EmailWorker) findRecibo(ctx context.Context, ventaIDStr string) *model.Recibo {
	ventaID, err := uuid.Parse(ventaIDStr)
	if err != nil {
		return nil
	}
	recibo, err := w.reciboRepo.FindByVentaID(ctx, ventaID)
	if err != nil {
		return nil
	}
	return recibo
}
