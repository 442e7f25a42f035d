package worker

// ticket_worker.go
// Processes ticket jobs from QueueTickets: renders the PDF receipt for a
// committed sale, updates the recibo tracking row, and hands off to the
// email queue when the customer left an address.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/infra"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TicketJobPayload is the job envelope sent to QueueTickets.
type TicketJobPayload struct {
	VentaID string `json:"venta_id"`
}

type TicketWorker struct {
	reciboRepo     repository.ReciboRepository
	ventaRepo      repository.VentaRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	nombreComercio string
}

func NewTicketWorker(
	reciboRepo repository.ReciboRepository,
	ventaRepo repository.VentaRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	nombreComercio string,
) *TicketWorker {
	return &TicketWorker{
		reciboRepo:     reciboRepo,
		ventaRepo:      ventaRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		nombreComercio: nombreComercio,
	}
}

// Process handles a single ticket job:
//  1. Fetch the Venta (with items) and its recibo row
//  2. Render the PDF with up to 3 attempts (backoff 1s, 2s)
//  3. On success: recibo → "generado", enqueue email job if there is an address
//  4. On failure: schedule the recibo for the retry cron
func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload TicketJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("ticket_worker: invalid payload")
		return
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("ticket_worker: invalid venta_id")
		return
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: venta not found")
		return
	}

	recibo, err := w.reciboRepo.FindByVentaID(ctx, ventaID)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: recibo not found")
		return
	}

	var pdfPath string
	pdfErr := withRetry(ctx, 3, func(attempt int) error {
		path, gerr := infra.GenerateTicketPDF(venta, w.nombreComercio, w.pdfStoragePath)
		if gerr != nil {
			log.Warn().
				Err(gerr).
				Int("attempt", attempt+1).
				Str("venta_id", payload.VentaID).
				Msg("ticket_worker: PDF attempt failed, retrying")
			return gerr
		}
		pdfPath = path
		return nil
	})

	if pdfErr != nil {
		recibo.RetryCount++
		errMsg := pdfErr.Error()
		recibo.LastError = &errMsg
		nextRetry := time.Now().Add(computeRetryBackoff(recibo.RetryCount))
		recibo.NextRetryAt = &nextRetry
		_ = w.reciboRepo.Update(ctx, recibo)
		log.Error().Err(pdfErr).Str("venta_id", payload.VentaID).Msg("ticket_worker: PDF generation failed, scheduled for retry")
		return
	}

	recibo.Estado = "generado"
	recibo.PDFPath = &pdfPath
	recibo.NextRetryAt = nil
	recibo.LastError = nil
	if err := w.reciboRepo.Update(ctx, recibo); err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: failed to update recibo")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("venta_id", payload.VentaID).Msg("ticket_worker: PDF generated")

	if recibo.EmailDestino != nil && *recibo.EmailDestino != "" {
		emailJob := EmailJobPayload{
			VentaID: payload.VentaID,
			ToEmail: *recibo.EmailDestino,
			Subject: fmt.Sprintf("Comprobante de compra — %s", venta.NumeroFactura),
			Body:    fmt.Sprintf("Adjunto encontrarás tu comprobante de compra.\nTotal: $%s", venta.Total.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *recibo.EmailDestino).Msg("ticket_worker: failed to enqueue email")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
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
