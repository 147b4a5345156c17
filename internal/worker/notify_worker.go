package worker

// Processes pickup notifications from QueueNotification.
// When a repair ticket is marked FINISHED and the customer left an email,
// the worker renders a pickup receipt PDF and mails it, with exponential
// backoff on the send (max 3 attempts) and a DLQ fallback.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rhzslya/sinari-server-sub000/internal/infra"
	"github.com/Rhzslya/sinari-server-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Mailer sends a pickup notice with an optional PDF attachment.
type Mailer interface {
	SendPickupNotice(to, subject, body, pdfPath string) error
}

// NotificationWorker turns a finished repair ticket into a customer email.
type NotificationWorker struct {
	serviceRepo    repository.ServiceRepository
	storeRepo      repository.StoreSettingRepository
	mailer         Mailer
	pdfStoragePath string
}

func NewNotificationWorker(
	serviceRepo repository.ServiceRepository,
	storeRepo repository.StoreSettingRepository,
	mailer Mailer,
	pdfStoragePath string,
) *NotificationWorker {
	return &NotificationWorker{
		serviceRepo:    serviceRepo,
		storeRepo:      storeRepo,
		mailer:         mailer,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single notification job:
//  1. Parse NotificationJobPayload from the job envelope
//  2. Fetch the ticket with its items
//  3. Generate the pickup receipt PDF
//  4. Send the email with exponential backoff (max 3 attempts)
//  5. On final failure, move the job to the DLQ
func (w *NotificationWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload NotificationJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notify_worker: invalid payload")
		return
	}

	serviceID, err := uuid.Parse(payload.ServiceID)
	if err != nil {
		log.Error().Str("service_id", payload.ServiceID).Msg("notify_worker: invalid service_id")
		return
	}

	ticket, err := w.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		log.Error().Err(err).Str("service_id", payload.ServiceID).Msg("notify_worker: ticket not found")
		return
	}

	store, err := w.storeRepo.Get(ctx)
	if err != nil {
		// Receipts still go out without branding; log and continue.
		log.Warn().Err(err).Msg("notify_worker: store settings unavailable")
		store = nil
	}

	pdfPath, pdfErr := infra.GeneratePickupReceiptPDF(ticket, store, w.pdfStoragePath)
	if pdfErr != nil {
		log.Warn().Err(pdfErr).Str("service_id", payload.ServiceID).Msg("notify_worker: PDF generation failed, sending without attachment")
		pdfPath = ""
	}

	storeName := "our store"
	if store != nil && store.Name != "" {
		storeName = store.Name
	}
	subject := fmt.Sprintf("Your repair %s is ready for pickup", ticket.Code)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour %s %s (ticket %s) has been repaired and is ready for pickup at %s.\nTotal due: %s\n\nPlease bring this email or your ticket code when you come in.",
		ticket.CustomerName, ticket.Brand, ticket.Model, ticket.Code, storeName, ticket.TotalPrice.StringFixed(2),
	)

	sendErr := withRetry(ctx, 3, func(attempt int) error {
		if err := w.mailer.SendPickupNotice(payload.CustomerEmail, subject, body, pdfPath); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("service_id", payload.ServiceID).
				Msg("notify_worker: send attempt failed, retrying")
			return err
		}
		return nil
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("service_id", payload.ServiceID).Msg("notify_worker: email failed after all retries")
		ParkFailedJob(ctx, rdb, QueueNotification, Job{Type: "notification", Payload: raw}, sendErr.Error(), 3)
		return
	}

	log.Info().
		Str("service_id", payload.ServiceID).
		Str("email", payload.CustomerEmail).
		Msg("notify_worker: pickup notice sent")
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
