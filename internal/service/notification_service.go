package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/helphub-ai/support-intake/internal/domain"
	"github.com/helphub-ai/support-intake/internal/events"
	"github.com/helphub-ai/support-intake/internal/notify"
)

// NotificationService pushes resolution messages back to the originating
// user. Delivery is fire-and-forget: it runs outside the store update,
// failures are logged and swallowed, and it never blocks or reverses the
// status change that triggered it.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   notify.Notifier
	logger     *zap.Logger
	timeout    time.Duration
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier notify.Notifier, logger *zap.Logger, timeout time.Duration) *NotificationService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
		timeout:    timeout,
	}
}

// RegisterHandlers subscribes to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	if payload.NewStatus != domain.TicketStatusResolved || payload.Resolution == "" || payload.UserID == 0 {
		return nil
	}

	message := fmt.Sprintf("Your ticket %s has been resolved!\n\nAgent note: %s", event.TicketID, payload.Resolution)

	// Detached from the request context so the delivery outlives the
	// HTTP call that triggered it.
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.notifier.Notify(sendCtx, payload.UserID, message); err != nil {
			if errors.Is(err, notify.ErrNotConfigured) {
				return
			}
			n.logger.Warn("could not notify user",
				zap.String("ticket_id", event.TicketID),
				zap.Int64("user_id", payload.UserID),
				zap.Error(err))
			return
		}
		n.logger.Info("sent resolution notification",
			zap.String("ticket_id", event.TicketID),
			zap.Int64("user_id", payload.UserID))
	}()
	return nil
}
