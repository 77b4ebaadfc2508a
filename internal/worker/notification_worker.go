package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/service"
)

// StartNotificationWorker registers handlers that react to breach events.
// Delivery here is a structured log line plus the notified flag; an outbound
// channel (mail, webhook) would subscribe the same way.
func StartNotificationWorker(dispatcher events.Dispatcher, sla *service.SlaService, logger *zap.Logger) {
	if dispatcher == nil || sla == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dispatcher.Subscribe(events.EventSlaBreachDetected, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.SlaBreachPayload)
		if !ok {
			return nil
		}
		logger.Warn("sla breach notification",
			zap.String("ticket_id", event.TicketID),
			zap.String("target_type", string(payload.TargetType)),
			zap.Int64("delay_ms", payload.DelayMs),
		)
		return sla.MarkBreachNotified(ctx, payload.BreachID)
	})
}
