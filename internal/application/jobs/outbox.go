package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
)

// outbox entrega un aviso como máximo una vez por DedupeKey: reserva en el outbox,
// envía y, si el envío falla, libera la reserva para reintentar en la próxima ejecución.
type outbox struct {
	repo     repository.NotificationRepository
	notifier Notifier
}

// deliver devuelve true si el aviso se envió en esta ejecución.
func (o outbox) deliver(ctx context.Context, n *entity.Notification, msg Message, payload any, now time.Time) (bool, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("jobs: payload: %w", err)
	}
	n.ID = uuid.New().String()
	n.Payload = raw
	n.SentAt = now
	n.Recipient = msg.Recipient
	n.Subject = msg.Subject

	reserved, err := o.repo.Reserve(ctx, n)
	if err != nil {
		return false, fmt.Errorf("jobs: reservar %s: %w", n.DedupeKey, err)
	}
	if !reserved {
		return false, nil
	}
	if err := o.notifier.Send(ctx, msg); err != nil {
		if relErr := o.repo.Release(ctx, n.DedupeKey); relErr != nil {
			return false, fmt.Errorf("jobs: enviar %s: %w (liberar: %v)", n.DedupeKey, err, relErr)
		}
		return false, fmt.Errorf("jobs: enviar %s: %w", n.DedupeKey, err)
	}
	return true, nil
}
