package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo outbox de notificaciones sobre PostgreSQL. dedupe_key es UNIQUE.
type NotificationRepo struct {
	base
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier, queryTimeout time.Duration) *NotificationRepo {
	return &NotificationRepo{base{q: q, timeout: queryTimeout}}
}

// Reserve inserta la notificación; ON CONFLICT hace que un aviso repetido no inserte nada.
func (r *NotificationRepo) Reserve(ctx context.Context, n *entity.Notification) (bool, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	tag, err := r.q.Exec(ctx,
		`INSERT INTO notifications (id, kind, store_id, user_id, recipient, dedupe_key, subject, payload, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (dedupe_key) DO NOTHING`,
		n.ID, n.Kind, nullString(n.StoreID), n.UserID, n.Recipient, n.DedupeKey, n.Subject, []byte(n.Payload), n.SentAt,
	)
	if err != nil {
		return false, fmt.Errorf("reserve notification: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Release borra la reserva de un envío fallido.
func (r *NotificationRepo) Release(ctx context.Context, dedupeKey string) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	if _, err := r.q.Exec(ctx, `DELETE FROM notifications WHERE dedupe_key = $1`, dedupeKey); err != nil {
		return fmt.Errorf("release notification: %w", err)
	}
	return nil
}
