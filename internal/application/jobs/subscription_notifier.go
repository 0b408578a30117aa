package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
)

// SubscriptionNotifier avisa a los usuarios cuya suscripción vence dentro de noticeDays
// o ya venció, y marca como expired las vencidas. Un aviso por (usuario, fecha de vencimiento).
type SubscriptionNotifier struct {
	users      repository.UserRepository
	outbox     outbox
	noticeDays int
	now        func() time.Time
}

// NewSubscriptionNotifier construye el trabajo.
func NewSubscriptionNotifier(users repository.UserRepository, notifications repository.NotificationRepository, notifier Notifier, noticeDays int) *SubscriptionNotifier {
	return &SubscriptionNotifier{
		users:      users,
		outbox:     outbox{repo: notifications, notifier: notifier},
		noticeDays: noticeDays,
		now:        time.Now,
	}
}

// Name implementa Job.
func (j *SubscriptionNotifier) Name() string { return JobSubscriptions }

// Run implementa Job. Un fallo de envío no detiene al resto; el error agregado se devuelve al final.
// Una suscripción vencida cuyo aviso falló sigue active para reintentarse en la próxima corrida.
func (j *SubscriptionNotifier) Run(ctx context.Context) (int, error) {
	now := j.now().UTC()
	cutoff := now.AddDate(0, 0, j.noticeDays)
	users, err := j.users.ListActiveSubscriptionsExpiringBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("jobs: listar suscripciones: %w", err)
	}

	sent := 0
	var errs []error
	for _, u := range users {
		if u.SubscriptionExpiresAt == nil {
			continue
		}
		expiresAt := u.SubscriptionExpiresAt.UTC()
		lapsed := !expiresAt.After(now)
		if u.Email == "" {
			if lapsed {
				errs = append(errs, j.expire(ctx, u.ID)...)
			}
			continue
		}

		date := expiresAt.Format("2006-01-02")
		msg := Message{Kind: entity.NotificationSubscriptionExpiry, Recipient: u.Email}
		if lapsed {
			msg.Subject = "Tu suscripción venció"
			msg.Body = fmt.Sprintf("Tu suscripción venció el %s. Renuévala para seguir usando los reportes.", date)
		} else {
			msg.Subject = "Tu suscripción está por vencer"
			msg.Body = fmt.Sprintf("Tu suscripción vence el %s.", date)
		}
		n := &entity.Notification{
			Kind:      entity.NotificationSubscriptionExpiry,
			StoreID:   u.StoreID,
			UserID:    u.ID,
			DedupeKey: fmt.Sprintf("%s:%s:%s", entity.NotificationSubscriptionExpiry, u.ID, date),
		}
		payload := map[string]any{"user_id": u.ID, "expires_at": expiresAt, "lapsed": lapsed}
		ok, err := j.outbox.deliver(ctx, n, msg, payload, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			sent++
		}
		// Solo tras un aviso entregado (o ya registrado): una cuenta expired deja de listarse.
		if lapsed {
			errs = append(errs, j.expire(ctx, u.ID)...)
		}
	}
	return sent, errors.Join(errs...)
}

func (j *SubscriptionNotifier) expire(ctx context.Context, userID string) []error {
	if err := j.users.MarkSubscriptionExpired(ctx, userID); err != nil {
		return []error{fmt.Errorf("jobs: expirar %s: %w", userID, err)}
	}
	return nil
}
