package repository

import (
	"context"

	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
)

// NotificationRepository outbox de notificaciones de los trabajos programados.
type NotificationRepository interface {
	// Reserve inserta la notificación si su DedupeKey no existe.
	// Devuelve false (sin error) si ya fue enviada antes.
	Reserve(ctx context.Context, n *entity.Notification) (bool, error)
	// Release borra una reserva cuyo envío falló, para reintentar en la próxima ejecución.
	Release(ctx context.Context, dedupeKey string) error
}
