// Package notifier implementa jobs.Notifier.
package notifier

import (
	"context"

	"github.com/jhoicas/tiendapp-api/internal/application/jobs"
	"github.com/jhoicas/tiendapp-api/pkg/logger"
)

var _ jobs.Notifier = (*LogNotifier)(nil)

// LogNotifier escribe cada aviso en el log estructurado. Es el sink por defecto
// mientras no haya un proveedor de correo configurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier crea el notificador sobre el logger de la app.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("notifier")}
}

// Send registra el aviso.
func (n *LogNotifier) Send(ctx context.Context, msg jobs.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Info().
		Str("kind", msg.Kind).
		Str("recipient", msg.Recipient).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("notificación enviada")
	return nil
}
